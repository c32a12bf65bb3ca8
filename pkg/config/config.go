package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"CycleWatch/pkg/util"
)

// refreshCalls is how many CoinGecko requests one refresh cycle issues
// (global, eth/btc ratio, usd prices, coin markets). The local token bucket
// must hold at least this many tokens or a healthy cycle throttles itself.
const refreshCalls = 4

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Logger struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logger"`
	Refresh struct {
		Interval  time.Duration `yaml:"interval" default:"60s"`
		TopAlts   int           `yaml:"top_alts" default:"50"`
		MaxRPS    float64       `yaml:"max_rps" default:"0.5"`
		BurstSize float64       `yaml:"burst_size" default:"5"`
	} `yaml:"refresh"`
	CoinGecko struct {
		BaseURL string        `yaml:"base_url" default:"https://api.coingecko.com/api/v3"`
		Timeout time.Duration `yaml:"timeout" default:"20s"`
	} `yaml:"coingecko"`
	Sentiment struct {
		BaseURL string        `yaml:"base_url" default:"https://api.alternative.me"`
		Timeout time.Duration `yaml:"timeout" default:"20s"`
	} `yaml:"sentiment"`
	Thresholds struct {
		DominanceHigh  float64 `yaml:"dominance_high" default:"58.29"`
		DominanceLow   float64 `yaml:"dominance_low" default:"54.66"`
		EthBtcBreakout float64 `yaml:"ethbtc_breakout" default:"0.054"`
		GreedHigh      int     `yaml:"greed_high" default:"80"`
	} `yaml:"thresholds"`
	Ladder struct {
		StepPct        float64 `yaml:"step_pct" default:"10"`
		SellPct        float64 `yaml:"sell_pct" default:"10"`
		MaxSteps       int     `yaml:"max_steps" default:"8"`
		TrailPct       float64 `yaml:"trail_pct" default:"20"`
		TargetAltAlloc float64 `yaml:"target_alt_alloc" default:"40"`
	} `yaml:"ladder"`
	Cache struct {
		SnapshotTTL time.Duration `yaml:"snapshot_ttl" default:"24h"`
		Redis       struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"cyclewatch"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Charts struct {
		EmbedTemplate string `yaml:"embed_template" default:"https://s.tradingview.com/widgetembed/?frameElementId=%s&symbol=%s&interval=240&hidesidetoolbar=1&hidelegend=0&toolbarbg=rgba(0,0,0,0)&studies=&theme=dark&style=1&locale=en&timezone=Etc%%2FUTC"`
	} `yaml:"charts"`
}

// Load reads a YAML configuration file, fills omitted fields with defaults,
// and validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("COINGECKO_BASE_URL"); v != "" {
		c.CoinGecko.BaseURL = v
	}
	if v := os.Getenv("SENTIMENT_BASE_URL"); v != "" {
		c.Sentiment.BaseURL = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
		c.Cache.Redis.Enabled = true
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Refresh.Interval = d
		}
	}
	if v := os.Getenv("REFRESH_MAX_RPS"); v != "" {
		c.Refresh.MaxRPS = util.ParseFloatDefault(v, c.Refresh.MaxRPS)
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("refresh.interval must be positive")
	}
	if c.Refresh.MaxRPS <= 0 {
		return fmt.Errorf("refresh.max_rps must be positive")
	}
	if c.Refresh.BurstSize < refreshCalls {
		return fmt.Errorf("refresh.burst_size %.0f cannot cover the %d upstream calls made each refresh cycle",
			c.Refresh.BurstSize, refreshCalls)
	}
	if c.CoinGecko.BaseURL == "" {
		return fmt.Errorf("coingecko.base_url is required")
	}
	if c.Sentiment.BaseURL == "" {
		return fmt.Errorf("sentiment.base_url is required")
	}
	if c.Thresholds.DominanceLow >= c.Thresholds.DominanceHigh {
		return fmt.Errorf("thresholds.dominance_low must be below thresholds.dominance_high, got %.2f >= %.2f",
			c.Thresholds.DominanceLow, c.Thresholds.DominanceHigh)
	}
	if c.Thresholds.EthBtcBreakout <= 0 {
		return fmt.Errorf("thresholds.ethbtc_breakout must be positive")
	}
	if c.Ladder.MaxSteps <= 0 {
		return fmt.Errorf("ladder.max_steps must be positive")
	}
	if c.Ladder.StepPct <= 0 || c.Ladder.SellPct <= 0 {
		return fmt.Errorf("ladder.step_pct and ladder.sell_pct must be positive")
	}
	return nil
}
