package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
environment: test
server:
  port: 9090
  read_timeout: 5s
  write_timeout: 5s
  shutdown_timeout: 5s
logger:
  level: debug
  format: json
  output: stdout
refresh:
  interval: 30s
  top_alts: 25
coingecko:
  base_url: http://localhost:1234
  timeout: 2s
sentiment:
  base_url: http://localhost:1235
  timeout: 2s
thresholds:
  dominance_high: 58.29
  dominance_low: 54.66
  ethbtc_breakout: 0.054
  greed_high: 80
ladder:
  step_pct: 10
  sell_pct: 10
  max_steps: 8
  trail_pct: 20
  target_alt_alloc: 40
cache:
  snapshot_ttl: 1h
`

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Refresh.Interval)
	assert.Equal(t, 58.29, cfg.Thresholds.DominanceHigh)
	assert.Equal(t, 54.66, cfg.Thresholds.DominanceLow)
	assert.Equal(t, 0.054, cfg.Thresholds.EthBtcBreakout)
	assert.Equal(t, 8, cfg.Ladder.MaxSteps)
}

func TestDefaultsFillOmittedSections(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, "environment: minimal\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Refresh.Interval)
	assert.Equal(t, 50, cfg.Refresh.TopAlts)
	assert.Equal(t, 0.5, cfg.Refresh.MaxRPS)
	assert.Equal(t, 5.0, cfg.Refresh.BurstSize)
	assert.Equal(t, "https://api.coingecko.com/api/v3", cfg.CoinGecko.BaseURL)
	assert.Equal(t, "https://api.alternative.me", cfg.Sentiment.BaseURL)
	assert.Equal(t, 58.29, cfg.Thresholds.DominanceHigh)
	assert.Equal(t, 80, cfg.Thresholds.GreedHigh)
	assert.Equal(t, 10.0, cfg.Ladder.StepPct)
	assert.Equal(t, 24*time.Hour, cfg.Cache.SnapshotTTL)
	assert.Equal(t, "cyclewatch", cfg.Cache.Redis.Prefix)
	assert.Contains(t, cfg.Charts.EmbedTemplate, "tradingview.com")
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("COINGECKO_BASE_URL", "http://stub:9000")
	t.Setenv("REFRESH_INTERVAL", "15s")
	t.Setenv("REFRESH_MAX_RPS", "2.5")
	t.Setenv("SERVER_PORT", "8181")

	cfg, err := LoadWithEnv(writeTempConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "http://stub:9000", cfg.CoinGecko.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Refresh.Interval)
	assert.Equal(t, 2.5, cfg.Refresh.MaxRPS)
	assert.Equal(t, 8181, cfg.Server.Port)
}

func TestLoadWithEnvKeepsValueOnGarbage(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("REFRESH_MAX_RPS", "plenty")

	cfg, err := LoadWithEnv(writeTempConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 0.5, cfg.Refresh.MaxRPS)
}

func TestValidateRejectsInvertedBands(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, testYAML))
	require.NoError(t, err)

	cfg.Thresholds.DominanceLow = 60
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dominance_low")
}

func TestValidateRequiresInterval(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, testYAML))
	require.NoError(t, err)

	cfg.Refresh.Interval = 0
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsUndersizedBurst(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, testYAML))
	require.NoError(t, err)

	// One refresh cycle fires four CoinGecko calls; a smaller bucket would
	// deny one of them every cycle.
	cfg.Refresh.BurstSize = 3
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "burst_size")
}

func TestShippedDefaultConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.Refresh.Interval)
	assert.Equal(t, 50, cfg.Refresh.TopAlts)
	assert.GreaterOrEqual(t, cfg.Refresh.BurstSize, 4.0,
		"budget must cover the four calls of one refresh cycle")
}
