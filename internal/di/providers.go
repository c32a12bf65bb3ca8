package di

import (
	"fmt"

	"CycleWatch/internal/domain/models"
	"CycleWatch/internal/domain/repository"
	"CycleWatch/internal/handler/api"
	internalrepo "CycleWatch/internal/repository"
	"CycleWatch/internal/service/altme"
	"CycleWatch/internal/service/coingecko"
	"CycleWatch/internal/service/ratelimit"
	"CycleWatch/internal/usecase"
	"CycleWatch/pkg/cache"
	"CycleWatch/pkg/config"
	xlogger "CycleWatch/pkg/logger"
	"CycleWatch/pkg/metrics"
	"CycleWatch/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*xlogger.Logger, error) {
	l, err := xlogger.New(&xlogger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache builds the layered snapshot cache. Redis is strictly optional;
// without it the fallback snapshot only survives in process memory.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	var redisCache *cache.RedisCache
	if cfg.Cache.Redis.Enabled {
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		redisCache = rc
	}
	return cache.NewLayeredCache(redisCache), nil
}

// ProvideSnapshotStore creates the last-good-snapshot store.
func ProvideSnapshotStore(c cache.Service, cfg *config.Config) repository.SnapshotStore {
	return internalrepo.NewSnapshotCache(c, cfg.Cache.SnapshotTTL)
}

// ProvideMarketDataSource creates the CoinGecko client with a local request
// budget so the free tier is not burned through.
func ProvideMarketDataSource(cfg *config.Config) repository.MarketDataSource {
	return coingecko.New(
		cfg.CoinGecko.BaseURL,
		cfg.CoinGecko.Timeout,
		coingecko.WithRateLimiter(ratelimit.New(), cfg.Refresh.BurstSize, cfg.Refresh.MaxRPS),
	)
}

// ProvideSentimentSource creates the Alternative.me client.
func ProvideSentimentSource(cfg *config.Config) repository.SentimentSource {
	return altme.New(cfg.Sentiment.BaseURL, cfg.Sentiment.Timeout)
}

// ProvideThresholds maps configured band boundaries into the domain type.
func ProvideThresholds(cfg *config.Config) models.Thresholds {
	return models.Thresholds{
		DominanceHigh:  cfg.Thresholds.DominanceHigh,
		DominanceLow:   cfg.Thresholds.DominanceLow,
		EthBtcBreakout: cfg.Thresholds.EthBtcBreakout,
		GreedHigh:      cfg.Thresholds.GreedHigh,
	}
}

// ProvideRefresher creates the periodic refresh use case.
func ProvideRefresher(
	market repository.MarketDataSource,
	sentiment repository.SentimentSource,
	store repository.SnapshotStore,
	m repository.Metrics,
	logger *xlogger.Logger,
	thresholds models.Thresholds,
	cfg *config.Config,
) *usecase.Refresher {
	return usecase.NewRefresher(
		market, sentiment, store, m, logger, thresholds,
		cfg.Refresh.Interval, cfg.Refresh.TopAlts,
	)
}

// ProvideHub creates the WebSocket fan-out hub.
func ProvideHub(logger *xlogger.Logger) *api.Hub {
	return api.NewHub(logger)
}

// ProvideDashboardHandler creates the Echo HTTP handler.
func ProvideDashboardHandler(
	logger *xlogger.Logger,
	refresher *usecase.Refresher,
	hub *api.Hub,
	cfg *config.Config,
) *api.DashboardEchoHandler {
	return api.NewDashboardEchoHandler(logger, refresher, hub, cfg.Charts.EmbedTemplate, api.Defaults{
		StepPct:        cfg.Ladder.StepPct,
		SellPct:        cfg.Ladder.SellPct,
		MaxSteps:       cfg.Ladder.MaxSteps,
		TrailPct:       cfg.Ladder.TrailPct,
		TopAlts:        cfg.Refresh.TopAlts,
		TargetAltAlloc: cfg.Ladder.TargetAltAlloc,
	})
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *xlogger.Logger,
	refresher *usecase.Refresher,
	hub *api.Hub,
	handler *api.DashboardEchoHandler,
) *server.App {
	refresher.SetBroadcaster(hub)
	return server.New(cfg, logger, refresher, hub, handler)
}
