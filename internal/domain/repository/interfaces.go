package repository

import (
	"context"

	"CycleWatch/internal/domain/models"
)

// MarketDataSource pulls market-wide metrics and prices from an external API.
// One attempt per call; timeouts and cancellation come from ctx.
type MarketDataSource interface {
	GlobalDominance(ctx context.Context) (float64, error)
	EthBtcRatio(ctx context.Context) (float64, error)
	PricesUSD(ctx context.Context, ids []string) (map[string]float64, error)
	TopAlts(ctx context.Context, n int) ([]models.AltQuote, error)
}

// SentimentSource pulls the Fear & Greed index.
type SentimentSource interface {
	FearGreed(ctx context.Context) (*models.FearGreed, error)
}

// SnapshotStore holds the last successful snapshot for the staleness fallback.
type SnapshotStore interface {
	Save(ctx context.Context, snap *models.MetricSnapshot) error
	Latest(ctx context.Context) (*models.MetricSnapshot, error)
}

// Metrics abstracts operational metrics recording.
type Metrics interface {
	RecordRefresh(outcome string)
	RecordFetchError(source, kind string)
	RecordMetric(metric string, value float64)
	RecordFetchLatency(source string, seconds float64)
	RecordSnapshotAge(seconds float64)
	RecordStale(stale bool)
}
