package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CycleWatch/internal/domain/models"
	xlogger "CycleWatch/pkg/logger"
)

type stubMarket struct {
	mu        sync.Mutex
	dominance float64
	ratio     float64
	prices    map[string]float64
	alts      []models.AltQuote
	err       error
}

func (s *stubMarket) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *stubMarket) GlobalDominance(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dominance, s.err
}

func (s *stubMarket) EthBtcRatio(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ratio, s.err
}

func (s *stubMarket) PricesUSD(ctx context.Context, ids []string) (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prices, s.err
}

func (s *stubMarket) TopAlts(ctx context.Context, n int) ([]models.AltQuote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alts, s.err
}

type stubSentiment struct {
	fg  *models.FearGreed
	err error
}

func (s *stubSentiment) FearGreed(ctx context.Context) (*models.FearGreed, error) {
	return s.fg, s.err
}

type stubStore struct {
	mu     sync.Mutex
	saved  []*models.MetricSnapshot
	latest *models.MetricSnapshot
}

func (s *stubStore) Save(ctx context.Context, snap *models.MetricSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, snap)
	s.latest = snap
	return nil
}

func (s *stubStore) Latest(ctx context.Context) (*models.MetricSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, nil
}

type stubMetrics struct {
	mu        sync.Mutex
	refresh   []string
	errors    map[string]string
	lastStale bool
}

func (m *stubMetrics) RecordRefresh(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh = append(m.refresh, outcome)
}

func (m *stubMetrics) RecordFetchError(source, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errors == nil {
		m.errors = map[string]string{}
	}
	m.errors[source] = kind
}

func (m *stubMetrics) RecordMetric(metric string, value float64)         {}
func (m *stubMetrics) RecordFetchLatency(source string, seconds float64) {}
func (m *stubMetrics) RecordSnapshotAge(seconds float64)                 {}

func (m *stubMetrics) RecordStale(stale bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastStale = stale
}

type captureBroadcaster struct {
	mu    sync.Mutex
	calls []models.Evaluation
}

func (b *captureBroadcaster) Broadcast(view *models.SnapshotView, eval *models.Evaluation) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, *eval)
}

func testLogger() *xlogger.Logger {
	l, _ := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	return l
}

func newTestRefresher(market *stubMarket, sentiment *stubSentiment, store *stubStore, metrics *stubMetrics) *Refresher {
	return NewRefresher(
		market, sentiment, store, metrics, testLogger(),
		models.Thresholds{DominanceHigh: 58.29, DominanceLow: 54.66, EthBtcBreakout: 0.054, GreedHigh: 80},
		time.Hour, 50,
	)
}

func healthyMarket() *stubMarket {
	return &stubMarket{
		dominance: 56.0,
		ratio:     0.052,
		prices:    map[string]float64{"bitcoin": 64000, "ethereum": 3300},
		alts: []models.AltQuote{
			{Rank: 3, Symbol: "SOL", Name: "Solana", PriceUSD: 150},
		},
	}
}

func TestRefreshOnceBuildsSnapshot(t *testing.T) {
	market := healthyMarket()
	store := &stubStore{}
	metrics := &stubMetrics{}
	r := newTestRefresher(market, &stubSentiment{fg: &models.FearGreed{Value: 71, Classification: "Greed"}}, store, metrics)

	r.RefreshOnce(context.Background())

	view := r.View()
	require.NotNil(t, view.Snapshot)
	assert.False(t, view.Stale)
	assert.Equal(t, 56.0, view.Snapshot.BTCDominance)
	assert.Equal(t, 0.052, view.Snapshot.EthBtcRatio)
	assert.Equal(t, 64000.0, view.Snapshot.BTCPriceUSD)
	assert.Equal(t, 3300.0, view.Snapshot.ETHPriceUSD)
	require.NotNil(t, view.Snapshot.FearGreed)
	assert.Equal(t, 71, view.Snapshot.FearGreed.Value)
	assert.Len(t, view.Snapshot.Alts, 1)

	require.Len(t, store.saved, 1)
	assert.Equal(t, []string{"ok"}, metrics.refresh)

	eval, ok := r.Evaluation()
	require.True(t, ok)
	assert.Equal(t, models.StateHold, eval.State)
}

func TestRefreshFailureServesPreviousSnapshotStale(t *testing.T) {
	market := healthyMarket()
	store := &stubStore{}
	metrics := &stubMetrics{}
	r := newTestRefresher(market, &stubSentiment{fg: &models.FearGreed{Value: 40}}, store, metrics)

	r.RefreshOnce(context.Background())
	good := r.View().Snapshot
	require.NotNil(t, good)
	evalBefore, _ := r.Evaluation()

	market.fail(errors.New("connection reset"))
	r.RefreshOnce(context.Background())

	view := r.View()
	assert.True(t, view.Stale)
	assert.Same(t, good, view.Snapshot, "previous snapshot served unchanged")

	// The evaluation over the cached snapshot does not change either.
	evalAfter, ok := r.Evaluation()
	require.True(t, ok)
	assert.Equal(t, evalBefore.State, evalAfter.State)
	assert.Equal(t, evalBefore.Breakout, evalAfter.Breakout)

	assert.Equal(t, []string{"ok", "degraded"}, metrics.refresh)
	assert.True(t, metrics.lastStale)
	require.Len(t, store.saved, 1, "failed cycles never overwrite the stored snapshot")
}

func TestRefreshFailureWithoutPriorSnapshot(t *testing.T) {
	market := healthyMarket()
	market.fail(errors.New("boom"))
	r := newTestRefresher(market, &stubSentiment{}, &stubStore{}, &stubMetrics{})

	r.RefreshOnce(context.Background())

	view := r.View()
	assert.Nil(t, view.Snapshot)
	assert.True(t, view.Stale)

	_, ok := r.Evaluation()
	assert.False(t, ok)
}

func TestOptionalSourcesFailIndependently(t *testing.T) {
	market := healthyMarket()
	metrics := &stubMetrics{}
	r := newTestRefresher(market, &stubSentiment{err: errors.New("fng down")}, &stubStore{}, metrics)

	r.RefreshOnce(context.Background())

	view := r.View()
	require.NotNil(t, view.Snapshot)
	assert.False(t, view.Stale, "missing sentiment does not degrade the cycle")
	assert.Nil(t, view.Snapshot.FearGreed)
	assert.Equal(t, "network", metrics.errors["sentiment"])
}

func TestStartWarmsFromStore(t *testing.T) {
	old := &models.MetricSnapshot{
		Timestamp:    time.Now().UTC().Add(-2 * time.Hour),
		BTCDominance: 57.0,
	}
	market := healthyMarket()
	market.fail(errors.New("still down"))
	r := newTestRefresher(market, &stubSentiment{}, &stubStore{latest: old}, &stubMetrics{})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, r.Start(ctx))
	defer func() {
		cancel()
		sctx, scancel := context.WithTimeout(context.Background(), time.Second)
		defer scancel()
		require.NoError(t, r.Shutdown(sctx))
	}()

	view := r.View()
	require.NotNil(t, view.Snapshot)
	assert.True(t, view.Stale)
	assert.Equal(t, 57.0, view.Snapshot.BTCDominance)
	assert.Greater(t, view.AgeSec, 3600.0)
}

func TestBroadcastAfterRefresh(t *testing.T) {
	r := newTestRefresher(healthyMarket(), &stubSentiment{fg: &models.FearGreed{Value: 50}}, &stubStore{}, &stubMetrics{})
	b := &captureBroadcaster{}
	r.SetBroadcaster(b)

	r.RefreshOnce(context.Background())

	require.Len(t, b.calls, 1)
	assert.Equal(t, models.StateHold, b.calls[0].State)
}
