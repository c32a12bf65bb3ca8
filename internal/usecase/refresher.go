package usecase

import (
	"context"
	"sync"
	"time"

	"CycleWatch/internal/domain/models"
	drepo "CycleWatch/internal/domain/repository"
	xlogger "CycleWatch/pkg/logger"
	"CycleWatch/pkg/util"
)

// Broadcaster receives the fresh view after every refresh cycle.
type Broadcaster interface {
	Broadcast(view *models.SnapshotView, eval *models.Evaluation)
}

// Refresher drives the periodic fetch/evaluate cycle. Each cycle produces a
// fresh immutable snapshot; on upstream failure the previous snapshot keeps
// being served, marked stale. No retries beyond the single attempt per cycle.
type Refresher struct {
	market     drepo.MarketDataSource
	sentiment  drepo.SentimentSource
	store      drepo.SnapshotStore
	metrics    drepo.Metrics
	logger     *xlogger.Logger
	thresholds models.Thresholds
	interval   time.Duration
	topAlts    int

	broadcaster Broadcaster
	now         func() time.Time

	mu      sync.RWMutex
	current *models.MetricSnapshot
	stale   bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewRefresher creates a new Refresher instance.
func NewRefresher(
	market drepo.MarketDataSource,
	sentiment drepo.SentimentSource,
	store drepo.SnapshotStore,
	metrics drepo.Metrics,
	logger *xlogger.Logger,
	thresholds models.Thresholds,
	interval time.Duration,
	topAlts int,
) *Refresher {
	return &Refresher{
		market:     market,
		sentiment:  sentiment,
		store:      store,
		metrics:    metrics,
		logger:     logger,
		thresholds: thresholds,
		interval:   interval,
		topAlts:    topAlts,
		now:        time.Now,
		done:       make(chan struct{}),
	}
}

// SetBroadcaster attaches a push channel for refreshed views.
func (r *Refresher) SetBroadcaster(b Broadcaster) { r.broadcaster = b }

// Thresholds returns the configured band boundaries.
func (r *Refresher) Thresholds() models.Thresholds { return r.thresholds }

// Start warms the state from the snapshot store, runs one immediate refresh,
// and then refreshes on every tick until ctx is canceled.
func (r *Refresher) Start(ctx context.Context) error {
	ctx, r.cancel = context.WithCancel(ctx)

	// Warm start: a snapshot surviving in the store (e.g. redis) is served
	// as stale until the first live refresh lands.
	if snap, err := r.store.Latest(ctx); err != nil {
		r.logger.Warn("snapshot store warm-up failed", xlogger.Error(err))
	} else if snap != nil {
		r.mu.Lock()
		r.current = snap
		r.stale = true
		r.mu.Unlock()
	}

	r.RefreshOnce(ctx)

	go r.loop(ctx)
	return nil
}

func (r *Refresher) loop(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RefreshOnce(ctx)
		}
	}
}

// RefreshOnce runs a single fetch/evaluate cycle.
func (r *Refresher) RefreshOnce(ctx context.Context) {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed = map[string]error{}

		dominance float64
		ratio     float64
		prices    map[string]float64
		fearGreed *models.FearGreed
		alts      []models.AltQuote
	)

	fetch := func(source string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			err := fn()
			r.metrics.RecordFetchLatency(source, time.Since(start).Seconds())
			if err != nil {
				r.metrics.RecordFetchError(source, drepo.ClassifyFetchError(err))
				r.logger.Warn("fetch failed",
					xlogger.String("source", source),
					xlogger.String("kind", drepo.ClassifyFetchError(err)),
					xlogger.Error(err),
				)
				mu.Lock()
				failed[source] = err
				mu.Unlock()
			}
		}()
	}

	fetch("dominance", func() (err error) {
		dominance, err = r.market.GlobalDominance(ctx)
		return
	})
	fetch("ethbtc", func() (err error) {
		ratio, err = r.market.EthBtcRatio(ctx)
		return
	})
	fetch("prices", func() (err error) {
		prices, err = r.market.PricesUSD(ctx, []string{"bitcoin", "ethereum"})
		return
	})
	fetch("sentiment", func() (err error) {
		fearGreed, err = r.sentiment.FearGreed(ctx)
		return
	})
	fetch("alts", func() (err error) {
		alts, err = r.market.TopAlts(ctx, r.topAlts)
		return
	})
	wg.Wait()

	// Dominance, ratio and prices are the core of the snapshot; without any
	// of them the cycle degrades to the previous snapshot. Sentiment and the
	// alt table fail independently, as on the original dashboard.
	if failed["dominance"] != nil || failed["ethbtc"] != nil || failed["prices"] != nil {
		r.degrade()
		return
	}

	snap := &models.MetricSnapshot{
		Timestamp:    r.now().UTC(),
		BTCDominance: dominance,
		EthBtcRatio:  ratio,
		FearGreed:    fearGreed,
		BTCPriceUSD:  prices["bitcoin"],
		ETHPriceUSD:  prices["ethereum"],
		Alts:         alts,
	}

	if err := r.store.Save(ctx, snap); err != nil {
		r.logger.Warn("snapshot save failed", xlogger.Error(err))
	}

	r.mu.Lock()
	r.current = snap
	r.stale = false
	r.mu.Unlock()

	r.metrics.RecordRefresh("ok")
	r.metrics.RecordStale(false)
	r.metrics.RecordSnapshotAge(0)
	r.metrics.RecordMetric("btc_dominance", dominance)
	r.metrics.RecordMetric("eth_btc_ratio", ratio)
	r.metrics.RecordMetric("btc_price_usd", prices["bitcoin"])
	r.metrics.RecordMetric("eth_price_usd", prices["ethereum"])
	if fearGreed != nil {
		r.metrics.RecordMetric("fear_greed", float64(fearGreed.Value))
	}

	r.logger.Info("refresh complete",
		xlogger.Float64("dominance", dominance),
		xlogger.Float64("ethbtc", ratio),
		xlogger.Int("alts", len(alts)),
	)

	r.publish()
}

// degrade keeps serving the previous snapshot and marks it stale.
func (r *Refresher) degrade() {
	r.mu.Lock()
	r.stale = true
	snap := r.current
	r.mu.Unlock()

	r.metrics.RecordRefresh("degraded")
	r.metrics.RecordStale(true)
	if snap != nil {
		r.metrics.RecordSnapshotAge(util.Age(snap.Timestamp, r.now()).Seconds())
	}

	r.publish()
}

func (r *Refresher) publish() {
	if r.broadcaster == nil {
		return
	}
	view := r.View()
	if view.Snapshot == nil {
		return
	}
	eval := Evaluate(view.Snapshot, r.thresholds)
	r.broadcaster.Broadcast(view, &eval)
}

// View returns the snapshot currently served plus staleness metadata.
func (r *Refresher) View() *models.SnapshotView {
	r.mu.RLock()
	snap := r.current
	stale := r.stale
	r.mu.RUnlock()

	view := &models.SnapshotView{Snapshot: snap, Stale: stale}
	if snap != nil {
		view.AgeSec = util.Age(snap.Timestamp, r.now()).Seconds()
	}
	return view
}

// Evaluation classifies the snapshot currently served. ok is false while no
// snapshot has been fetched yet.
func (r *Refresher) Evaluation() (models.Evaluation, bool) {
	r.mu.RLock()
	snap := r.current
	r.mu.RUnlock()

	if snap == nil {
		return models.Evaluation{}, false
	}
	return Evaluate(snap, r.thresholds), true
}

// Shutdown stops the refresh loop.
func (r *Refresher) Shutdown(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}
	select {
	case <-r.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
