package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	refreshTotal  *prometheus.CounterVec
	fetchErrors   *prometheus.CounterVec
	metricGauge   *prometheus.GaugeVec
	fetchLatency  *prometheus.HistogramVec
	snapshotAge   prometheus.Gauge
	snapshotStale prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		refreshTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cyclewatch_refresh_total",
				Help: "Total number of refresh cycles by outcome",
			},
			[]string{"outcome"},
		),
		fetchErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cyclewatch_fetch_errors_total",
				Help: "Total number of upstream fetch errors",
			},
			[]string{"source", "kind"},
		),
		metricGauge: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cyclewatch_market_metric",
				Help: "Last fetched value for a market metric",
			},
			[]string{"metric"},
		),
		fetchLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cyclewatch_fetch_duration_seconds",
				Help:    "Duration of upstream fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		snapshotAge: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "cyclewatch_snapshot_age_seconds",
				Help: "Age of the snapshot currently served",
			},
		),
		snapshotStale: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "cyclewatch_snapshot_stale",
				Help: "1 when the served snapshot is a stale fallback",
			},
		),
	}
}

// RecordRefresh records a refresh cycle outcome ("ok" or "degraded").
func (r *Recorder) RecordRefresh(outcome string) {
	r.refreshTotal.WithLabelValues(outcome).Inc()
}

// RecordFetchError records an upstream fetch error by source and kind.
func (r *Recorder) RecordFetchError(source, kind string) {
	r.fetchErrors.WithLabelValues(source, kind).Inc()
}

// RecordMetric records the last fetched value for a named market metric.
func (r *Recorder) RecordMetric(metric string, value float64) {
	r.metricGauge.WithLabelValues(metric).Set(value)
}

// RecordFetchLatency records upstream fetch latency in seconds.
func (r *Recorder) RecordFetchLatency(source string, seconds float64) {
	r.fetchLatency.WithLabelValues(source).Observe(seconds)
}

// RecordSnapshotAge records the age of the served snapshot.
func (r *Recorder) RecordSnapshotAge(seconds float64) {
	r.snapshotAge.Set(seconds)
}

// RecordStale flips the staleness gauge.
func (r *Recorder) RecordStale(stale bool) {
	if stale {
		r.snapshotStale.Set(1)
		return
	}
	r.snapshotStale.Set(0)
}
