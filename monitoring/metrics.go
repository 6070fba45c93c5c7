package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the filesystem service. A nil
// *Metrics is valid and records nothing, so instrumentation stays optional.
type Metrics struct {
	// Operation metrics
	OpsTotal   *prometheus.CounterVec
	OpDuration *prometheus.HistogramVec
	OpErrors   *prometheus.CounterVec

	// Cache metrics
	CacheHits    prometheus.Counter
	CacheMisses  prometheus.Counter
	CacheEntries prometheus.Gauge
	CacheBytes   prometheus.Gauge

	// Lock metrics
	LockTableSize prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a metrics collector backed by its own registry, so
// multiple sandboxes can coexist in one process without collector collisions.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		OpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentfs_operations_total",
				Help: "Total number of filesystem operations",
			},
			[]string{"op", "status"},
		),
		OpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agentfs_operation_duration_seconds",
				Help:    "Filesystem operation duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"op"},
		),
		OpErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentfs_operation_errors_total",
				Help: "Total number of filesystem operation errors by taxonomy code",
			},
			[]string{"op", "code"},
		),

		CacheHits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "agentfs_cache_hits_total",
				Help: "Total number of read cache hits",
			},
		),
		CacheMisses: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "agentfs_cache_misses_total",
				Help: "Total number of read cache misses",
			},
		),
		CacheEntries: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "agentfs_cache_entries",
				Help: "Current number of cached reads",
			},
		),
		CacheBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "agentfs_cache_bytes",
				Help: "Current cached payload bytes",
			},
		),

		LockTableSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "agentfs_lock_table_size",
				Help: "Number of per-path locks ever created",
			},
		),
	}
}

// Registry exposes the backing registry for scraping.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordOp records one completed operation.
func (m *Metrics) RecordOp(op, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.OpsTotal.WithLabelValues(op, status).Inc()
	m.OpDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordError records an operation error by taxonomy code.
func (m *Metrics) RecordError(op, code string) {
	if m == nil {
		return
	}
	m.OpErrors.WithLabelValues(op, code).Inc()
}

// RecordCacheHit increments the cache hit counter.
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

// SetCacheUsage updates the cache occupancy gauges.
func (m *Metrics) SetCacheUsage(entries int, bytes int64) {
	if m == nil {
		return
	}
	m.CacheEntries.Set(float64(entries))
	m.CacheBytes.Set(float64(bytes))
}

// SetLockTableSize updates the lock table gauge.
func (m *Metrics) SetLockTableSize(count int) {
	if m == nil {
		return
	}
	m.LockTableSize.Set(float64(count))
}

// Timer measures operation duration.
type Timer struct {
	start   time.Time
	metrics *Metrics
	op      string
}

// StartTimer creates a timer for one operation.
func StartTimer(metrics *Metrics, op string) *Timer {
	return &Timer{start: time.Now(), metrics: metrics, op: op}
}

// Stop records the duration with the final status and returns it.
func (t *Timer) Stop(status string) time.Duration {
	duration := time.Since(t.start)
	t.metrics.RecordOp(t.op, status, duration)
	return duration
}
