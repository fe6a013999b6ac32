package scoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricEvaluationsTotal    = "site_evaluations_total"
	MetricEvaluationDuration  = "site_evaluation_duration_seconds"
	MetricEvaluationCacheHits = "site_evaluation_cache_hits_total"
)

// Cache result constants for labeling.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Metrics contains Prometheus metrics for site evaluations.
// All operations are thread-safe.
type Metrics struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	cacheHits          *prometheus.CounterVec
}

// NewMetrics creates and returns a new Metrics instance with all
// collectors initialized. The metrics are not registered; call Register
// to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricEvaluationsTotal,
				Help: "Total number of site evaluations by placement decision",
			},
			[]string{"decision"},
		),
		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricEvaluationDuration,
				Help:    "Histogram of evaluation compute duration in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
		),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricEvaluationCacheHits,
				Help: "Total number of evaluation cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncEvaluations increments the evaluations counter for a decision.
func (m *Metrics) IncEvaluations(decision Decision) {
	m.evaluationsTotal.WithLabelValues(string(decision)).Inc()
}

// ObserveEvaluationDuration records an evaluation duration sample.
func (m *Metrics) ObserveEvaluationDuration(seconds float64) {
	m.evaluationDuration.Observe(seconds)
}

// IncCacheLookup increments the cache lookup counter.
// result: CacheHit or CacheMiss.
func (m *Metrics) IncCacheLookup(result string) {
	m.cacheHits.WithLabelValues(result).Inc()
}

// Collectors returns all Prometheus collectors for testing.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.evaluationsTotal,
		m.evaluationDuration,
		m.cacheHits,
	}
}
