package selection

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks selection outcomes both as Prometheus collectors and as
// plain atomic counters backing the Analytics snapshot.
type Metrics struct {
	selections  prometheus.Counter
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	fallbacks   prometheus.Counter
	latency     prometheus.Histogram

	total     atomic.Int64
	hits      atomic.Int64
	misses    atomic.Int64
	fellBack  atomic.Int64
	latencyNS atomic.Int64
	computed  atomic.Int64 // denominator for the latency average
}

// NewMetrics creates selection metrics registered against reg. A nil
// registerer leaves the collectors unregistered, which unit tests rely on
// to construct metrics repeatedly without duplicate-registration panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		selections: factory.NewCounter(prometheus.CounterOpts{
			Name: "questionsel_selections_total",
			Help: "Total number of question selections served",
		}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "questionsel_cache_hits_total",
			Help: "Selection results served from the result cache",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "questionsel_cache_misses_total",
			Help: "Selection results computed because no live cache entry existed",
		}),
		fallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "questionsel_fallbacks_total",
			Help: "Selections that degraded to the default strategy after an internal failure",
		}),
		latency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "questionsel_selection_duration_seconds",
			Help:    "Latency of computed (non-cached) question selections",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) recordHit() {
	m.cacheHits.Inc()
	m.selections.Inc()
	m.hits.Add(1)
	m.total.Add(1)
}

func (m *Metrics) recordMiss() {
	m.cacheMisses.Inc()
	m.misses.Add(1)
}

func (m *Metrics) recordSelection(elapsed time.Duration) {
	m.selections.Inc()
	m.latency.Observe(elapsed.Seconds())
	m.total.Add(1)
	m.latencyNS.Add(int64(elapsed))
	m.computed.Add(1)
}

func (m *Metrics) recordFallback() {
	m.fallbacks.Inc()
	m.fellBack.Add(1)
}

// Analytics is a read-only snapshot of selection activity.
type Analytics struct {
	TotalSelections int64         `json:"total_selections"`
	CacheHits       int64         `json:"cache_hits"`
	CacheMisses     int64         `json:"cache_misses"`
	Fallbacks       int64         `json:"fallbacks"`
	CacheHitRate    float64       `json:"cache_hit_rate"`
	AverageLatency  time.Duration `json:"average_latency"`
}

// Snapshot returns current analytics. Counters are read independently, so a
// snapshot taken under concurrent load may be off by in-flight requests.
func (m *Metrics) Snapshot() Analytics {
	a := Analytics{
		TotalSelections: m.total.Load(),
		CacheHits:       m.hits.Load(),
		CacheMisses:     m.misses.Load(),
		Fallbacks:       m.fellBack.Load(),
	}
	if lookups := a.CacheHits + a.CacheMisses; lookups > 0 {
		a.CacheHitRate = float64(a.CacheHits) / float64(lookups)
	}
	if computed := m.computed.Load(); computed > 0 {
		a.AverageLatency = time.Duration(m.latencyNS.Load() / computed)
	}
	return a
}
