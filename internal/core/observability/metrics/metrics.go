// Package metrics exports simulation counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Path request outcomes.
const (
	PathCommitted = "committed"
	PathKept      = "kept"
	PathEmpty     = "empty"
)

// Metrics groups every collector the simulation reports. A nil *Metrics is
// valid and records nothing, so library code never has to check.
type Metrics struct {
	modeTransitions *prometheus.CounterVec
	pathRequests    *prometheus.CounterVec
	pathCache       *prometheus.CounterVec
	shotsFired      prometheus.Counter
	damageDealt     prometheus.Counter
	tickDuration    prometheus.Histogram
	controllers     prometheus.Gauge
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests
// to keep them isolated.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		modeTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arena",
			Subsystem: "ai",
			Name:      "mode_transitions_total",
			Help:      "AI mode transitions by previous and next mode.",
		}, []string{"from", "to"}),
		pathRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arena",
			Subsystem: "ai",
			Name:      "path_requests_total",
			Help:      "Path requests by outcome.",
		}, []string{"result"}),
		pathCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arena",
			Subsystem: "navigation",
			Name:      "path_cache_total",
			Help:      "Path cache lookups by result.",
		}, []string{"result"}),
		shotsFired: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "arena",
			Subsystem: "weapon",
			Name:      "shots_fired_total",
			Help:      "Shots fired by all weapons.",
		}),
		damageDealt: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "arena",
			Subsystem: "weapon",
			Name:      "damage_dealt_total",
			Help:      "Damage applied to vehicles.",
		}),
		tickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "arena",
			Subsystem: "simulation",
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent per simulation tick.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12), // 50us to ~100ms
		}),
		controllers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "arena",
			Subsystem: "ai",
			Name:      "controllers",
			Help:      "Live AI controllers.",
		}),
	}
}

func (m *Metrics) ModeTransition(from, to string) {
	if m == nil {
		return
	}
	m.modeTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) PathRequest(result string) {
	if m == nil {
		return
	}
	m.pathRequests.WithLabelValues(result).Inc()
}

// PathCache adds cache hit and miss deltas.
func (m *Metrics) PathCache(hits, misses uint64) {
	if m == nil {
		return
	}
	if hits > 0 {
		m.pathCache.WithLabelValues("hit").Add(float64(hits))
	}
	if misses > 0 {
		m.pathCache.WithLabelValues("miss").Add(float64(misses))
	}
}

func (m *Metrics) ShotFired() {
	if m == nil {
		return
	}
	m.shotsFired.Inc()
}

func (m *Metrics) DamageDealt(amount float64) {
	if m == nil || amount <= 0 {
		return
	}
	m.damageDealt.Add(amount)
}

func (m *Metrics) TickDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.tickDuration.Observe(d.Seconds())
}

func (m *Metrics) Controllers(n int) {
	if m == nil {
		return
	}
	m.controllers.Set(float64(n))
}
