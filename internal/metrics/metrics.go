// Package metrics provides Prometheus metrics for the assist gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. Each instance registers against its
// own registry so tests can construct them freely.
type Metrics struct {
	Registry *prometheus.Registry

	// Assistant flow metrics
	AssistantRequestsTotal  *prometheus.CounterVec
	AssistantRequestSeconds *prometheus.HistogramVec

	// Intelligence metrics
	IntelligenceFetchesTotal *prometheus.CounterVec
	IntelligenceCacheHits    prometheus.Counter

	// Conversation metrics
	TranscriptEvictionsTotal prometheus.Counter
	SessionsActive           prometheus.Gauge
}

// New creates and registers all gateway metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{Registry: reg}

	m.AssistantRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portiq_assistant_requests_total",
			Help: "Total assistant backend calls by flow and outcome",
		},
		[]string{"flow", "outcome"},
	)

	m.AssistantRequestSeconds = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portiq_assistant_request_duration_seconds",
			Help:    "Duration of assistant backend calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"flow"},
	)

	m.IntelligenceFetchesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portiq_intelligence_fetches_total",
			Help: "Total combined-intelligence fetches by outcome",
		},
		[]string{"outcome"},
	)

	m.IntelligenceCacheHits = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "portiq_intelligence_cache_hits_total",
			Help: "Combined-intelligence requests served from the fresh cache",
		},
	)

	m.TranscriptEvictionsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "portiq_transcript_evictions_total",
			Help: "Messages evicted by the transcript cap",
		},
	)

	m.SessionsActive = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "portiq_sessions_active",
			Help: "Conversation sessions currently held in memory",
		},
	)

	return m
}
