package v1

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks the image matching workload, the only CPU-heavy path in the
// service.
type Metrics struct {
	registry *prometheus.Registry

	matchRequests      *prometheus.CounterVec
	extractionDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.matchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snapsell",
			Subsystem: "match",
			Name:      "requests_total",
			Help:      "Match requests by outcome (matched, no_match, empty_catalog, error)",
		},
		[]string{"outcome"},
	)
	m.extractionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "snapsell",
			Subsystem: "match",
			Name:      "duration_seconds",
			Help:      "End to end match latency in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	m.registry.MustRegister(m.matchRequests, m.extractionDuration)
	return m
}

// Registry exposes the metrics registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveMatch(outcome string, seconds float64) {
	m.matchRequests.WithLabelValues(outcome).Inc()
	m.extractionDuration.Observe(seconds)
}
