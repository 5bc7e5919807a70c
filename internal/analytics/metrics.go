package analytics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricEventsTotal = "analytics_events_total"
)

// Metrics contains Prometheus metrics for analytics tracking. All
// operations are thread-safe.
type Metrics struct {
	eventsTotal *prometheus.CounterVec
}

// NewMetrics creates and returns a new Metrics instance with all
// collectors initialized. The metrics are not registered; call
// Register to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricEventsTotal,
				Help: "Total number of recorded analytics events by type",
			},
			[]string{"type"},
		),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	return reg.Register(m.eventsTotal)
}

// IncEvents increments the event counter for a type.
func (m *Metrics) IncEvents(eventType string) {
	m.eventsTotal.WithLabelValues(eventType).Inc()
}
