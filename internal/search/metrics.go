package search

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricSearchesTotal         = "search_queries_total"
	MetricSearchDuration        = "search_duration_seconds"
	MetricSearchResults         = "search_results_count"
	MetricSuggestionLookupTotal = "search_suggestion_lookups_total"
)

// Metrics contains Prometheus metrics for search operations. All
// operations are thread-safe.
type Metrics struct {
	searchesTotal     prometheus.Counter
	searchDuration    prometheus.Histogram
	searchResults     prometheus.Histogram
	suggestionLookups prometheus.Counter
}

// NewMetrics creates and returns a new Metrics instance with all
// collectors initialized. The metrics are not registered; call
// Register to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		searchesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricSearchesTotal,
				Help: "Total number of ranked search queries executed",
			},
		),
		searchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricSearchDuration,
				Help:    "Histogram of search execution duration in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),
		searchResults: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricSearchResults,
				Help:    "Histogram of result counts per search",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
			},
		),
		suggestionLookups: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricSuggestionLookupTotal,
				Help: "Total number of autocomplete suggestion lookups",
			},
		),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.searchesTotal,
		m.searchDuration,
		m.searchResults,
		m.suggestionLookups,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveSearch records one executed search with its duration and
// result count.
func (m *Metrics) ObserveSearch(d time.Duration, results int) {
	m.searchesTotal.Inc()
	m.searchDuration.Observe(d.Seconds())
	m.searchResults.Observe(float64(results))
}

// IncSuggestionLookups increments the suggestion lookup counter.
func (m *Metrics) IncSuggestionLookups() {
	m.suggestionLookups.Inc()
}
