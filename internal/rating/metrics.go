package rating

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricRatingsTotal      = "ratings_total"
	MetricReviewsTotal      = "reviews_total"
	MetricHelpfulVotesTotal = "review_helpful_votes_total"
	MetricStarsDistribution = "rating_stars"
)

// Action constants for labeling rating and review mutations.
const (
	ActionSubmit   = "submit"
	ActionResubmit = "resubmit"
	ActionDelete   = "delete"
)

// Metrics contains Prometheus metrics for rating operations. All
// operations are thread-safe.
type Metrics struct {
	ratingsTotal *prometheus.CounterVec
	reviewsTotal *prometheus.CounterVec
	helpfulVotes prometheus.Counter
	stars        prometheus.Histogram
}

// NewMetrics creates and returns a new Metrics instance with all
// collectors initialized. The metrics are not registered; call
// Register to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		ratingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRatingsTotal,
				Help: "Total number of rating mutations by action",
			},
			[]string{"action"},
		),
		reviewsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricReviewsTotal,
				Help: "Total number of review mutations by action",
			},
			[]string{"action"},
		),
		helpfulVotes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricHelpfulVotesTotal,
				Help: "Total number of helpful votes cast on reviews",
			},
		),
		stars: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricStarsDistribution,
				Help:    "Histogram of submitted star values",
				Buckets: []float64{1, 2, 3, 4, 5},
			},
		),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.ratingsTotal,
		m.reviewsTotal,
		m.helpfulVotes,
		m.stars,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncRatings increments the rating mutation counter for an action.
func (m *Metrics) IncRatings(action string) {
	m.ratingsTotal.WithLabelValues(action).Inc()
}

// IncReviews increments the review mutation counter for an action.
func (m *Metrics) IncReviews(action string) {
	m.reviewsTotal.WithLabelValues(action).Inc()
}

// IncHelpfulVotes increments the helpful vote counter.
func (m *Metrics) IncHelpfulVotes() {
	m.helpfulVotes.Inc()
}

// ObserveStars records one submitted star value.
func (m *Metrics) ObserveStars(stars int) {
	m.stars.Observe(float64(stars))
}
