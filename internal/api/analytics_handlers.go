package api

import (
	"net/http"

	"github.com/templatehub/marketplace/internal/analytics"
	"github.com/templatehub/marketplace/internal/download"
	"github.com/templatehub/marketplace/internal/rating"
)

// AnalyticsHandlers serves the marketplace analytics routes.
type AnalyticsHandlers struct {
	tracker    *analytics.Tracker
	aggregator *rating.Aggregator
	reviews    *rating.Reviews
	downloads  *download.Service
}

func NewAnalyticsHandlers(tracker *analytics.Tracker, aggregator *rating.Aggregator, reviews *rating.Reviews, downloads *download.Service) *AnalyticsHandlers {
	return &AnalyticsHandlers{tracker: tracker, aggregator: aggregator, reviews: reviews, downloads: downloads}
}

// HandleOverview handles GET /analytics/overview.
func (h *AnalyticsHandlers) HandleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"overview": h.tracker.Overview(),
		"ratings":  h.aggregator.Statistics(),
	})
}

// HandleTemplates handles GET /analytics/templates.
func (h *AnalyticsHandlers) HandleTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
		return
	}
	stats := h.tracker.TemplateStats()
	WriteJSON(w, http.StatusOK, map[string]any{
		"top_downloaded": stats.TopDownloaded,
		"top_rated":      h.aggregator.TopRated(10),
		"categories":     stats.Categories,
	})
}

// HandleEvents handles GET /analytics/events.
func (h *AnalyticsHandlers) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
		return
	}
	limit := parseLimit(r, "limit", 50)
	WriteJSON(w, http.StatusOK, map[string]any{"events": h.tracker.Events(limit)})
}

// HandleTemplateStats handles GET /templates/{id}/stats, combining the
// per-format download counters with the rating aggregate.
func (h *AnalyticsHandlers) HandleTemplateStats(w http.ResponseWriter, r *http.Request, templateID string) {
	if r.Method != http.MethodGet {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"template_id": templateID,
		"downloads":   h.downloads.Stats(templateID),
		"rating":      h.aggregator.Get(templateID),
		"reviews":     len(h.reviews.List(templateID)),
	})
}
