package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/templatehub/marketplace/internal/analytics"
	"github.com/templatehub/marketplace/internal/search"
	"github.com/templatehub/marketplace/internal/template"
)

// SearchHandlers serves the search, suggestion, and search-history routes.
type SearchHandlers struct {
	searcher *search.Searcher
	history  *search.History
	tracker  *analytics.Tracker
}

func NewSearchHandlers(searcher *search.Searcher, history *search.History, tracker *analytics.Tracker) *SearchHandlers {
	return &SearchHandlers{searcher: searcher, history: history, tracker: tracker}
}

// SearchResponse wraps ranked search results.
type SearchResponse struct {
	Query   string              `json:"query"`
	Count   int                 `json:"count"`
	Results []template.Template `json:"results"`
}

// HandleSearch handles GET /search.
func (h *SearchHandlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
		return
	}

	query := r.URL.Query().Get("q")
	sortKey := search.ParseSortKey(r.URL.Query().Get("sort"))
	results := h.searcher.Search(r.Context(), query, parseFilters(r), sortKey)

	if h.tracker != nil && strings.TrimSpace(query) != "" {
		meta := map[string]string{"query": strings.TrimSpace(query), "results": strconv.Itoa(len(results))}
		if err := h.tracker.Record(r.Context(), analytics.EventSearch, "", "", meta); err != nil {
			slog.Warn("failed to record search event", "error", err)
		}
	}

	WriteJSON(w, http.StatusOK, SearchResponse{Query: query, Count: len(results), Results: results})
}

// HandleSuggestions handles GET /search/suggestions.
func (h *SearchHandlers) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
		return
	}

	partial := r.URL.Query().Get("q")
	suggestions := h.searcher.Suggest(r.Context(), partial)

	WriteJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

// HandleHistory handles GET and DELETE /search/history.
func (h *SearchHandlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		WriteJSON(w, http.StatusOK, map[string]any{"history": h.history.Recent()})
	case http.MethodDelete:
		if err := h.history.Clear(r.Context()); err != nil {
			WriteDomainError(w, r.Context(), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
	}
}

// HandlePopular handles GET /search/popular.
func (h *SearchHandlers) HandlePopular(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
		return
	}

	limit := parseLimit(r, "limit", 10)
	WriteJSON(w, http.StatusOK, map[string]any{"popular": h.history.Popular(limit)})
}
