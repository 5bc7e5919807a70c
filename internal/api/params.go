package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/templatehub/marketplace/internal/search"
)

// pathSegments splits the request path after prefix into its segments.
// Returns nil when nothing follows the prefix.
func pathSegments(r *http.Request, prefix string) []string {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

// splitCSV splits a comma-separated query parameter into trimmed values.
func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

// parseFilters builds a filter set from the shared search/browse query
// parameters: category, difficulty, tech, tag, and feature.
func parseFilters(r *http.Request) search.FilterSet {
	q := r.URL.Query()
	return search.FilterSet{
		Categories:   splitCSV(q.Get("category")),
		Difficulties: splitCSV(q.Get("difficulty")),
		Technologies: splitCSV(q.Get("tech")),
		Tags:         splitCSV(q.Get("tag")),
		Features:     splitCSV(q.Get("feature")),
	}
}

// parseLimit reads a positive integer limit parameter, falling back to def
// when absent or malformed.
func parseLimit(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
