package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// normalizePath converts paths with dynamic segments to route patterns to prevent
// cardinality explosion in metrics. This maps paths like /templates/tpl-001 to
// /templates/{id}.
func normalizePath(path string) string {
	// Exact matches for static routes (no normalization needed)
	staticRoutes := map[string]bool{
		"/":                    true,
		"/search":              true,
		"/search/suggestions":  true,
		"/search/history":      true,
		"/search/popular":      true,
		"/templates":           true,
		"/categories":          true,
		"/favorites":           true,
		"/collections":         true,
		"/downloads/formats":   true,
		"/downloads/history":   true,
		"/analytics/overview":  true,
		"/analytics/templates": true,
		"/analytics/events":    true,
		"/healthz":             true,
		"/ready":               true,
		"/metrics":             true,
	}

	if staticRoutes[path] {
		return path
	}

	// /templates/{id}/... patterns
	if strings.HasPrefix(path, "/templates/") {
		parts := strings.Split(path, "/")
		if len(parts) >= 3 && parts[2] != "" {
			if len(parts) == 4 {
				switch parts[3] {
				case "download", "ratings", "reviews", "stats":
					return "/templates/{id}/" + parts[3]
				}
			}
			// /templates/{id}/reviews/{review_id}/helpful
			if len(parts) == 6 && parts[3] == "reviews" && parts[5] == "helpful" {
				return "/templates/{id}/reviews/{review_id}/helpful"
			}
			if len(parts) == 3 {
				return "/templates/{id}"
			}
		}
	}

	// /collections/{id} and /collections/{id}/templates
	if strings.HasPrefix(path, "/collections/") {
		parts := strings.Split(path, "/")
		if len(parts) >= 3 && parts[2] != "" {
			if len(parts) == 4 && parts[3] == "templates" {
				return "/collections/{id}/templates"
			}
			if len(parts) == 3 {
				return "/collections/{id}"
			}
		}
	}

	// /categories/{id}
	if strings.HasPrefix(path, "/categories/") {
		parts := strings.Split(path, "/")
		if len(parts) == 3 && parts[2] != "" {
			return "/categories/{id}"
		}
	}

	// /favorites/{template_id}
	if strings.HasPrefix(path, "/favorites/") {
		parts := strings.Split(path, "/")
		if len(parts) == 3 && parts[2] != "" {
			return "/favorites/{id}"
		}
	}

	// Fallback: return as-is for unknown patterns
	// This ensures we don't accidentally break metrics for new routes
	return path
}

// metricsResponseWriter wraps http.ResponseWriter to capture status code and response size.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	size        int64
	wroteHeader bool
}

// WriteHeader captures the status code before writing it.
func (mrw *metricsResponseWriter) WriteHeader(code int) {
	if mrw.wroteHeader {
		return
	}
	mrw.statusCode = code
	mrw.wroteHeader = true
	mrw.ResponseWriter.WriteHeader(code)
}

// Write captures the response size and writes the data.
func (mrw *metricsResponseWriter) Write(b []byte) (int, error) {
	n, err := mrw.ResponseWriter.Write(b)
	mrw.size += int64(n)
	return n, err
}

// newMetricsResponseWriter creates a new metricsResponseWriter with default 200 status.
func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// HTTPMetrics is a middleware that records HTTP request metrics.
// It captures duration, request/response sizes, and request counts.
// Health check endpoints (/healthz, /ready) are excluded from metrics
// to avoid cardinality issues.
func HTTPMetrics(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" || r.URL.Path == "/ready" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()

			mrw := newMetricsResponseWriter(w)

			// Request size from Content-Length; body is not read here.
			requestSize := int64(0)
			if contentLength := r.Header.Get("Content-Length"); contentLength != "" {
				if size, err := strconv.ParseInt(contentLength, 10, 64); err == nil {
					requestSize = size
				}
			}

			next.ServeHTTP(mrw, r)

			duration := time.Since(start).Seconds()
			normalizedPath := normalizePath(r.URL.Path)

			metrics.ObserveHTTPRequest(
				r.Method,
				normalizedPath,
				strconv.Itoa(mrw.statusCode),
				duration,
				requestSize,
				mrw.size,
			)
		})
	}
}
