package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/search", "/search"},
		{"/templates", "/templates"},
		{"/templates/tpl-001", "/templates/{id}"},
		{"/templates/tpl-001/download", "/templates/{id}/download"},
		{"/templates/tpl-001/ratings", "/templates/{id}/ratings"},
		{"/templates/tpl-001/reviews", "/templates/{id}/reviews"},
		{"/templates/tpl-001/reviews/rev-9/helpful", "/templates/{id}/reviews/{review_id}/helpful"},
		{"/templates/tpl-001/stats", "/templates/{id}/stats"},
		{"/collections/abc", "/collections/{id}"},
		{"/collections/abc/templates", "/collections/{id}/templates"},
		{"/categories/landing-pages", "/categories/{id}"},
		{"/favorites/tpl-001", "/favorites/{id}"},
		{"/metrics", "/metrics"},
		{"/unknown/route", "/unknown/route"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.in); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHTTPMetrics_RecordsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics()
	if err := metrics.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}

	handler := HTTPMetrics(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/templates/tpl-001", nil))

	metricsRec := httptest.NewRecorder()
	promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(metricsRec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := metricsRec.Body.String()
	if !strings.Contains(body, `http_requests_total{method="GET",path="/templates/{id}",status="200"} 1`) {
		t.Errorf("metrics output missing request count:\n%s", body)
	}
}

func TestHTTPMetrics_SkipsHealthEndpoints(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics()
	if err := metrics.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}

	handler := HTTPMetrics(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/healthz", "/ready"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	metricsRec := httptest.NewRecorder()
	promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(metricsRec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if strings.Contains(metricsRec.Body.String(), "/healthz") {
		t.Error("health endpoint leaked into metrics")
	}
}
