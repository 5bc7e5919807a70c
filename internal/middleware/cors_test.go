package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsHandler(origins []string) http.Handler {
	return CORS(DefaultCORSConfig(origins))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCORS_DisabledWithoutOrigins(t *testing.T) {
	handler := corsHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/templates", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("CORS headers set while disabled")
	}
}

func TestCORS_AllowsListedOrigin(t *testing.T) {
	handler := corsHandler([]string{"https://templatehub.com"})

	req := httptest.NewRequest(http.MethodGet, "/templates", nil)
	req.Header.Set("Origin", "https://templatehub.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://templatehub.com" {
		t.Errorf("allow-origin = %q", got)
	}
}

func TestCORS_RejectsUnlistedOrigin(t *testing.T) {
	handler := corsHandler([]string{"https://templatehub.com"})

	req := httptest.NewRequest(http.MethodGet, "/templates", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestCORS_Preflight(t *testing.T) {
	handler := corsHandler([]string{"https://templatehub.com"})

	req := httptest.NewRequest(http.MethodOptions, "/templates", nil)
	req.Header.Set("Origin", "https://templatehub.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("allow-methods header missing")
	}
	if rec.Header().Get("Access-Control-Max-Age") != "300" {
		t.Errorf("max-age = %q", rec.Header().Get("Access-Control-Max-Age"))
	}
}

func TestCORS_SameOriginPassesThrough(t *testing.T) {
	handler := corsHandler([]string{"https://templatehub.com"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/templates", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
