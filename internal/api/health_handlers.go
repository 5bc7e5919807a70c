package api

import (
	"context"
	"net/http"
	"time"

	"github.com/templatehub/marketplace/internal/health"
)

// HealthHandlers serves the liveness and readiness endpoints.
type HealthHandlers struct {
	checkers map[string]health.Checker
}

func NewHealthHandlers(checkers map[string]health.Checker) *HealthHandlers {
	return &HealthHandlers{checkers: checkers}
}

// HandleLiveness handles GET /healthz. It answers as long as the process
// is serving requests.
func (h *HealthHandlers) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// HandleReadiness handles GET /ready, probing each dependency.
func (h *HealthHandlers) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.checkers))
	healthy := true
	for name, checker := range h.checkers {
		if err := checker.HealthCheck(ctx); err != nil {
			checks[name] = err.Error()
			healthy = false
			continue
		}
		checks[name] = "ok"
	}

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "unavailable"
	}
	WriteJSON(w, status, map[string]any{"status": state, "checks": checks})
}
