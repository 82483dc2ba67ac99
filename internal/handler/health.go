package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	db    HealthChecker
	cache HealthChecker
}

// NewHealthHandler creates a new HealthHandler.
// Pass nil for db or cache if they are not configured.
func NewHealthHandler(db, cache HealthChecker) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: cache,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is a liveness probe. It never touches dependencies.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz is a readiness probe. It returns 200 only when Postgres (users,
// journal entries) and Redis (sessions) both answer.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{
		"postgres": probe(ctx, h.db),
		"redis":    probe(ctx, h.cache),
	}

	status, code := "ok", http.StatusOK
	for _, result := range checks {
		if result != "ok" && result != "not configured" {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
	}

	writeJSON(w, code, HealthResponse{Status: status, Checks: checks})
}

func probe(ctx context.Context, checker HealthChecker) string {
	if checker == nil {
		return "not configured"
	}
	if err := checker.Ping(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
