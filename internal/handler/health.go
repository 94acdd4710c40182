package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db     Pinger
	cache  Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db, cache Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		cache:  cache,
		logger: logger,
	}
}

// Healthz reports process liveness.
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports whether the service can reach its dependencies.
// GET /readyz
//
// The cache is optional for serving traffic (the rate limiter fails
// open), so only the database gates readiness; a cache failure is
// surfaced in the body.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{
		"status":   "ok",
		"database": "ok",
		"cache":    "ok",
	}

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("database ping failed", slog.String("error", err.Error()))
		status["status"] = "unavailable"
		status["database"] = "unreachable"
		writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			h.logger.Warn("cache ping failed", slog.String("error", err.Error()))
			status["cache"] = "unreachable"
		}
	}

	writeJSON(w, http.StatusOK, status)
}
