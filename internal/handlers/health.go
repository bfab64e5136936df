package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger checks that the shop API answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	upstream Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(upstream Pinger) *HealthHandler {
	return &HealthHandler{upstream: upstream}
}

// Health handles GET /health. With ?deep=true the shop API is pinged as well.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("deep") != "true" || h.upstream == nil {
		writeJSONResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.upstream.Ping(ctx); err != nil {
		slog.Warn("Upstream health check failed", "error", err)
		writeJSONResponse(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "degraded",
			"upstream": "unreachable",
		})
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "healthy", "upstream": "ok"})
}
