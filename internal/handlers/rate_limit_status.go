package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"zshop-storefront-api/internal/middleware"
)

// StatsSource reports the counters of a cache or guard.
type StatsSource interface {
	GetStats() map[string]interface{}
}

// RateLimitStatusHandler handles the ops endpoints.
type RateLimitStatusHandler struct {
	rateLimiter *middleware.RateLimiter
	sources     map[string]StatsSource
}

// NewRateLimitStatusHandler creates a new rate limit status handler. sources
// are reported next to the limiter, keyed by name.
func NewRateLimitStatusHandler(rateLimiter *middleware.RateLimiter, sources map[string]StatsSource) *RateLimitStatusHandler {
	return &RateLimitStatusHandler{
		rateLimiter: rateLimiter,
		sources:     sources,
	}
}

// GetRateLimitStatus handles GET /v1/ops/rate-limit/status.
func (h *RateLimitStatusHandler) GetRateLimitStatus(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Getting rate limit status", "remote_addr", r.RemoteAddr)

	if h.rateLimiter == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "rate_limiter_unavailable", "Rate limiter not available", nil)
		return
	}

	stats := h.rateLimiter.GetRateLimitStats()
	for name, src := range h.sources {
		stats[name] = src.GetStats()
	}
	writeJSONResponse(w, http.StatusOK, stats)
}

// ResetRateLimits handles POST /v1/ops/rate-limit/reset.
func (h *RateLimitStatusHandler) ResetRateLimits(w http.ResponseWriter, r *http.Request) {
	slog.Info("Resetting rate limits", "remote_addr", r.RemoteAddr)

	if h.rateLimiter == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "rate_limiter_unavailable", "Rate limiter not available", nil)
		return
	}

	h.rateLimiter.ResetRateLimits()
	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message":   "Rate limits reset successfully",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
