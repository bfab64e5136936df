package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"zshop-storefront-api/internal/models"
	"zshop-storefront-api/internal/utils"
)

// OpsAuthMiddleware guards the ops endpoints with the X-API-Key header.
// An empty key list rejects every request.
func OpsAuthMiddleware(keys string) func(http.Handler) http.Handler {
	validKeys := utils.SplitList(keys)
	if len(validKeys) == 0 {
		slog.Warn("No ops API keys configured, ops endpoints are disabled")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				slog.Warn("Ops authentication failed: missing API key", "remote_addr", r.RemoteAddr)
				writeErrorResponse(w, http.StatusUnauthorized, "unauthorized", "API key required", nil)
				return
			}

			if !isValidAPIKey(validKeys, apiKey) {
				slog.Warn("Ops authentication failed: invalid API key", "remote_addr", r.RemoteAddr)
				writeErrorResponse(w, http.StatusForbidden, "forbidden", "Invalid API key", nil)
				return
			}

			slog.Debug("Ops authentication successful", "remote_addr", r.RemoteAddr)
			next.ServeHTTP(w, r)
		})
	}
}

func isValidAPIKey(validKeys []string, apiKey string) bool {
	for _, validKey := range validKeys {
		if subtle.ConstantTimeCompare([]byte(validKey), []byte(apiKey)) == 1 {
			return true
		}
	}
	return false
}

// writeErrorResponse is a helper function to write error responses
func writeErrorResponse(w http.ResponseWriter, statusCode int, code, message string, details []models.ErrorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}
