package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"zshop-storefront-api/internal/client"
	"zshop-storefront-api/internal/middleware"
	"zshop-storefront-api/internal/models"
	"zshop-storefront-api/internal/services"
)

const maxBodyBytes = 1 << 20

// HeaderDeviceID identifies a guest's device when the app sends it.
const HeaderDeviceID = "X-Device-ID"

// shopperKey scopes per-shopper state such as the checkout guard and the
// autocomplete debounce. Guests all share one upstream id, so they are
// told apart by device id, else by client IP.
func shopperKey(r *http.Request) string {
	if id := client.SessionFrom(r.Context()).UserID(); id != "" {
		return id
	}
	if device := strings.TrimSpace(r.Header.Get(HeaderDeviceID)); device != "" {
		return "guest:device:" + device
	}
	return "guest:ip:" + middleware.GetClientIP(r)
}

// writeJSONResponse is a helper function to write JSON responses
func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeErrorResponse is a helper function to write error responses
func writeErrorResponse(w http.ResponseWriter, statusCode int, code, message string, details []models.ErrorDetail) {
	writeJSONResponse(w, statusCode, models.ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// decodeJSON reads the request body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		slog.Warn("Invalid JSON in request", "error", err, "path", r.URL.Path, "remote_addr", r.RemoteAddr)
		writeErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid JSON", nil)
		return false
	}
	return true
}

// writeServiceError maps a service or upstream error to a response.
// fallback is shown when the upstream gave no usable message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var fieldErr *models.FieldError
	var apiErr *client.APIError

	switch {
	case client.IsUnauthorized(err):
		slog.Info("Upstream rejected the session", "path", r.URL.Path)
		writeErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication failed", nil)

	case client.IsNotFound(err):
		writeErrorResponse(w, http.StatusNotFound, "not_found", messageOr(apiErrMessage(err), "Not found"), nil)

	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrVariantRequired),
		errors.Is(err, services.ErrUnknownVariant),
		errors.Is(err, services.ErrVariantUnavailable):
		writeErrorResponse(w, http.StatusUnprocessableEntity, "invalid_request", err.Error(), nil)

	case errors.As(err, &fieldErr) && !errors.Is(err, client.ErrMalformedResponse):
		writeErrorResponse(w, http.StatusUnprocessableEntity, "invalid_request", fieldErr.Error(),
			[]models.ErrorDetail{{Field: fieldErr.Field, Issue: fieldErr.Issue}})

	case errors.Is(err, client.ErrMalformedResponse):
		slog.Error("Malformed upstream response", "path", r.URL.Path, "error", err)
		writeErrorResponse(w, http.StatusBadGateway, "bad_gateway", fallback, nil)

	case errors.Is(err, context.DeadlineExceeded):
		slog.Error("Upstream timed out", "path", r.URL.Path, "error", err)
		writeErrorResponse(w, http.StatusGatewayTimeout, "upstream_timeout", fallback, nil)

	case errors.As(err, &apiErr) && apiErr.StatusCode < 500:
		slog.Warn("Upstream rejected the request", "path", r.URL.Path, "status", apiErr.StatusCode, "error", err)
		writeErrorResponse(w, http.StatusUnprocessableEntity, "upstream_rejected", messageOr(apiErr.Message, fallback), nil)

	default:
		slog.Error("Upstream call failed", "path", r.URL.Path, "error", err)
		writeErrorResponse(w, http.StatusBadGateway, "upstream_error", messageOr(apiErrMessage(err), fallback), nil)
	}
}

func apiErrMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
