package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAuthenticationFailed is returned when a 401 could not be recovered by
	// refreshing the session. The session has been logged out.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrMalformedResponse is returned when an upstream body does not match
	// the expected DTO.
	ErrMalformedResponse = errors.New("malformed upstream response")
	// ErrNoRefreshToken is returned by Refresh for a session without one.
	ErrNoRefreshToken = errors.New("no refresh token")
)

// APIError is a non-2xx answer from the shop API.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API call failed: %d", e.StatusCode)
}

// UserMessage is the upstream message, safe to show to the shopper.
func (e *APIError) UserMessage() string {
	return e.Message
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err means the shopper must log in again.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrAuthenticationFailed) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// StatusCode returns the upstream status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
