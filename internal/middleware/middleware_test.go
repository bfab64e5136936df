package middleware_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zshop-storefront-api/internal/client"
	"zshop-storefront-api/internal/config"
	"zshop-storefront-api/internal/middleware"
	"zshop-storefront-api/internal/models"
)

func newLimiter(t *testing.T, typ middleware.RateLimitType, perMinute, checkout int) *middleware.RateLimiter {
	t.Helper()
	rl := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Enabled:                   true,
		Type:                      typ,
		RequestsPerMinute:         perMinute,
		WindowMinutes:             1,
		CheckoutRequestsPerMinute: checkout,
	})
	t.Cleanup(rl.Stop)
	return rl
}

func TestRateLimiter_IPBasedLimiting(t *testing.T) {
	rl := newLimiter(t, middleware.RateLimitTypeIP, 3, 2)

	for i := 0; i < 3; i++ {
		allowed, info := rl.IsAllowed("192.168.1.1", false)
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 3-i-1, info.Remaining)
	}

	allowed, info := rl.IsAllowed("192.168.1.1", false)
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)

	allowed, _ = rl.IsAllowed("192.168.1.2", false)
	assert.True(t, allowed, "different IP should be allowed")
}

func TestRateLimiter_GlobalLimiting(t *testing.T) {
	rl := newLimiter(t, middleware.RateLimitTypeGlobal, 3, 2)

	for i := 0; i < 3; i++ {
		allowed, _ := rl.IsAllowed(fmt.Sprintf("10.0.0.%d", i+1), false)
		require.True(t, allowed)
	}

	allowed, _ := rl.IsAllowed("10.0.0.9", false)
	assert.False(t, allowed)
}

func TestRateLimiter_BothUsesMostRestrictive(t *testing.T) {
	rl := newLimiter(t, middleware.RateLimitTypeBoth, 5, 2)

	for i := 0; i < 3; i++ {
		_, _ = rl.IsAllowed("10.0.0.1", false)
	}
	allowed, info := rl.IsAllowed("10.0.0.2", false)
	require.True(t, allowed)
	assert.Equal(t, 1, info.Remaining, "global bucket has one request left")
}

func TestRateLimiter_CheckoutHasItsOwnBucket(t *testing.T) {
	rl := newLimiter(t, middleware.RateLimitTypeIP, 100, 2)

	for i := 0; i < 2; i++ {
		allowed, info := rl.IsAllowed("10.0.0.1", true)
		require.True(t, allowed)
		assert.Equal(t, 2, info.Limit)
	}
	allowed, _ := rl.IsAllowed("10.0.0.1", true)
	assert.False(t, allowed)

	allowed, _ = rl.IsAllowed("10.0.0.1", false)
	assert.True(t, allowed, "browsing is not affected by the checkout bucket")
}

func TestRateLimiter_DisabledAndReset(t *testing.T) {
	off := middleware.NewRateLimiter(middleware.RateLimitConfig{Enabled: false})
	defer off.Stop()
	allowed, info := off.IsAllowed("10.0.0.1", false)
	assert.True(t, allowed)
	assert.Equal(t, -1, info.Limit)

	rl := newLimiter(t, middleware.RateLimitTypeGlobal, 1, 1)
	_, _ = rl.IsAllowed("10.0.0.1", false)
	allowed, _ = rl.IsAllowed("10.0.0.1", false)
	require.False(t, allowed)

	rl.ResetRateLimits()
	allowed, _ = rl.IsAllowed("10.0.0.1", false)
	assert.True(t, allowed)

	stats := rl.GetRateLimitStats()
	assert.Equal(t, "global", stats["type"])
	assert.Equal(t, 1, stats["global_count"])
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := newLimiter(t, middleware.RateLimitTypeIP, 1, 1)
	handler := middleware.RateLimitMiddleware(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := send(http.MethodGet, "/v1/products")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := send(http.MethodGet, "/v1/products")
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, "rate_limit_exceeded", body.Code)

	assert.Equal(t, http.StatusOK, send(http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "/v1/checkout").Code, "checkout bucket is separate")
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", middleware.GetClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", middleware.GetClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", middleware.GetClientIP(req))
}

func TestIsCheckoutRequest(t *testing.T) {
	assert.True(t, middleware.IsCheckoutRequest(httptest.NewRequest(http.MethodPost, "/v1/checkout", nil)))
	assert.True(t, middleware.IsCheckoutRequest(httptest.NewRequest(http.MethodPost, "/v1/payments/cod", nil)))
	assert.False(t, middleware.IsCheckoutRequest(httptest.NewRequest(http.MethodGet, "/v1/checkout", nil)))
	assert.False(t, middleware.IsCheckoutRequest(httptest.NewRequest(http.MethodPost, "/v1/cart/items", nil)))
}

func TestParseRateLimitConfig(t *testing.T) {
	cfg := &config.Config{
		RateLimitEnabled:                   "off",
		RateLimitType:                      "BOTH",
		RateLimitRequestsPerMinute:         "-4",
		RateLimitWindowMinutes:             "2",
		RateLimitCheckoutRequestsPerMinute: "abc",
	}

	got := middleware.ParseRateLimitConfig(cfg)
	assert.False(t, got.Enabled)
	assert.Equal(t, middleware.RateLimitTypeBoth, got.Type)
	assert.Equal(t, 120, got.RequestsPerMinute)
	assert.Equal(t, 2, got.WindowMinutes)
	assert.Equal(t, 10, got.CheckoutRequestsPerMinute)
}

func TestOpsAuthMiddleware(t *testing.T) {
	handler := middleware.OpsAuthMiddleware("ops-1, ops-2")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		key    string
		status int
	}{
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "nope", http.StatusForbidden},
		{"valid key", "ops-2", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/ops/rate-limit/status", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestOpsAuthMiddleware_NoKeysConfigured(t *testing.T) {
	handler := middleware.OpsAuthMiddleware("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Key", "anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSessionMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		handler func(s *client.Session)
		check   func(t *testing.T, h http.Header)
	}{
		{
			name:    "untouched session adds nothing",
			handler: func(s *client.Session) {},
			check: func(t *testing.T, h http.Header) {
				assert.Empty(t, h.Get(middleware.HeaderAccessToken))
				assert.Empty(t, h.Get(middleware.HeaderSessionCleared))
			},
		},
		{
			name:    "refreshed tokens are returned",
			handler: func(s *client.Session) { s.SetTokens("new-access", "new-refresh") },
			check: func(t *testing.T, h http.Header) {
				assert.Equal(t, "new-access", h.Get(middleware.HeaderAccessToken))
				assert.Equal(t, "new-refresh", h.Get(middleware.HeaderRefreshToken))
			},
		},
		{
			name:    "logout is reported",
			handler: func(s *client.Session) { s.Logout() },
			check: func(t *testing.T, h http.Header) {
				assert.Equal(t, "true", h.Get(middleware.HeaderSessionCleared))
				assert.Empty(t, h.Get(middleware.HeaderAccessToken))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *client.Session
			handler := middleware.SessionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = client.SessionFrom(r.Context())
				tt.handler(seen)
				w.Write([]byte(`{}`))
			}))

			req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
			req.Header.Set("Authorization", "Bearer old-access")
			req.Header.Set(middleware.HeaderRefreshToken, "old-refresh")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.NotNil(t, seen)
			assert.Equal(t, http.StatusOK, rec.Code)
			tt.check(t, rec.Header())
		})
	}
}

func TestSessionMiddleware_ReadsTokens(t *testing.T) {
	var access, refresh string
	handler := middleware.SessionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := client.SessionFrom(r.Context())
		access, refresh = s.AccessToken(), s.RefreshToken()
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer abc")
	req.Header.Set(middleware.HeaderRefreshToken, "def")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc", access)
	assert.Equal(t, "def", refresh)
	assert.Equal(t, http.StatusOK, rec.Code)
}
