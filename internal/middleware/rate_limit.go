package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"zshop-storefront-api/internal/models"
)

// RateLimitType defines the type of rate limiting
type RateLimitType string

const (
	RateLimitTypeIP     RateLimitType = "ip"
	RateLimitTypeGlobal RateLimitType = "global"
	RateLimitTypeBoth   RateLimitType = "both"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled                   bool
	Type                      RateLimitType
	RequestsPerMinute         int
	WindowMinutes             int
	CheckoutRequestsPerMinute int
}

// RateLimitEntry is one client's counter for the current window.
type RateLimitEntry struct {
	Count     int
	ResetTime time.Time
	mutex     sync.Mutex
}

// RateLimiter counts requests per client and globally. Checkout requests
// have their own, tighter buckets so browsing never eats into them.
type RateLimiter struct {
	config         RateLimitConfig
	ipLimits       map[string]*RateLimitEntry
	globalLimit    *RateLimitEntry
	globalCheckout *RateLimitEntry
	mutex          sync.RWMutex
	cleanupTicker  *time.Ticker
	stopCleanup    chan struct{}
	stopOnce       sync.Once
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		config:         config,
		ipLimits:       make(map[string]*RateLimitEntry),
		globalLimit:    &RateLimitEntry{},
		globalCheckout: &RateLimitEntry{},
		stopCleanup:    make(chan struct{}),
	}

	rl.cleanupTicker = time.NewTicker(time.Minute)
	go rl.cleanupExpiredEntries()

	slog.Info("Rate limiter initialized",
		"enabled", config.Enabled,
		"type", config.Type,
		"requests_per_minute", config.RequestsPerMinute,
		"window_minutes", config.WindowMinutes,
		"checkout_requests_per_minute", config.CheckoutRequestsPerMinute)

	return rl
}

// Stop stops the rate limiter and cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		rl.cleanupTicker.Stop()
		close(rl.stopCleanup)
	})
}

func (rl *RateLimiter) cleanupExpiredEntries() {
	for {
		select {
		case <-rl.cleanupTicker.C:
			now := time.Now()
			rl.mutex.Lock()
			for key, entry := range rl.ipLimits {
				entry.mutex.Lock()
				expired := now.After(entry.ResetTime)
				entry.mutex.Unlock()
				if expired {
					delete(rl.ipLimits, key)
				}
			}
			rl.mutex.Unlock()
		case <-rl.stopCleanup:
			return
		}
	}
}

// RateLimitInfo contains rate limit information for response headers
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetTime time.Time
}

// IsAllowed checks if a request is allowed based on rate limiting rules
func (rl *RateLimiter) IsAllowed(clientIP string, isCheckout bool) (bool, *RateLimitInfo) {
	if !rl.config.Enabled {
		return true, &RateLimitInfo{Limit: -1, Remaining: -1}
	}

	now := time.Now()
	window := time.Duration(rl.config.WindowMinutes) * time.Minute

	limit := rl.config.RequestsPerMinute
	key := clientIP
	global := rl.globalLimit
	if isCheckout && rl.config.CheckoutRequestsPerMinute > 0 {
		limit = rl.config.CheckoutRequestsPerMinute
		key = "checkout:" + clientIP
		global = rl.globalCheckout
	}

	ipAllowed, globalAllowed := true, true
	var ipInfo, globalInfo *RateLimitInfo

	if rl.config.Type == RateLimitTypeIP || rl.config.Type == RateLimitTypeBoth {
		ipAllowed, ipInfo = rl.take(rl.entry(key), limit, window, now)
	}
	if rl.config.Type == RateLimitTypeGlobal || rl.config.Type == RateLimitTypeBoth {
		globalAllowed, globalInfo = rl.take(global, limit, window, now)
	}

	switch rl.config.Type {
	case RateLimitTypeBoth:
		info := ipInfo
		if globalInfo.Remaining < ipInfo.Remaining {
			info = globalInfo
		}
		return ipAllowed && globalAllowed, info
	case RateLimitTypeGlobal:
		return globalAllowed, globalInfo
	default:
		return ipAllowed, ipInfo
	}
}

func (rl *RateLimiter) entry(key string) *RateLimitEntry {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	entry, exists := rl.ipLimits[key]
	if !exists {
		entry = &RateLimitEntry{}
		rl.ipLimits[key] = entry
	}
	return entry
}

func (rl *RateLimiter) take(entry *RateLimitEntry, limit int, window time.Duration, now time.Time) (bool, *RateLimitInfo) {
	entry.mutex.Lock()
	defer entry.mutex.Unlock()

	if now.After(entry.ResetTime) {
		entry.Count = 0
		entry.ResetTime = now.Add(window)
	}

	info := &RateLimitInfo{Limit: limit, ResetTime: entry.ResetTime}
	if entry.Count >= limit {
		return false, info
	}

	entry.Count++
	info.Remaining = limit - entry.Count
	return true, info
}

// IsCheckoutRequest reports whether the request places an order.
func IsCheckoutRequest(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	return r.URL.Path == "/v1/checkout" || strings.HasPrefix(r.URL.Path, "/v1/payments/")
}

// RateLimitMiddleware creates a rate limiting middleware using an existing rate limiter
func RateLimitMiddleware(rateLimiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := GetClientIP(r)
			isCheckout := IsCheckoutRequest(r)

			allowed, info := rateLimiter.IsAllowed(clientIP, isCheckout)
			setRateLimitHeaders(w, info)

			if !allowed {
				slog.Warn("Rate limit exceeded",
					"client_ip", clientIP,
					"path", r.URL.Path,
					"method", r.Method,
					"is_checkout", isCheckout,
					"limit", info.Limit,
					"reset_time", info.ResetTime.Format(time.RFC3339))

				writeRateLimitErrorResponse(w, info)
				return
			}

			slog.Debug("Rate limit check passed",
				"client_ip", clientIP,
				"path", r.URL.Path,
				"remaining", info.Remaining)

			next.ServeHTTP(w, r)
		})
	}
}

// GetClientIP extracts the client IP address from the request
func GetClientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs, take the first one
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if net.ParseIP(xri) != nil {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func setRateLimitHeaders(w http.ResponseWriter, info *RateLimitInfo) {
	if info.Limit < 0 {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	if !info.ResetTime.IsZero() {
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

func writeRateLimitErrorResponse(w http.ResponseWriter, info *RateLimitInfo) {
	retryAfter := "0"
	if !info.ResetTime.IsZero() {
		retryAfter = fmt.Sprintf("%.0f", time.Until(info.ResetTime).Seconds())
	}

	// Headers must be set before WriteHeader
	w.Header().Set("Retry-After", retryAfter)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	json.NewEncoder(w).Encode(models.ErrorResponse{
		Code:    "rate_limit_exceeded",
		Message: "Rate limit exceeded. Please try again later.",
		Details: []models.ErrorDetail{
			{
				Field: "rate_limit",
				Issue: fmt.Sprintf("Exceeded %d requests per minute.", info.Limit),
			},
			{
				Field: "retry_after",
				Issue: fmt.Sprintf("Retry after %s seconds", retryAfter),
			},
		},
	})
}
