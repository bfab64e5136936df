package middleware

import (
	"log/slog"
	"strings"
	"time"

	"zshop-storefront-api/internal/config"
	"zshop-storefront-api/internal/utils"
)

// ParseRateLimitConfig parses rate limiting configuration from the config struct
func ParseRateLimitConfig(cfg *config.Config) RateLimitConfig {
	rateLimitConfig := RateLimitConfig{
		Enabled:                   parseBool(cfg.RateLimitEnabled, true),
		Type:                      parseRateLimitType(cfg.RateLimitType),
		RequestsPerMinute:         utils.ParseInt("RATE_LIMIT_REQUESTS_PER_MINUTE", cfg.RateLimitRequestsPerMinute, 120),
		WindowMinutes:             utils.ParseInt("RATE_LIMIT_WINDOW_MINUTES", cfg.RateLimitWindowMinutes, 1),
		CheckoutRequestsPerMinute: utils.ParseInt("RATE_LIMIT_CHECKOUT_REQUESTS_PER_MINUTE", cfg.RateLimitCheckoutRequestsPerMinute, 10),
	}

	if rateLimitConfig.RequestsPerMinute <= 0 {
		slog.Warn("Invalid rate limit requests per minute, using default",
			"configured", cfg.RateLimitRequestsPerMinute, "default", 120)
		rateLimitConfig.RequestsPerMinute = 120
	}

	if rateLimitConfig.WindowMinutes <= 0 {
		slog.Warn("Invalid rate limit window minutes, using default",
			"configured", cfg.RateLimitWindowMinutes, "default", 1)
		rateLimitConfig.WindowMinutes = 1
	}

	if rateLimitConfig.CheckoutRequestsPerMinute <= 0 {
		slog.Warn("Invalid checkout rate limit requests per minute, using default",
			"configured", cfg.RateLimitCheckoutRequestsPerMinute, "default", 10)
		rateLimitConfig.CheckoutRequestsPerMinute = 10
	}

	slog.Info("Rate limiting configuration parsed",
		"enabled", rateLimitConfig.Enabled,
		"type", rateLimitConfig.Type,
		"requests_per_minute", rateLimitConfig.RequestsPerMinute,
		"window_minutes", rateLimitConfig.WindowMinutes,
		"checkout_requests_per_minute", rateLimitConfig.CheckoutRequestsPerMinute)

	return rateLimitConfig
}

// parseBool accepts the usual on/off spellings
func parseBool(value string, defaultValue bool) bool {
	if value == "" {
		return defaultValue
	}

	switch strings.ToLower(value) {
	case "true", "1", "yes", "on", "enabled":
		return true
	case "false", "0", "no", "off", "disabled":
		return false
	default:
		slog.Warn("Invalid boolean value, using default",
			"value", value, "default", defaultValue)
		return defaultValue
	}
}

func parseRateLimitType(value string) RateLimitType {
	switch strings.ToLower(value) {
	case "", "ip":
		return RateLimitTypeIP
	case "global":
		return RateLimitTypeGlobal
	case "both":
		return RateLimitTypeBoth
	default:
		slog.Warn("Invalid rate limit type, using default",
			"value", value, "default", "ip")
		return RateLimitTypeIP
	}
}

// GetRateLimitStats returns current rate limiting statistics
func (rl *RateLimiter) GetRateLimitStats() map[string]interface{} {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	stats := map[string]interface{}{
		"enabled":                      rl.config.Enabled,
		"type":                         string(rl.config.Type),
		"requests_per_minute":          rl.config.RequestsPerMinute,
		"window_minutes":               rl.config.WindowMinutes,
		"checkout_requests_per_minute": rl.config.CheckoutRequestsPerMinute,
		"active_client_limits":         len(rl.ipLimits),
	}

	if rl.config.Type == RateLimitTypeGlobal || rl.config.Type == RateLimitTypeBoth {
		rl.globalLimit.mutex.Lock()
		stats["global_count"] = rl.globalLimit.Count
		stats["global_reset_time"] = rl.globalLimit.ResetTime.Format(time.RFC3339)
		rl.globalLimit.mutex.Unlock()

		rl.globalCheckout.mutex.Lock()
		stats["global_checkout_count"] = rl.globalCheckout.Count
		rl.globalCheckout.mutex.Unlock()
	}

	return stats
}

// ResetRateLimits resets all rate limiting counters
func (rl *RateLimiter) ResetRateLimits() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.ipLimits = make(map[string]*RateLimitEntry)
	for _, e := range []*RateLimitEntry{rl.globalLimit, rl.globalCheckout} {
		e.mutex.Lock()
		e.Count = 0
		e.ResetTime = time.Time{}
		e.mutex.Unlock()
	}

	slog.Info("Rate limits reset")
}
