package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"zshop-storefront-api/internal/checkout"
	"zshop-storefront-api/internal/models"
)

const meterName = "zshop-storefront-api"

// StorefrontTelemetry records the API's metrics. It also observes checkout
// outcomes, variant resolutions and cache lookups.
type StorefrontTelemetry struct {
	meter metric.Meter

	requestCounter    metric.Int64Counter
	errorCounter      metric.Int64Counter
	durationHistogram metric.Float64Histogram

	checkoutCounter metric.Int64Counter
	variantCounter  metric.Int64Counter
	cacheHitCounter metric.Int64Counter
	cacheMissCount  metric.Int64Counter
}

// RequestMetrics contains the telemetry data for a request
type RequestMetrics struct {
	Method       string
	Endpoint     string
	StatusCode   int
	Duration     time.Duration
	ErrorMessage string
	ClientIP     string // logged only
	ClientIPType string // "internal", "external", "localhost", "unknown"
}

// NewStorefrontTelemetry creates a new instance of StorefrontTelemetry
func NewStorefrontTelemetry() *StorefrontTelemetry {
	return &StorefrontTelemetry{}
}

// InitializeTelemetry sets up all the instruments on the global meter provider.
func (t *StorefrontTelemetry) InitializeTelemetry(ctx context.Context) error {
	slog.Info("Initializing storefront API telemetry")

	t.meter = otel.Meter(meterName)

	counters := []struct {
		target *metric.Int64Counter
		name   string
		desc   string
	}{
		{&t.requestCounter, "storefront_api_requests_total", "Total number of API requests"},
		{&t.errorCounter, "storefront_api_errors_total", "Total number of API requests answered with an error"},
		{&t.checkoutCounter, "storefront_checkouts_total", "Checkout attempts by mode and final state"},
		{&t.variantCounter, "storefront_variant_resolutions_total", "Variant resolutions by result"},
		{&t.cacheHitCounter, "storefront_cache_hits_total", "Cache hits by cache name"},
		{&t.cacheMissCount, "storefront_cache_misses_total", "Cache misses by cache name"},
	}

	for _, c := range counters {
		counter, err := t.meter.Int64Counter(c.name,
			metric.WithDescription(c.desc),
			metric.WithUnit("1"),
		)
		if err != nil {
			slog.Error("Failed to create counter", "name", c.name, "error", err)
			return fmt.Errorf("failed to create counter %s: %w", c.name, err)
		}
		*c.target = counter
	}

	var err error
	t.durationHistogram, err = t.meter.Float64Histogram(
		"storefront_api_request_duration_seconds",
		metric.WithDescription("Duration of API requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		slog.Error("Failed to create duration histogram", "error", err)
		return fmt.Errorf("failed to create duration histogram: %w", err)
	}

	slog.Info("Storefront API telemetry initialized successfully")
	return nil
}

func requestAttrs(m RequestMetrics) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("method", m.Method),
		attribute.String("endpoint", m.Endpoint),
		attribute.Int("status_code", m.StatusCode),
	}
	if m.ClientIPType != "" {
		attrs = append(attrs, attribute.String("client_ip_type", m.ClientIPType))
	}
	return attrs
}

// RegisterRequestReceived records a successful API request
func (t *StorefrontTelemetry) RegisterRequestReceived(ctx context.Context, m RequestMetrics) {
	if t.requestCounter == nil {
		slog.Warn("Request counter not initialized")
		return
	}
	t.requestCounter.Add(ctx, 1, metric.WithAttributes(requestAttrs(m)...))

	slog.Debug("Recorded successful API request",
		"method", m.Method,
		"endpoint", m.Endpoint,
		"status_code", m.StatusCode,
		"client_ip", m.ClientIP,
		"duration_ms", m.Duration.Milliseconds())
}

// RegisterRequestError records a failed API request
func (t *StorefrontTelemetry) RegisterRequestError(ctx context.Context, m RequestMetrics) {
	if t.errorCounter == nil {
		slog.Warn("Error counter not initialized")
		return
	}
	attrs := append(requestAttrs(m), attribute.String("error_type", categorizeError(m.ErrorMessage)))
	t.errorCounter.Add(ctx, 1, metric.WithAttributes(attrs...))

	// client errors only at debug
	log := slog.Debug
	if m.StatusCode >= 500 {
		log = slog.Warn
	}
	log("Recorded API request error",
		"method", m.Method,
		"endpoint", m.Endpoint,
		"status_code", m.StatusCode,
		"client_ip", m.ClientIP,
		"error", m.ErrorMessage)
}

// RegisterRequestDuration records the duration of an API request
func (t *StorefrontTelemetry) RegisterRequestDuration(ctx context.Context, m RequestMetrics) {
	if t.durationHistogram == nil {
		slog.Warn("Duration histogram not initialized")
		return
	}
	t.durationHistogram.Record(ctx, m.Duration.Seconds(), metric.WithAttributes(requestAttrs(m)...))
}

// CheckoutFinished counts one checkout attempt.
func (t *StorefrontTelemetry) CheckoutFinished(ctx context.Context, mode models.CheckoutMode, state checkout.State) {
	if t.checkoutCounter == nil {
		return
	}
	t.checkoutCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", string(mode)),
		attribute.String("state", string(state)),
	))
}

// VariantResolved counts one variant resolution.
func (t *StorefrontTelemetry) VariantResolved(ctx context.Context, resolved bool) {
	if t.variantCounter == nil {
		return
	}
	result := "unresolved"
	if resolved {
		result = "resolved"
	}
	t.variantCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// CacheHit counts a hit on the named cache.
func (t *StorefrontTelemetry) CacheHit(cache string) {
	if t.cacheHitCounter == nil {
		return
	}
	t.cacheHitCounter.Add(context.Background(), 1, metric.WithAttributes(attribute.String("cache", cache)))
}

// CacheMiss counts a miss on the named cache.
func (t *StorefrontTelemetry) CacheMiss(cache string) {
	if t.cacheMissCount == nil {
		return
	}
	t.cacheMissCount.Add(context.Background(), 1, metric.WithAttributes(attribute.String("cache", cache)))
}

// categorizeError groups similar errors to prevent high cardinality
func categorizeError(errorMessage string) string {
	msg := strings.ToLower(errorMessage)
	switch {
	case msg == "":
		return "unknown"
	case strings.Contains(msg, "not found"):
		return "not_found"
	case strings.Contains(msg, "unprocessable"), strings.Contains(msg, "bad request"):
		return "invalid_request"
	case strings.Contains(msg, "unauthorized"):
		return "unauthorized"
	case strings.Contains(msg, "forbidden"):
		return "forbidden"
	case strings.Contains(msg, "conflict"):
		return "conflict"
	case strings.Contains(msg, "too many"):
		return "rate_limited"
	case strings.Contains(msg, "gateway"):
		return "upstream"
	case strings.Contains(msg, "internal"):
		return "internal_error"
	default:
		return "other"
	}
}

var privateNetworks = mustParseCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"169.254.0.0/16",
	"fc00::/7",
	"fe80::/10",
)

func mustParseCIDRs(ranges ...string) []*net.IPNet {
	out := make([]*net.IPNet, 0, len(ranges))
	for _, r := range ranges {
		_, network, err := net.ParseCIDR(r)
		if err != nil {
			panic(err)
		}
		out = append(out, network)
	}
	return out
}

// NormalizeClientIP categorizes client IPs to control cardinality
func NormalizeClientIP(clientIP string) string {
	if clientIP == "" {
		return "unknown"
	}

	ip := net.ParseIP(clientIP)
	if ip == nil {
		return "invalid"
	}
	if ip.IsLoopback() {
		return "localhost"
	}
	for _, network := range privateNetworks {
		if network.Contains(ip) {
			return "internal"
		}
	}
	return "external"
}
