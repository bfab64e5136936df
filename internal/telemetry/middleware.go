package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"zshop-storefront-api/internal/middleware"
)

// TelemetryMiddleware wraps HTTP handlers to automatically collect telemetry
type TelemetryMiddleware struct {
	telemetry *StorefrontTelemetry
}

// NewTelemetryMiddleware creates a new telemetry middleware
func NewTelemetryMiddleware(telemetry *StorefrontTelemetry) *TelemetryMiddleware {
	return &TelemetryMiddleware{telemetry: telemetry}
}

// Middleware returns the HTTP middleware function. Register it with
// Router.Use so the matched route template is known.
func (tm *TelemetryMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriterWrapper{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		clientIP := middleware.GetClientIP(r)
		metrics := RequestMetrics{
			Method:       r.Method,
			Endpoint:     EndpointFromRequest(r),
			ClientIP:     clientIP,
			ClientIPType: NormalizeClientIP(clientIP),
		}

		next.ServeHTTP(wrapper, r)

		metrics.StatusCode = wrapper.statusCode
		metrics.Duration = time.Since(start)

		ctx := r.Context()
		if wrapper.statusCode >= 400 {
			metrics.ErrorMessage = errorMessage(wrapper.statusCode)
			tm.telemetry.RegisterRequestError(ctx, metrics)
		} else {
			tm.telemetry.RegisterRequestReceived(ctx, metrics)
		}

		tm.telemetry.RegisterRequestDuration(ctx, metrics)
	})
}

// EndpointFromRequest returns the route template, e.g. /v1/products/{productId}.
// Unmatched paths collapse into one value.
func EndpointFromRequest(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.statusCode = statusCode
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriterWrapper) Write(data []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(data)
}

func errorMessage(statusCode int) string {
	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return "HTTP Error " + strconv.Itoa(statusCode)
}
