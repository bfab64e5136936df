package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

const (
	ExporterScraper = "scraper"
	ExporterGRPC    = "grpc"

	scrapeAddr = ":9080"
)

// Telemetry owns the meter provider and, for the scraper exporter, the
// metrics HTTP server.
type Telemetry struct {
	server   *http.Server
	Provider *metric.MeterProvider
}

// InitMetrics installs the global meter provider for the chosen exporter.
// "scraper" serves Prometheus text on :9080/metrics; anything else pushes
// over OTLP gRPC to OTEL_EXPORTER_OTLP_METRICS_ENDPOINT (default localhost:4317).
func InitMetrics(ctx context.Context, exporter string) *Telemetry {
	t := &Telemetry{}

	if exporter == ExporterScraper {
		slog.Info("Starting metrics with scraper exporter")
		t.initScrapeMetrics()
	} else {
		slog.Info("Starting metrics with grpc exporter")
		t.initGRPCMetrics(ctx)
	}
	return t
}

// Close flushes pending data and stops the metrics server.
func (t *Telemetry) Close(ctx context.Context) {
	if t.server != nil {
		_ = t.server.Shutdown(ctx)
		slog.Info("Shutting down metrics server")
	}
	if t.Provider != nil {
		if err := t.Provider.ForceFlush(ctx); err != nil {
			slog.Warn("Flushing metrics", "error", err)
		}
		if err := t.Provider.Shutdown(ctx); err != nil {
			slog.Warn("Shutting down meter provider", "error", err)
		}
	}
}

func (t *Telemetry) initGRPCMetrics(ctx context.Context) {
	exporter, err := otlpmetricgrpc.New(ctx)
	if err != nil {
		slog.Error("Creating GRPC exporter", "error", err)
		return
	}

	t.Provider = metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(exporter)))
	otel.SetMeterProvider(t.Provider)
}

func (t *Telemetry) initScrapeMetrics() {
	// The exporter is both a Reader and a prometheus.Collector.
	exporter, err := prometheus.New()
	if err != nil {
		slog.Error("Creating HTML scrape exporter", "error", err)
		return
	}

	t.Provider = metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(t.Provider)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	t.server = &http.Server{
		Addr:              scrapeAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go t.serveMetrics()
}

func (t *Telemetry) serveMetrics() {
	slog.Info("Serving metrics", "addr", scrapeAddr+"/metrics")

	if err := t.server.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			slog.Info("Metrics server closed")
			return
		}
		slog.Error("ListenAndServe exited with", "error", err)
	}
}
