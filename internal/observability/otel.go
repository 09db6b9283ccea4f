// Package observability provides OpenTelemetry integration for metrics, tracing, and logging.
// Traces and logs leave the process through OTLP (gRPC or HTTP). Metrics are gathered by a
// Prometheus registry and written to a textfile at the end of a run.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// shutdownTimeout bounds how long a provider may spend flushing on exit.
const shutdownTimeout = 5 * time.Second

// Config holds OpenTelemetry configuration
type Config struct {
	ServiceName      string
	ServiceVersion   string
	Environment      string
	TraceSampleRatio float64
	OTLPConfig       OTLPExporterConfig
}

func newResource(cfg Config) (*resource.Resource, error) {
	// No schema URL, so the merge with resource.Default never conflicts.
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			"",
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", cfg.ServiceVersion),
			attribute.String("deployment.environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

// MeterProvider wraps the OpenTelemetry meter provider and the registry it exports into.
type MeterProvider struct {
	provider *metric.MeterProvider
	registry *promclient.Registry
}

// InitMeterProvider initializes OpenTelemetry metrics backed by a private Prometheus registry.
func InitMeterProvider(cfg Config) (*MeterProvider, error) {
	res, err := newResource(cfg)
	if err != nil {
		return nil, err
	}

	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(exporter),
	)
	otel.SetMeterProvider(provider)

	return &MeterProvider{
		provider: provider,
		registry: registry,
	}, nil
}

// Meter returns a named meter from this provider.
func (mp *MeterProvider) Meter(name string) otelmetric.Meter {
	return mp.provider.Meter(name)
}

// Registry returns the Prometheus registry the exporter writes into.
func (mp *MeterProvider) Registry() *promclient.Registry {
	return mp.registry
}

// WriteTextfile gathers the current metrics and writes them in the Prometheus text
// exposition format, suitable for the node_exporter textfile collector.
func (mp *MeterProvider) WriteTextfile(path string) error {
	if err := promclient.WriteToTextfile(path, mp.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}

// Shutdown gracefully shuts down the meter provider
func (mp *MeterProvider) Shutdown(ctx context.Context, logger *slog.Logger) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := mp.provider.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown meter provider", slog.String("error", err.Error()))
		return err
	}

	logger.Info("meter provider shutdown successfully")
	return nil
}

// TracerProvider wraps the OpenTelemetry tracer provider
type TracerProvider struct {
	provider *sdktrace.TracerProvider
}

// InitTracerProvider initializes OpenTelemetry tracing with an OTLP exporter
func InitTracerProvider(cfg Config) (*TracerProvider, error) {
	res, err := newResource(cfg)
	if err != nil {
		return nil, err
	}

	exporter, err := newSpanExporter(context.Background(), cfg.OTLPConfig)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(traceSamplerForRatio(cfg.TraceSampleRatio)),
	)
	otel.SetTracerProvider(provider)

	return &TracerProvider{
		provider: provider,
	}, nil
}

func newSpanExporter(ctx context.Context, cfg OTLPExporterConfig) (sdktrace.SpanExporter, error) {
	protocol, err := parseOTLPProtocol(cfg.Protocol)
	if err != nil {
		return nil, err
	}

	var exporter sdktrace.SpanExporter
	switch protocol {
	case otlpProtocolGRPC:
		opts, err := grpcTraceOptions(cfg)
		if err != nil {
			return nil, err
		}
		exporter, err = otlptracegrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}
	case otlpProtocolHTTP:
		opts, err := httpTraceOptions(cfg)
		if err != nil {
			return nil, err
		}
		exporter, err = otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}
	}
	return exporter, nil
}

func traceSamplerForRatio(ratio float64) sdktrace.Sampler {
	switch {
	case ratio <= 0:
		return sdktrace.NeverSample()
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

// Shutdown flushes pending spans and shuts down the tracer provider
func (tp *TracerProvider) Shutdown(ctx context.Context, logger *slog.Logger) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := tp.provider.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown tracer provider", slog.String("error", err.Error()))
		return err
	}

	logger.Info("tracer provider shutdown successfully")
	return nil
}

// LoggerProvider wraps the OpenTelemetry logger provider
type LoggerProvider struct {
	provider *log.LoggerProvider
}

// InitLoggerProvider initializes OpenTelemetry logging with an OTLP exporter
func InitLoggerProvider(cfg Config) (*LoggerProvider, error) {
	res, err := newResource(cfg)
	if err != nil {
		return nil, err
	}

	exporter, err := newLogExporter(context.Background(), cfg.OTLPConfig)
	if err != nil {
		return nil, err
	}

	provider := log.NewLoggerProvider(
		log.WithResource(res),
		log.WithProcessor(log.NewBatchProcessor(exporter)),
	)

	return &LoggerProvider{
		provider: provider,
	}, nil
}

func newLogExporter(ctx context.Context, cfg OTLPExporterConfig) (log.Exporter, error) {
	protocol, err := parseOTLPProtocol(cfg.Protocol)
	if err != nil {
		return nil, err
	}

	var exporter log.Exporter
	switch protocol {
	case otlpProtocolGRPC:
		opts, err := grpcLogOptions(cfg)
		if err != nil {
			return nil, err
		}
		exporter, err = otlploggrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
		}
	case otlpProtocolHTTP:
		opts, err := httpLogOptions(cfg)
		if err != nil {
			return nil, err
		}
		exporter, err = otlploghttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
		}
	}
	return exporter, nil
}

// Shutdown flushes pending records and shuts down the logger provider
func (lp *LoggerProvider) Shutdown(ctx context.Context, logger *slog.Logger) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := lp.provider.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown logger provider", slog.String("error", err.Error()))
		return err
	}

	logger.Info("logger provider shutdown successfully")
	return nil
}

// Provider returns the underlying logger provider
func (lp *LoggerProvider) Provider() *log.LoggerProvider {
	return lp.provider
}
