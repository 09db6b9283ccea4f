package cliapp

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ddl-deps/internal/config"
	"ddl-deps/internal/logging"
	"ddl-deps/internal/observability"
)

// InitLogger builds the process logger writing to out and, when log export is
// enabled, the OTLP logger provider feeding it. The logger becomes the slog default.
func InitLogger(cfg *config.Config, out io.Writer) (*logging.Logger, *observability.LoggerProvider, error) {
	loggerCfg := logging.Config{
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
		Output: out,
	}
	logger := logging.NewLogger(loggerCfg)
	slog.SetDefault(logger.Logger)

	if !cfg.Observability.Logging.ExportsEnabled {
		return logger, nil, nil
	}

	logsConfig := cfg.Observability.GetLogsConfig()
	logger.Info("initializing OpenTelemetry logging",
		slog.String("otlp_endpoint", logsConfig.Endpoint),
		slog.String("otlp_protocol", logsConfig.Protocol),
		slog.Bool("insecure", logsConfig.Insecure),
	)

	loggerProvider, err := observability.InitLoggerProvider(telemetryConfig(cfg, logsConfig))
	if err != nil {
		return nil, nil, err
	}

	loggerCfg.LoggerProvider = loggerProvider.Provider()
	logger = logging.NewLogger(loggerCfg)
	slog.SetDefault(logger.Logger)

	logger.Info("OpenTelemetry logging initialized successfully")
	return logger, loggerProvider, nil
}

func initMetrics(cfg *config.Config, logger *logging.Logger) (*observability.MeterProvider, *observability.AnalysisMetrics, error) {
	if !cfg.Observability.MetricsEnabled {
		return nil, nil, nil
	}

	logger.Info("initializing OpenTelemetry metrics",
		slog.String("service_name", cfg.Observability.ServiceName),
		slog.String("environment", cfg.Observability.Environment),
	)

	meterProvider, err := observability.InitMeterProvider(telemetryConfig(cfg, config.OTLPConfig{}))
	if err != nil {
		return nil, nil, err
	}

	metrics, err := observability.InitAnalysisMetrics(meterProvider.Meter("ddl-deps"), logger.Logger)
	if err != nil {
		return nil, nil, err
	}
	return meterProvider, metrics, nil
}

func initTracing(cfg *config.Config, logger *logging.Logger) (*observability.TracerProvider, error) {
	if !cfg.Observability.TracingEnabled {
		return nil, nil
	}

	tracesConfig := cfg.Observability.GetTracesConfig()
	logger.Info("initializing OpenTelemetry tracing",
		slog.String("otlp_endpoint", tracesConfig.Endpoint),
		slog.String("otlp_protocol", tracesConfig.Protocol),
		slog.Bool("insecure", tracesConfig.Insecure),
		slog.Float64("sample_ratio", cfg.Observability.TraceSampleRatio),
	)

	tracerProvider, err := observability.InitTracerProvider(telemetryConfig(cfg, tracesConfig))
	if err != nil {
		return nil, err
	}

	logger.Info("OpenTelemetry tracing initialized successfully")
	return tracerProvider, nil
}

func telemetryConfig(cfg *config.Config, otlp config.OTLPConfig) observability.Config {
	return observability.Config{
		ServiceName:      cfg.Observability.ServiceName,
		ServiceVersion:   cfg.Observability.ServiceVersion,
		Environment:      cfg.Observability.Environment,
		TraceSampleRatio: cfg.Observability.TraceSampleRatio,
		OTLPConfig: observability.OTLPExporterConfig{
			Endpoint:          otlp.Endpoint,
			Protocol:          otlp.Protocol,
			Insecure:          otlp.Insecure,
			TLSCertFile:       otlp.TLSCertFile,
			TLSClientCertFile: otlp.TLSClientCertFile,
			TLSClientKeyFile:  otlp.TLSClientKeyFile,
			Headers:           otlp.Headers,
			Timeout:           otlp.Timeout,
			Compression:       otlp.Compression,
			RetryEnabled:      otlp.RetryEnabled,
			RetryMaxAttempts:  otlp.RetryMaxAttempts,
		},
	}
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer("ddl-deps/cliapp")
	ctx, span := tracer.Start(ctx, name)
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	return ctx, span
}

func recordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
