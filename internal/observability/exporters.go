package observability

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"google.golang.org/grpc/credentials"
)

// OTLPExporterConfig holds OTLP exporter configuration options
type OTLPExporterConfig struct {
	Endpoint          string
	Protocol          string
	Insecure          bool
	TLSCertFile       string
	TLSClientCertFile string
	TLSClientKeyFile  string
	Headers           map[string]string
	Timeout           time.Duration
	Compression       string
	RetryEnabled      bool
	RetryMaxAttempts  int
}

type otlpProtocol string

const (
	otlpProtocolGRPC otlpProtocol = "grpc"
	otlpProtocolHTTP otlpProtocol = "http/protobuf"
)

// Backoff bounds shared by every exporter that has retries enabled.
const (
	retryInitialInterval = 1 * time.Second
	retryMaxInterval     = 5 * time.Second
	retryMaxElapsed      = 30 * time.Second
)

func parseOTLPProtocol(value string) (otlpProtocol, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(otlpProtocolGRPC):
		return otlpProtocolGRPC, nil
	case "http", string(otlpProtocolHTTP):
		return otlpProtocolHTTP, nil
	default:
		return "", fmt.Errorf("unsupported OTLP protocol %q (use grpc or http/protobuf)", value)
	}
}

func (c OTLPExporterConfig) retries() bool {
	return c.RetryEnabled && c.RetryMaxAttempts > 0
}

func buildTLSConfig(cfg OTLPExporterConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}

	if cfg.TLSCertFile != "" {
		certPool := x509.NewCertPool()
		caCert, err := os.ReadFile(cfg.TLSCertFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read OTLP TLS CA file: %w", err)
		}
		if !certPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse OTLP TLS CA file")
		}
		tlsConfig.RootCAs = certPool
	}

	// mTLS
	if cfg.TLSClientCertFile != "" || cfg.TLSClientKeyFile != "" {
		if cfg.TLSClientCertFile == "" || cfg.TLSClientKeyFile == "" {
			return nil, fmt.Errorf("OTLP TLS client cert and key must both be set")
		}
		cert, err := tls.LoadX509KeyPair(cfg.TLSClientCertFile, cfg.TLSClientKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load OTLP TLS client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

func isHTTPEndpointURL(endpoint string) bool {
	return strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://")
}

func grpcTraceOptions(cfg OTLPExporterConfig) ([]otlptracegrpc.Option, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}

	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	} else {
		tlsConfig, err := buildTLSConfig(cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(tlsConfig)))
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(cfg.Headers))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, otlptracegrpc.WithTimeout(cfg.Timeout))
	}
	if cfg.Compression == "gzip" {
		opts = append(opts, otlptracegrpc.WithCompressor("gzip"))
	}
	if cfg.retries() {
		opts = append(opts, otlptracegrpc.WithRetry(otlptracegrpc.RetryConfig{
			Enabled:         true,
			InitialInterval: retryInitialInterval,
			MaxInterval:     retryMaxInterval,
			MaxElapsedTime:  retryMaxElapsed,
		}))
	}
	return opts, nil
}

func httpTraceOptions(cfg OTLPExporterConfig) ([]otlptracehttp.Option, error) {
	var opts []otlptracehttp.Option
	if isHTTPEndpointURL(cfg.Endpoint) {
		opts = append(opts, otlptracehttp.WithEndpointURL(cfg.Endpoint))
	} else {
		opts = append(opts, otlptracehttp.WithEndpoint(cfg.Endpoint))
	}

	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	} else {
		tlsConfig, err := buildTLSConfig(cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, otlptracehttp.WithTLSClientConfig(tlsConfig))
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, otlptracehttp.WithTimeout(cfg.Timeout))
	}
	if cfg.Compression == "gzip" {
		opts = append(opts, otlptracehttp.WithCompression(otlptracehttp.GzipCompression))
	}
	if cfg.retries() {
		opts = append(opts, otlptracehttp.WithRetry(otlptracehttp.RetryConfig{
			Enabled:         true,
			InitialInterval: retryInitialInterval,
			MaxInterval:     retryMaxInterval,
			MaxElapsedTime:  retryMaxElapsed,
		}))
	}
	return opts, nil
}

func grpcLogOptions(cfg OTLPExporterConfig) ([]otlploggrpc.Option, error) {
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.Endpoint)}

	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	} else {
		tlsConfig, err := buildTLSConfig(cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, otlploggrpc.WithTLSCredentials(credentials.NewTLS(tlsConfig)))
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlploggrpc.WithHeaders(cfg.Headers))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, otlploggrpc.WithTimeout(cfg.Timeout))
	}
	if cfg.Compression == "gzip" {
		opts = append(opts, otlploggrpc.WithCompressor("gzip"))
	}
	if cfg.retries() {
		opts = append(opts, otlploggrpc.WithRetry(otlploggrpc.RetryConfig{
			Enabled:         true,
			InitialInterval: retryInitialInterval,
			MaxInterval:     retryMaxInterval,
			MaxElapsedTime:  retryMaxElapsed,
		}))
	}
	return opts, nil
}

func httpLogOptions(cfg OTLPExporterConfig) ([]otlploghttp.Option, error) {
	var opts []otlploghttp.Option
	if isHTTPEndpointURL(cfg.Endpoint) {
		opts = append(opts, otlploghttp.WithEndpointURL(cfg.Endpoint))
	} else {
		opts = append(opts, otlploghttp.WithEndpoint(cfg.Endpoint))
	}

	if cfg.Insecure {
		opts = append(opts, otlploghttp.WithInsecure())
	} else {
		tlsConfig, err := buildTLSConfig(cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, otlploghttp.WithTLSClientConfig(tlsConfig))
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlploghttp.WithHeaders(cfg.Headers))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, otlploghttp.WithTimeout(cfg.Timeout))
	}
	if cfg.Compression == "gzip" {
		opts = append(opts, otlploghttp.WithCompression(otlploghttp.GzipCompression))
	}
	if cfg.retries() {
		opts = append(opts, otlploghttp.WithRetry(otlploghttp.RetryConfig{
			Enabled:         true,
			InitialInterval: retryInitialInterval,
			MaxInterval:     retryMaxInterval,
			MaxElapsedTime:  retryMaxElapsed,
		}))
	}
	return opts, nil
}
