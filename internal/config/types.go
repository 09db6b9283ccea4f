// Package config loads configuration from files, env vars, and flags, and validates it.
package config

import (
	"time"

	"ddl-deps/internal/schemafilter"
)

// Config holds the application configuration.
type Config struct {
	Output        OutputConfig        `mapstructure:"output"`
	Filters       schemafilter.Config `mapstructure:"filters"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// OutputConfig controls where artifacts are written.
type OutputConfig struct {
	Dir        string `mapstructure:"dir"`
	ExportFile string `mapstructure:"export_file"` // Optional YAML export written next to the report
}

// LoggingConfig holds logging parameters.
type LoggingConfig struct {
	Level          string `mapstructure:"level"`           // debug, info, warn, error
	Format         string `mapstructure:"format"`          // json, text, auto
	ExportsEnabled bool   `mapstructure:"exports_enabled"` // Enable OTLP log export
}

// ObservabilityConfig holds observability parameters.
type ObservabilityConfig struct {
	ServiceName      string        `mapstructure:"service_name"`
	ServiceVersion   string        `mapstructure:"service_version"`
	Environment      string        `mapstructure:"environment"`
	MetricsEnabled   bool          `mapstructure:"metrics_enabled"`
	MetricsTextfile  string        `mapstructure:"metrics_textfile"` // Prometheus textfile written at the end of a run
	TracingEnabled   bool          `mapstructure:"tracing_enabled"`
	TraceSampleRatio float64       `mapstructure:"trace_sample_ratio"`
	Logging          LoggingConfig `mapstructure:"logging"`

	// Global OTLP settings (defaults for all signals)
	OTLP OTLPConfig `mapstructure:"otlp"`

	// Signal-specific overrides (optional)
	Traces *OTLPConfig `mapstructure:"traces,omitempty"`
	Logs   *OTLPConfig `mapstructure:"logs,omitempty"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Endpoint          string            `mapstructure:"endpoint"`
	Protocol          string            `mapstructure:"protocol"` // "grpc", "http/protobuf"
	Insecure          bool              `mapstructure:"insecure"`
	TLSCertFile       string            `mapstructure:"tls_cert_file"`
	TLSClientCertFile string            `mapstructure:"tls_client_cert_file"`
	TLSClientKeyFile  string            `mapstructure:"tls_client_key_file"`
	Headers           map[string]string `mapstructure:"headers"`
	Timeout           time.Duration     `mapstructure:"timeout"`
	Compression       string            `mapstructure:"compression"` // "none", "gzip"
	RetryEnabled      bool              `mapstructure:"retry_enabled"`
	RetryMaxAttempts  int               `mapstructure:"retry_max_attempts"`
}

// GetTracesConfig returns the effective OTLP config for traces
func (c *ObservabilityConfig) GetTracesConfig() OTLPConfig {
	if c.Traces != nil {
		return mergeOTLPConfigs(c.OTLP, *c.Traces)
	}
	return c.OTLP
}

// GetLogsConfig returns the effective OTLP config for logs
func (c *ObservabilityConfig) GetLogsConfig() OTLPConfig {
	if c.Logs != nil {
		return mergeOTLPConfigs(c.OTLP, *c.Logs)
	}
	return c.OTLP
}

// mergeOTLPConfigs merges signal-specific config over global defaults
func mergeOTLPConfigs(base OTLPConfig, override OTLPConfig) OTLPConfig {
	result := base

	if override.Endpoint != "" {
		result.Endpoint = override.Endpoint
	}
	if override.Protocol != "" {
		result.Protocol = override.Protocol
	}
	// Insecure is a bool, so an explicit false cannot be told apart from unset.
	// If the override struct exists, its value wins.
	result.Insecure = override.Insecure

	if override.TLSCertFile != "" {
		result.TLSCertFile = override.TLSCertFile
	}
	if override.TLSClientCertFile != "" {
		result.TLSClientCertFile = override.TLSClientCertFile
	}
	if override.TLSClientKeyFile != "" {
		result.TLSClientKeyFile = override.TLSClientKeyFile
	}

	if override.Headers != nil {
		result.Headers = make(map[string]string)
		for k, v := range base.Headers {
			result.Headers[k] = v
		}
		for k, v := range override.Headers {
			result.Headers[k] = v
		}
	}

	if override.Timeout != 0 {
		result.Timeout = override.Timeout
	}
	if override.Compression != "" {
		result.Compression = override.Compression
	}
	if override.RetryMaxAttempts != 0 {
		result.RetryEnabled = override.RetryEnabled
		result.RetryMaxAttempts = override.RetryMaxAttempts
	}

	return result
}
