package config

import (
	"fmt"
	"net"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"ddl-deps/internal/report"
	"ddl-deps/internal/schemafilter"
)

// ValidationError represents a configuration validation error with context.
type ValidationError struct {
	Field   string
	Message string
	Hint    string
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (hint: %s)", e.Field, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Field   string
	Message string
	Hint    string
}

// ValidationResult contains the results of configuration validation.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Error returns a combined error message if there are validation errors.
func (r *ValidationResult) Error() string {
	if !r.HasErrors() {
		return ""
	}
	var msgs []string
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for errors and returns validation results.
// It returns both errors (fatal) and warnings (non-fatal issues).
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{}

	c.Output.validate(result)
	validateFilters(result, c.Filters)
	c.Observability.validate(result)

	return result
}

func (o *OutputConfig) validate(result *ValidationResult) {
	if strings.TrimSpace(o.Dir) == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "output.dir",
			Message: "output directory cannot be empty",
			Hint:    "use . for the working directory",
		})
	}

	if o.ExportFile == "" {
		return
	}
	if filepath.Base(o.ExportFile) != o.ExportFile || o.ExportFile == "." || o.ExportFile == ".." {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "output.export_file",
			Message: fmt.Sprintf("export file %q must be a bare file name", o.ExportFile),
			Hint:    "the file is always written into output.dir",
		})
		return
	}
	if o.ExportFile == report.DiagramFile || o.ExportFile == report.ReportFile {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "output.export_file",
			Message: fmt.Sprintf("export file %q collides with a generated artifact", o.ExportFile),
			Hint:    fmt.Sprintf("choose a name other than %s and %s", report.DiagramFile, report.ReportFile),
		})
		return
	}
	if ext := strings.ToLower(filepath.Ext(o.ExportFile)); ext != ".yaml" && ext != ".yml" {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "output.export_file",
			Message: fmt.Sprintf("export file %q does not have a YAML extension", o.ExportFile),
			Hint:    "the export is always YAML",
		})
	}
}

func validateFilters(result *ValidationResult, filters schemafilter.Config) {
	validateGlobList(result, "filters.allow_tables", filters.AllowTables)
	validateGlobList(result, "filters.deny_tables", filters.DenyTables)

	if len(filters.AllowTables) == 0 {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "filters.allow_tables",
			Message: "allow_tables is empty, every table will be filtered out",
			Hint:    "use * to keep all tables",
		})
	}
}

func validateGlobList(result *ValidationResult, field string, patterns []string) {
	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field,
				Message: "glob pattern cannot be empty",
			})
			continue
		}
		if _, err := path.Match(strings.ToLower(pattern), "probe"); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("invalid glob pattern %q: %v", pattern, err),
			})
		}
	}
}

func (o *ObservabilityConfig) validate(result *ValidationResult) {
	// Log level validation
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[o.Logging.Level] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "observability.logging.level",
			Message: fmt.Sprintf("invalid log level %q", o.Logging.Level),
			Hint:    "valid values are: debug, info, warn, error",
		})
	}

	// Log format validation
	validLogFormats := map[string]bool{"json": true, "text": true, "auto": true}
	if !validLogFormats[o.Logging.Format] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "observability.logging.format",
			Message: fmt.Sprintf("invalid log format %q", o.Logging.Format),
			Hint:    "valid values are: json, text, auto",
		})
	}

	if o.TraceSampleRatio < 0 || o.TraceSampleRatio > 1 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "observability.trace_sample_ratio",
			Message: fmt.Sprintf("trace_sample_ratio %v is out of range (0-1)", o.TraceSampleRatio),
		})
	}

	if o.MetricsTextfile != "" && !o.MetricsEnabled {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "observability.metrics_textfile",
			Message: "metrics_textfile is set but metrics are disabled",
			Hint:    "enable observability.metrics_enabled to write the textfile",
		})
	}

	// OTLP protocol validation
	o.OTLP.validate("observability.otlp", result)

	// Signal-specific OTLP validation
	if o.Traces != nil {
		o.Traces.validate("observability.traces", result)
	}
	if o.Logs != nil {
		o.Logs.validate("observability.logs", result)
	}
}

func (o *OTLPConfig) validate(prefix string, result *ValidationResult) {
	validProtocols := map[string]bool{"": true, "grpc": true, "http/protobuf": true}
	if !validProtocols[o.Protocol] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   prefix + ".protocol",
			Message: fmt.Sprintf("invalid OTLP protocol %q", o.Protocol),
			Hint:    "valid values are: grpc, http/protobuf",
		})
	}

	if o.Protocol == "http/protobuf" {
		if !validOTLPEndpoint(o.Endpoint) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   prefix + ".endpoint",
				Message: fmt.Sprintf("invalid OTLP endpoint %q for http/protobuf", o.Endpoint),
				Hint:    "use host:port or a full URL",
			})
		}
	}

	validCompressions := map[string]bool{"": true, "none": true, "gzip": true}
	if !validCompressions[o.Compression] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   prefix + ".compression",
			Message: fmt.Sprintf("invalid OTLP compression %q", o.Compression),
			Hint:    "valid values are: none, gzip",
		})
	}

	if o.RetryMaxAttempts < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   prefix + ".retry_max_attempts",
			Message: "retry_max_attempts cannot be negative",
		})
	}
}

func validOTLPEndpoint(endpoint string) bool {
	if endpoint == "" {
		return false
	}
	if strings.Contains(endpoint, "://") {
		parsed, err := url.Parse(endpoint)
		if err != nil {
			return false
		}
		return parsed.Host != ""
	}
	_, _, err := net.SplitHostPort(endpoint)
	return err == nil
}
