package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides.
// Canonical keys are dot + snake_case: output.dir becomes DDLDEPS_OUTPUT_DIR.
const EnvPrefix = "DDLDEPS"

// NewFlagSet returns a flag set with every configuration flag defined.
// Positional arguments remain available through Args after Load parses it.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	defineFlags(fs)
	return fs
}

// Load loads configuration from multiple sources with the following precedence:
// 1. Command line flags
// 2. Environment variables
// 3. Config file
// 4. Default values
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	v := viper.New()

	// Defaults (lowest priority)
	setDefaults(v)

	// --- Flags ---
	if !fs.Parsed() {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
	}

	// --- Config file ---
	cfgPath, _ := fs.GetString("config")
	if cfgPath == "" {
		cfgPath = findConfigFile()
	}
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", cfgPath, err)
		}
	}

	// --- Environment variables ---
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// --- Flags binding (highest priority) ---
	bindChangedFlagsToViper(v, fs)

	// --- Unmarshal (strict) ---
	var cfg Config
	if err := v.UnmarshalExact(
		&cfg,
		viper.DecodeHook(
			mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				stringToStringSliceHookFunc(","),
			),
		),
	); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// configFileNames are the file names looked up when --config is not given.
// Only names with an extension are tried: the binary is called ddl-deps and
// usually sits in the working directory.
var configFileNames = []string{"ddl-deps.yaml", "ddl-deps.yml"}

// findConfigFile returns the first config file found in $HOME/.ddl-deps or the
// working directory, or "" when there is none.
func findConfigFile() string {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".ddl-deps"))
	}
	dirs = append(dirs, ".")

	for _, dir := range dirs {
		for _, name := range configFileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
	}
	return ""
}

// bindChangedFlagsToViper copies only explicitly-set flags into Viper,
// preserving precedence: flags > env > file > defaults.
func bindChangedFlagsToViper(v *viper.Viper, fs *pflag.FlagSet) {
	fs.Visit(func(f *pflag.Flag) {
		if f.Name == "config" || f.Name == "version" || f.Name == "help" {
			return
		}

		switch f.Value.Type() {
		case "string":
			val, _ := fs.GetString(f.Name)
			v.Set(f.Name, val)
		case "int":
			val, _ := fs.GetInt(f.Name)
			v.Set(f.Name, val)
		case "bool":
			val, _ := fs.GetBool(f.Name)
			v.Set(f.Name, val)
		case "float64":
			val, _ := fs.GetFloat64(f.Name)
			v.Set(f.Name, val)
		case "duration":
			val, _ := fs.GetDuration(f.Name)
			v.Set(f.Name, val)
		case "stringSlice":
			val, _ := fs.GetStringSlice(f.Name)
			v.Set(f.Name, val)
		default:
			v.Set(f.Name, f.Value.String())
		}
	})
}

// defineFlags defines all command line flags using canonical snake_case keys.
func defineFlags(fs *pflag.FlagSet) {
	// Output flags
	fs.String("output.dir", "", "Directory receiving the diagram and report (default: .)")
	fs.String("output.export_file", "", "Optional YAML export file name written into output.dir")

	// Filter flags
	fs.StringSlice("filters.allow_tables", nil, "Table glob patterns to keep (comma-separated or repeated)")
	fs.StringSlice("filters.deny_tables", nil, "Table glob patterns to drop (comma-separated or repeated)")

	// Observability flags
	fs.String("observability.service_name", "", "Service name for observability")
	fs.String("observability.service_version", "", "Service version for observability")
	fs.String("observability.environment", "", "Environment name (dev, staging, prod)")
	fs.Bool("observability.metrics_enabled", false, "Enable metrics collection")
	fs.String("observability.metrics_textfile", "", "Write collected metrics to this Prometheus textfile")
	fs.Bool("observability.tracing_enabled", false, "Enable distributed tracing")
	fs.Float64("observability.trace_sample_ratio", 0, "Trace sampling ratio (0-1)")

	// Logging flags (under observability)
	fs.String("observability.logging.level", "", "Log level (debug, info, warn, error)")
	fs.String("observability.logging.format", "", "Log format (json, text, auto)")
	fs.Bool("observability.logging.exports_enabled", false, "Enable OTLP log export")

	// Global OTLP flags
	fs.String("observability.otlp.endpoint", "", "OTLP endpoint for all signals (e.g., localhost:4317)")
	fs.String("observability.otlp.protocol", "", "OTLP protocol for all signals (grpc, http/protobuf)")
	fs.Bool("observability.otlp.insecure", false, "Use insecure connection (no TLS)")
	fs.String("observability.otlp.tls_cert_file", "", "Path to TLS certificate file for server verification")
	fs.String("observability.otlp.tls_client_cert_file", "", "Path to client certificate file for mTLS")
	fs.String("observability.otlp.tls_client_key_file", "", "Path to client key file for mTLS")
	fs.Duration("observability.otlp.timeout", 0, "OTLP export timeout")
	fs.String("observability.otlp.compression", "", "OTLP compression (none, gzip)")
	fs.Bool("observability.otlp.retry_enabled", false, "Enable retry on transient errors")
	fs.Int("observability.otlp.retry_max_attempts", 0, "Maximum retry attempts")

	// Signal-specific OTLP flags (traces)
	fs.String("observability.traces.endpoint", "", "OTLP endpoint for traces only")
	fs.String("observability.traces.protocol", "", "OTLP protocol for traces (grpc, http/protobuf)")
	fs.Bool("observability.traces.insecure", false, "Use insecure connection for traces")
	fs.Duration("observability.traces.timeout", 0, "Timeout for trace exports")

	// Signal-specific OTLP flags (logs)
	fs.String("observability.logs.endpoint", "", "OTLP endpoint for logs only")
	fs.String("observability.logs.protocol", "", "OTLP protocol for logs (grpc, http/protobuf)")
	fs.Bool("observability.logs.insecure", false, "Use insecure connection for logs")
	fs.Duration("observability.logs.timeout", 0, "Timeout for log exports")

	fs.StringP("config", "c", "", "Config file path")
	fs.Bool("version", false, "Print version and exit")
}

// setDefaults sets default values (lowest precedence).
func setDefaults(v *viper.Viper) {
	// Output defaults
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.export_file", "")

	// Filter defaults (allow all)
	v.SetDefault("filters.allow_tables", []string{"*"})
	v.SetDefault("filters.deny_tables", []string{})

	// Observability defaults
	v.SetDefault("observability.service_name", "ddl-deps")
	v.SetDefault("observability.service_version", "")
	v.SetDefault("observability.environment", "development")
	v.SetDefault("observability.metrics_enabled", false)
	v.SetDefault("observability.metrics_textfile", "")
	v.SetDefault("observability.tracing_enabled", false)
	v.SetDefault("observability.trace_sample_ratio", 1.0)

	// Logging defaults (under observability)
	v.SetDefault("observability.logging.level", "warn")
	v.SetDefault("observability.logging.format", "auto")
	v.SetDefault("observability.logging.exports_enabled", false)

	// Global OTLP defaults
	v.SetDefault("observability.otlp.endpoint", "localhost:4317")
	v.SetDefault("observability.otlp.protocol", "grpc")
	v.SetDefault("observability.otlp.insecure", false)
	v.SetDefault("observability.otlp.tls_cert_file", "")
	v.SetDefault("observability.otlp.tls_client_cert_file", "")
	v.SetDefault("observability.otlp.tls_client_key_file", "")
	v.SetDefault("observability.otlp.timeout", 10*time.Second)
	v.SetDefault("observability.otlp.compression", "gzip")
	v.SetDefault("observability.otlp.retry_enabled", true)
	v.SetDefault("observability.otlp.retry_max_attempts", 3)
}

func stringToStringSliceHookFunc(sep string) mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf([]string{}) {
			return data, nil
		}

		raw := strings.TrimSpace(data.(string))
		if raw == "" {
			return []string{}, nil
		}

		parts := strings.Split(raw, sep)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	}
}
