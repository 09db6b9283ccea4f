// Package logging provides structured logging helpers for the analyzer.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/sdk/log"
	"golang.org/x/term"
)

type contextKey string

const (
	loggerKey contextKey = "logger"
	runIDKey  contextKey = "run_id"
)

// Logger wraps slog.Logger with convenience methods
type Logger struct {
	*slog.Logger
}

// Config holds logging configuration
type Config struct {
	Level          string              // debug, info, warn, error
	Format         string              // json, text, auto
	Output         io.Writer           // Defaults to os.Stderr; stdout is reserved for the artifact listing
	LoggerProvider *log.LoggerProvider // Optional OTLP logger provider for exporting logs
}

// ParseLevel maps a configured level name to a slog level.
// Unknown names fall back to warn.
func ParseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// NewLogger creates a new structured logger based on configuration
func NewLogger(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	level := ParseLevel(cfg.Level)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	var handler slog.Handler
	if resolveFormat(cfg.Format, out) == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	// If OTLP logger provider is provided, fan out to the otelslog bridge as well
	if cfg.LoggerProvider != nil {
		otlpHandler := otelslog.NewHandler("ddl-deps", otelslog.WithLoggerProvider(cfg.LoggerProvider))
		handler = newMultiHandler(handler, otlpHandler)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// resolveFormat turns "auto" into text for an interactive terminal and json otherwise.
func resolveFormat(format string, out io.Writer) string {
	switch format {
	case "json", "text":
		return format
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "text"
	}
	return "json"
}

// multiHandler wraps multiple slog handlers to write to multiple destinations
type multiHandler struct {
	handlers []slog.Handler
}

func newMultiHandler(handlers ...slog.Handler) *multiHandler {
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

// NewRunID returns a fresh identifier for one analysis run.
func NewRunID() string {
	return uuid.NewString()
}

// WithRunID returns a new logger with the run ID field attached
func (l *Logger) WithRunID(runID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("run_id", runID)),
	}
}

// WithFields returns a new logger with additional fields
func (l *Logger) WithFields(fields ...any) *Logger {
	return &Logger{
		Logger: l.With(fields...),
	}
}

// FromContext retrieves the logger from context, or returns a default logger
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(loggerKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger: slog.Default(),
	}
}

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetRunID retrieves the run ID from context
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(runIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithRunIDContext adds a run ID to the context
func WithRunIDContext(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}
