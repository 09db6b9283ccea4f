package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONToConfiguredWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "info", Format: "json", Output: &buf})

	logger.Info("analysis finished", slog.Int("paths", 3))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "analysis finished", entry["msg"])
	assert.Equal(t, float64(3), entry["paths"])
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "warn", Format: "text", Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
}

func TestNewLogger_AutoFormatOnNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "warn", Format: "auto", Output: &buf})

	logger.Warn("piped")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), "auto must pick json when not writing to a terminal")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"chatty", slog.LevelWarn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.name))
		})
	}
}

func TestWithRunID(t *testing.T) {
	var buf bytes.Buffer
	runID := NewRunID()
	_, err := uuid.Parse(runID)
	require.NoError(t, err)

	logger := NewLogger(Config{Level: "info", Format: "json", Output: &buf}).WithRunID(runID)
	logger.Info("start")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, runID, entry["run_id"])
}

func TestMultiHandler_WritesToAll(t *testing.T) {
	var a, b bytes.Buffer
	h := newMultiHandler(
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(h).With("k", "v")

	logger.Info("one")
	logger.Error("two")

	assert.Contains(t, a.String(), "msg=one")
	assert.Contains(t, a.String(), "msg=two")
	assert.NotContains(t, b.String(), "msg=one")
	assert.Contains(t, b.String(), "k=v")
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRunID(ctx))
	assert.NotNil(t, FromContext(ctx))

	logger := NewLogger(Config{Output: &bytes.Buffer{}})
	ctx = WithLogger(WithRunIDContext(ctx, "abc"), logger)

	assert.Equal(t, "abc", GetRunID(ctx))
	assert.Same(t, logger, FromContext(ctx))
}
