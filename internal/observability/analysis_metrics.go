package observability

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AnalysisMetrics holds the instruments recorded once per analysis run.
type AnalysisMetrics struct {
	runCounter   metric.Int64Counter
	durationHist metric.Float64Histogram
	tablesGauge  metric.Int64Gauge
	edgesGauge   metric.Int64Gauge
	pathsGauge   metric.Int64Gauge
	cyclesGauge  metric.Int64Gauge
}

// AnalysisSummary is what a run reports once its paths are enumerated.
type AnalysisSummary struct {
	Tables int
	Edges  int
	// Keyed by traversal direction name.
	Paths  map[string]int
	Cycles map[string]int
}

// InitAnalysisMetrics creates the analysis instruments on meter, or on the
// global meter provider when meter is nil.
func InitAnalysisMetrics(meter metric.Meter, logger *slog.Logger) (*AnalysisMetrics, error) {
	if meter == nil {
		meter = otel.Meter("ddl-deps")
	}

	runCounter, err := meter.Int64Counter(
		"ddl.analysis.runs",
		metric.WithDescription("Total number of analysis runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis run counter: %w", err)
	}

	durationHist, err := meter.Float64Histogram(
		"ddl.analysis.duration",
		metric.WithDescription("Duration of analysis runs in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis duration histogram: %w", err)
	}

	tablesGauge, err := meter.Int64Gauge(
		"ddl.schema.tables",
		metric.WithDescription("Number of declared tables after filtering"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tables gauge: %w", err)
	}

	edgesGauge, err := meter.Int64Gauge(
		"ddl.schema.edges",
		metric.WithDescription("Number of distinct foreign-key edges after filtering"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create edges gauge: %w", err)
	}

	pathsGauge, err := meter.Int64Gauge(
		"ddl.analysis.paths",
		metric.WithDescription("Number of enumerated paths per direction"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create paths gauge: %w", err)
	}

	cyclesGauge, err := meter.Int64Gauge(
		"ddl.analysis.cycles",
		metric.WithDescription("Number of enumerated paths that close a cycle, per direction"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cycles gauge: %w", err)
	}

	logger.Debug("analysis metrics initialized")
	return &AnalysisMetrics{
		runCounter:   runCounter,
		durationHist: durationHist,
		tablesGauge:  tablesGauge,
		edgesGauge:   edgesGauge,
		pathsGauge:   pathsGauge,
		cyclesGauge:  cyclesGauge,
	}, nil
}

// RecordRun records the outcome and duration of one run.
func (m *AnalysisMetrics) RecordRun(ctx context.Context, duration time.Duration, success bool) {
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	m.runCounter.Add(ctx, 1, attrs)
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordSummary records the size of the analyzed graph and its path sets.
func (m *AnalysisMetrics) RecordSummary(ctx context.Context, start string, summary AnalysisSummary) {
	startAttr := attribute.String("start_table", start)
	m.tablesGauge.Record(ctx, int64(summary.Tables))
	m.edgesGauge.Record(ctx, int64(summary.Edges))
	for direction, count := range summary.Paths {
		m.pathsGauge.Record(ctx, int64(count), metric.WithAttributes(startAttr, attribute.String("direction", direction)))
	}
	for direction, count := range summary.Cycles {
		m.cyclesGauge.Record(ctx, int64(count), metric.WithAttributes(startAttr, attribute.String("direction", direction)))
	}
}
