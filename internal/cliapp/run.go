package cliapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"ddl-deps/internal/ddl"
	"ddl-deps/internal/depgraph"
	"ddl-deps/internal/logging"
	"ddl-deps/internal/observability"
	"ddl-deps/internal/report"
	"ddl-deps/internal/schemafilter"
	"ddl-deps/internal/sqlutil"
)

// Result summarizes a completed run.
type Result struct {
	RunID   string
	Start   string
	Files   []string
	Schema  *ddl.Schema
	Forward []depgraph.Path
	Reverse []depgraph.Path
}

// Run analyzes the DDL file at ddlPath from the table named table and writes the
// artifacts into the configured output directory. Either every artifact is written
// or none is.
func (a *App) Run(ctx context.Context, ddlPath, table string) (result *Result, err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	runID := logging.NewRunID()
	logger := a.logger.WithRunID(runID)
	ctx = logging.WithLogger(logging.WithRunIDContext(ctx, runID), logger)

	ctx, span := startSpan(ctx, "ddl_deps.run",
		attribute.String("run.id", runID),
		attribute.String("ddl.path", ddlPath),
	)
	began := time.Now()
	defer func() {
		recordSpanError(span, err)
		span.End()
		a.finishRun(ctx, logger, time.Since(began), err)
	}()

	start := sqlutil.NormalizeIdentifier(table)
	if start == "" {
		return nil, fmt.Errorf("%w: start table name is empty", ErrUsage)
	}
	span.SetAttributes(attribute.String("ddl.start_table", start))

	text, err := readDDL(ddlPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("read DDL file", slog.String("path", ddlPath), slog.Int("bytes", len(text)))

	schema := schemafilter.Apply(ddl.Extract(ctx, text), a.cfg.Filters)
	if !schemafilter.TableAllowed(start, a.cfg.Filters) {
		logger.Warn("start table is excluded by the table filters", slog.String("table", start))
	} else if !schema.HasTable(start) {
		logger.Info("start table is not declared in the DDL", slog.String("table", start))
	}

	graph := depgraph.Build(schema.Edges)
	forward := depgraph.EnumeratePaths(ctx, start, graph, depgraph.Forward)
	reverse := depgraph.EnumeratePaths(ctx, start, graph, depgraph.Reverse)

	artifacts, err := a.buildArtifacts(start, schema, graph, forward, reverse)
	if err != nil {
		return nil, err
	}

	files, err := a.writeArtifacts(ctx, artifacts)
	if err != nil {
		return nil, err
	}

	summary := observability.AnalysisSummary{
		Tables: len(schema.Tables),
		Edges:  len(graph.Edges()),
		Paths: map[string]int{
			depgraph.Forward.String(): len(forward),
			depgraph.Reverse.String(): len(reverse),
		},
		Cycles: map[string]int{
			depgraph.Forward.String(): depgraph.CycleCount(forward),
			depgraph.Reverse.String(): depgraph.CycleCount(reverse),
		},
	}
	if a.metrics != nil {
		a.metrics.RecordSummary(ctx, start, summary)
	}
	logger.Info("analysis finished",
		slog.String("start_table", start),
		slog.Int("tables", summary.Tables),
		slog.Int("edges", summary.Edges),
		slog.Int("forward_paths", len(forward)),
		slog.Int("reverse_paths", len(reverse)),
	)

	return &Result{
		RunID:   runID,
		Start:   start,
		Files:   files,
		Schema:  schema,
		Forward: forward,
		Reverse: reverse,
	}, nil
}

// readDDL reads the whole input file. Failures name the absolute path.
func readDDL(ddlPath string) (string, error) {
	absPath, err := filepath.Abs(ddlPath)
	if err != nil {
		absPath = ddlPath
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return "", &InputError{Path: absPath, Err: err}
	}
	return string(data), nil
}

func (a *App) buildArtifacts(start string, schema *ddl.Schema, graph *depgraph.Graph, forward, reverse []depgraph.Path) ([]report.Artifact, error) {
	edges := graph.Edges()
	artifacts := []report.Artifact{
		{Name: report.DiagramFile, Data: []byte(report.RenderDiagram(edges))},
		{Name: report.ReportFile, Data: []byte(report.RenderReport(start, forward, reverse))},
	}

	if a.cfg.Output.ExportFile != "" {
		data, err := report.RenderExport(report.NewExportDocument(start, schema.Tables, edges, forward, reverse))
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, report.Artifact{Name: a.cfg.Output.ExportFile, Data: data})
	}
	return artifacts, nil
}

func (a *App) writeArtifacts(ctx context.Context, artifacts []report.Artifact) (files []string, err error) {
	_, span := startSpan(ctx, "report.write_artifacts",
		attribute.String("output.dir", a.cfg.Output.Dir),
		attribute.Int("output.artifacts", len(artifacts)),
	)
	defer func() {
		recordSpanError(span, err)
		span.End()
	}()

	files, err = report.WriteArtifacts(a.cfg.Output.Dir, artifacts...)
	if err != nil {
		return nil, fmt.Errorf("failed to write artifacts: %w", err)
	}
	return files, nil
}

// finishRun records the run metrics and refreshes the metrics textfile. Runs that
// fail on usage or input errors write no files at all, the textfile included. A
// textfile failure is logged but does not fail a run whose artifacts were written.
func (a *App) finishRun(ctx context.Context, logger *logging.Logger, elapsed time.Duration, runErr error) {
	if a.metrics != nil {
		a.metrics.RecordRun(ctx, elapsed, runErr == nil)
	}
	if a.meterProvider == nil || a.cfg.Observability.MetricsTextfile == "" {
		return
	}
	var inputErr *InputError
	if errors.Is(runErr, ErrUsage) || errors.As(runErr, &inputErr) {
		return
	}
	if err := a.meterProvider.WriteTextfile(a.cfg.Observability.MetricsTextfile); err != nil {
		logger.Warn("failed to write metrics textfile", slog.String("error", err.Error()))
	}
}
