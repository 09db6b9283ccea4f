package cliapp

import (
	"context"
	"fmt"
)

// Init sets up metrics and tracing. It is idempotent.
func (a *App) Init(ctx context.Context) error {
	a.stateMu.Lock()
	if a.initialized {
		a.stateMu.Unlock()
		return nil
	}
	a.stateMu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}

	cleanup := cleanupStack{}
	success := false
	defer func() {
		if !success {
			cleanup.run(ctx, a.logger)
		}
	}()

	if a.loggerProvider != nil {
		cleanup.push("logger provider", func(shutdownCtx context.Context) error {
			return a.loggerProvider.Shutdown(shutdownCtx, a.logger.Logger)
		})
	}

	meterProvider, metrics, err := initMetrics(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry metrics: %w", err)
	}
	if meterProvider != nil {
		cleanup.push("meter provider", func(shutdownCtx context.Context) error {
			return meterProvider.Shutdown(shutdownCtx, a.logger.Logger)
		})
	}

	tracerProvider, err := initTracing(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry tracing: %w", err)
	}
	if tracerProvider != nil {
		cleanup.push("tracer provider", func(shutdownCtx context.Context) error {
			return tracerProvider.Shutdown(shutdownCtx, a.logger.Logger)
		})
	}

	a.stateMu.Lock()
	a.meterProvider = meterProvider
	a.metrics = metrics
	a.tracerProvider = tracerProvider
	a.cleanup = cleanup
	a.initialized = true
	a.stateMu.Unlock()

	success = true
	return nil
}
