// Package cliapp wires configuration, observability and the analysis pipeline
// into a single command-line run.
package cliapp

import (
	"fmt"
	"sync"

	"ddl-deps/internal/config"
	"ddl-deps/internal/logging"
	"ddl-deps/internal/observability"
)

// App owns runtime resources for one ddl-deps invocation.
type App struct {
	cfg    *config.Config
	logger *logging.Logger

	loggerProvider *observability.LoggerProvider
	meterProvider  *observability.MeterProvider
	tracerProvider *observability.TracerProvider
	metrics        *observability.AnalysisMetrics

	cleanup cleanupStack

	stateMu     sync.Mutex
	initialized bool

	shutdownOnce sync.Once
}

// New creates an App lifecycle wrapper.
func New(cfg *config.Config, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &App{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// AttachLoggerProvider registers an optional logger provider for shutdown cleanup.
func (a *App) AttachLoggerProvider(provider *observability.LoggerProvider) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.loggerProvider = provider
}
