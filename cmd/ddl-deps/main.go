package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"ddl-deps/internal/cliapp"
	"ddl-deps/internal/config"
	"ddl-deps/internal/logging"
)

var (
	// Version is set at build time via -ldflags "-X main.Version=...".
	Version = "dev"
	Commit  = "none"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(exitCode(run(os.Args[1:], os.Stdout, os.Stderr)))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, cliapp.ErrUsage):
		return exitUsage
	default:
		slog.Error("ddl-deps failed", slog.String("error", err.Error()))
		return exitError
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	// Errors before the configured logger exists still reach stderr.
	slog.SetDefault(logging.NewLogger(logging.Config{Level: "warn", Format: "auto", Output: stderr}).Logger)

	fs := config.NewFlagSet("ddl-deps")
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, cliapp.ErrUsage.Error())
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", cliapp.ErrUsage, err)
	}

	if showVersion, _ := fs.GetBool("version"); showVersion {
		fmt.Fprintf(stdout, "ddl-deps %s (%s)\n", Version, Commit)
		return nil
	}

	positional := fs.Args()
	if len(positional) < 2 {
		fs.Usage()
		return cliapp.ErrUsage
	}
	ddlPath, table := positional[0], positional[1]

	cfg, err := config.Load(fs, nil)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.Observability.ServiceVersion == "" {
		cfg.Observability.ServiceVersion = Version
	}

	validationResult := cfg.Validate()
	for _, warn := range validationResult.Warnings {
		slog.Warn("configuration warning",
			slog.String("field", warn.Field),
			slog.String("message", warn.Message),
			slog.String("hint", warn.Hint),
		)
	}
	if validationResult.HasErrors() {
		for _, err := range validationResult.Errors {
			slog.Error("configuration error",
				slog.String("field", err.Field),
				slog.String("message", err.Message),
				slog.String("hint", err.Hint),
			)
		}
		return fmt.Errorf("configuration validation failed")
	}

	logger, loggerProvider, err := cliapp.InitLogger(cfg, stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if len(positional) > 2 {
		logger.Warn("ignoring extra arguments", slog.Any("args", positional[2:]))
	}

	app, err := cliapp.New(cfg, logger)
	if err != nil {
		if loggerProvider != nil {
			_ = loggerProvider.Shutdown(context.Background(), logger.Logger)
		}
		return err
	}
	app.AttachLoggerProvider(loggerProvider)

	if err := app.Init(context.Background()); err != nil {
		return err
	}

	result, runErr := app.Run(context.Background(), ddlPath, table)
	shutdownErr := app.Shutdown(context.Background())
	if runErr != nil {
		if errors.Is(runErr, cliapp.ErrUsage) {
			fmt.Fprintln(stderr, runErr)
			fmt.Fprintln(stderr)
			fs.PrintDefaults()
		}
		return runErr
	}
	if shutdownErr != nil {
		return shutdownErr
	}

	fmt.Fprintln(stdout, "Arquivos gerados:")
	for _, file := range result.Files {
		fmt.Fprintf(stdout, " - %s\n", file)
	}
	return nil
}
