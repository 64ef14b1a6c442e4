// Package cli provides the initialization steps shared by cmd/lcgrants and
// cmd/lcgrants-import.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"lcgrants/internal/config"
	applog "lcgrants/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the application logger from a LOG_LEVEL value and
// installs it as the slog default. Unknown levels fall back to info.
func SetupLogger(level string) *applog.Logger {
	lvl, err := applog.ParseLevel(level)
	logger := applog.New(applog.Config{Level: lvl, Component: applog.ComponentApp, Output: os.Stdout})
	applog.SetDefault(logger)
	if err != nil {
		logger.Warn("Invalid log level, using info", "value", level)
	}
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM. The stop
// function releases the signal handler and cancels the context.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		watchSignals(ctx, sigCh, cancel)
		signal.Stop(sigCh)
	}()
	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// watchSignals cancels on the first signal from sigCh. It returns without
// logging when ctx ends first.
func watchSignals(ctx context.Context, sigCh <-chan os.Signal, cancel context.CancelFunc) {
	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received",
			applog.FieldComponent, applog.ComponentApp,
			"signal", sig.String())
		cancel()
	case <-ctx.Done():
	}
}
