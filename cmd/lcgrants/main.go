package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"lcgrants/internal/backend"
	"lcgrants/internal/cache"
	"lcgrants/internal/cli"
	"lcgrants/internal/config"
	"lcgrants/internal/core"
	"lcgrants/internal/dataset"
	"lcgrants/internal/filter"
	apphttp "lcgrants/internal/http"
	applog "lcgrants/internal/log"
	"lcgrants/internal/session"
)

// pinger is implemented by sources backed by a live connection.
type pinger interface {
	Ping(ctx context.Context) error
}

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		var le *core.LoadError
		if errors.As(err, &le) {
			logger.Error("Failed to load dataset", applog.FieldError, err, applog.FieldSource, le.Source)
		} else {
			logger.Error("Server error", applog.FieldError, err)
		}
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *applog.Logger) error {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return err
	}
	defer res.Close()

	ds, err := dataset.Load(ctx, res.Source)
	if err != nil {
		return err
	}

	categories := core.DefaultCategories()
	store := session.NewStore(ds, filter.NewEngine(categories), cfg.SessionMax, cfg.SessionTTL)

	caches := cache.NewManager()
	caches.Register("sessions", store.Cleaner())
	caches.StartCleanup(cfg.SessionCleanupInterval)
	defer caches.Stop()

	var ready func(context.Context) error
	if p, ok := res.Source.(pinger); ok {
		ready = p.Ping
	}

	srv, err := apphttp.NewServer(apphttp.ServerConfig{
		Addr:            ":" + cfg.Port,
		Dataset:         ds,
		Sessions:        store,
		Categories:      categories,
		RateLimitPerMin: cfg.RateLimitPerMin,
		Logger:          logger.WithComponent(applog.ComponentHTTP),
		Caches:          caches,
		Ready:           ready,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting lcgrants server",
			"port", cfg.Port,
			"backend", bcfg.Type.String(),
			applog.FieldSource, ds.Source(),
			applog.FieldRows, ds.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		start := time.Now()
		err := srv.Shutdown(shutdownCtx)
		logger.Info("HTTP server shut down",
			applog.FieldOperation, applog.OpShutdown,
			applog.FieldDuration, time.Since(start).Milliseconds())
		return err
	})
	return g.Wait()
}
