package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"swiss-zipcode-api/internal/dataset"
	apphttp "swiss-zipcode-api/internal/http"
	"swiss-zipcode-api/internal/http/router"
	"swiss-zipcode-api/internal/zipcode"
	"swiss-zipcode-api/internal/zipcode/repository"
	"swiss-zipcode-api/platform/config"
	"swiss-zipcode-api/platform/logger"
	"swiss-zipcode-api/platform/metrics"
	"swiss-zipcode-api/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Dataset Provisioning
	// ========================================================================

	provider := dataset.NewProvider(cfg, log)

	// Only the download is retried; a parse failure is deterministic and
	// retrying it would just repeat the same error.
	if err := withRetry(ctx, log, "dataset download", 5, 2*time.Second, func() error {
		return provider.Ensure(ctx, false)
	}); err != nil {
		log.Error("failed to provision dataset", "error", err)
		panic("failed to provision dataset: " + err.Error())
	}

	rows, err := dataset.ParseFile(provider.SnapshotPath())
	if err != nil {
		log.Error("failed to parse dataset snapshot", "error", err)
		panic("failed to parse dataset snapshot: " + err.Error())
	}

	store, err := repository.Load(rows)
	if err != nil {
		log.Error("failed to load zip code store", "error", err)
		panic("failed to load zip code store: " + err.Error())
	}
	metrics.DatasetRecords.Set(float64(store.Len()))

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Shared validator instance for dependency injection
	val := validator.New()

	zipcodeModule, err := zipcode.NewModule(store, cfg, val)
	if err != nil {
		log.Error("failed to initialize zipcode module", "error", err)
		panic("failed to initialize zipcode module: " + err.Error())
	}

	stats := zipcodeModule.Service().Stats()
	log.DatasetLoaded(provider.SnapshotPath(), stats.Records, stats.Municipalities, stats.Cantons, stats.WithCoordinates)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Dataset: store,
		Modules: []apphttp.Module{
			zipcodeModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
