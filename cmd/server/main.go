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

	"github.com/ucuzbot/backend/config"
	"github.com/ucuzbot/backend/internal/app"
	httpDelivery "github.com/ucuzbot/backend/internal/delivery/http"
	"github.com/ucuzbot/backend/internal/infrastructure/notify"
	"github.com/ucuzbot/backend/internal/infrastructure/storage"
	"github.com/ucuzbot/backend/internal/jobs"
	"github.com/ucuzbot/backend/internal/usecase"
	"github.com/ucuzbot/backend/pkg/logger"
)

const (
	version         = "1.0.0"
	shutdownTimeout = 15 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Options{Environment: cfg.Server.Environment})

	logger.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Type).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("starting ucuzbot backend")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	searchCache, err := app.NewCache(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize cache")
	}
	defer searchCache.Close()

	catalog := app.Catalog(cfg)
	for _, d := range catalog {
		logger.Debug().Str("source", d.ID).Str("base_url", d.BaseURL).Msg("source enabled")
	}

	// Initialize usecase layer
	searchService := app.NewSearchService(cfg, catalog, searchCache)
	watchService := usecase.NewWatchService(searchService, notify.NewLogNotifier(), usecase.WatchServiceConfig{
		LimitPerSource: cfg.Watch.LimitPerSource,
	})

	if cfg.Watch.Enabled {
		seed, err := app.Watches(cfg.Watch.Watches)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid watch configuration")
		}
		repo := storage.NewMemoryWatchRepository(seed)
		checker := jobs.NewWatchChecker(repo, watchService.Check, cfg.Watch.Interval, cfg.Watch.Pause)
		go checker.Start(ctx)
		logger.Info().Int("watches", len(seed)).Msg("scheduled watch checks enabled")
	}

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(searchService, watchService, catalog)
	router := httpDelivery.SetupRouter(cfg, handler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
