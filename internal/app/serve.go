package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Janesh-e/orbit-sentinel-horizon/internal/api"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/auth"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/catalog"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/config"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/conjunction"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/metrics"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/scheduler"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server with periodic catalog refresh and detection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		logger.Error("opening conjunction store", "error", err)
		return err
	}
	defer db.Close()

	cache := catalog.NewCache(cfg.Catalog.CacheDir, cfg.Catalog.MaxCachedFiles)
	catalogStore := catalog.NewStore()

	// Attempt to load cached catalog data on startup; the scheduler's
	// first cycle will fetch if nothing is cached yet.
	if snap, err := catalogStore.Reload(cache, cfg.Catalog.ObjectLimit, logger); err != nil {
		logger.Info("no cached catalog on startup", "error", err)
	} else {
		metrics.SetCatalogObjectCount(len(snap.All()))
	}

	detector := conjunction.NewDetector(db, conjunction.DetectorConfig{
		Step:          cfg.Detection.Step(),
		MaxCandidates: cfg.Detection.MaxCandidates,
	}, logger)
	planner := conjunction.NewPlanner(catalogStore, db, logger)
	fetcher := catalog.NewFetcher()

	srv := api.NewServer(cfg.HTTP.Addr, logger, api.Deps{
		AuthConfig:      auth.Config{Enabled: cfg.Auth.Enabled, Token: cfg.Auth.Token},
		Catalog:         catalogStore,
		Cache:           cache,
		DB:              db,
		Detector:        detector,
		Planner:         planner,
		Detection:       cfg.Detection,
		Simulation:      cfg.Simulation,
		ObjectLimit:     cfg.Catalog.ObjectLimit,
		RefreshInterval: cfg.Catalog.RefreshInterval(),
	})

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := scheduler.New(fetcher, cache, catalogStore, detector, cfg.Catalog, cfg.Detection, logger)
	go runner.Run(ctx)

	watcher := catalog.NewWatcher(cache, catalogStore, cfg.Catalog.ObjectLimit, logger)
	go func() {
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("catalog watcher stopped", "error", err)
		}
	}()

	// Keep the catalog age gauge current.
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if age := catalogStore.AgeSeconds(); age >= 0 {
					metrics.SetCatalogAge(age)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		logger.Info("starting server", "addr", cfg.HTTP.Addr, "auth_enabled", cfg.Auth.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}
