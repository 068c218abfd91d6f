// Package scheduler drives the periodic background jobs: refreshing the
// element set catalog and running conjunction detection over the fresh
// snapshot.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/Janesh-e/orbit-sentinel-horizon/internal/catalog"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/config"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/conjunction"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/metrics"
)

// Runner owns the fetch-then-detect cycle.
type Runner struct {
	fetcher  *catalog.Fetcher
	cache    *catalog.Cache
	catalog  *catalog.Store
	detector *conjunction.Detector

	catalogCfg   config.CatalogConfig
	detectionCfg config.DetectionConfig
	logger       *slog.Logger
}

// New creates a Runner.
func New(fetcher *catalog.Fetcher, cache *catalog.Cache, catalogStore *catalog.Store, detector *conjunction.Detector, catalogCfg config.CatalogConfig, detectionCfg config.DetectionConfig, logger *slog.Logger) *Runner {
	return &Runner{
		fetcher:      fetcher,
		cache:        cache,
		catalog:      catalogStore,
		detector:     detector,
		catalogCfg:   catalogCfg,
		detectionCfg: detectionCfg,
		logger:       logger,
	}
}

// Run executes one cycle immediately, then repeats at the configured fetch
// interval until ctx is cancelled. A failed cycle is logged and retried at
// the next tick; an aborted detection leaves partial persisted results,
// which the store's no-dedup policy accepts.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.catalogCfg.FetchInterval())
	defer ticker.Stop()

	r.cycle(ctx)
	for {
		select {
		case <-ticker.C:
			r.cycle(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (r *Runner) cycle(ctx context.Context) {
	if err := catalog.FetchAndCache(ctx, r.fetcher, r.cache, r.catalogCfg.SatelliteURL, r.catalogCfg.DebrisURL, r.logger); err != nil {
		r.logger.Warn("catalog fetch failed, detecting against previous snapshot", "error", err)
	}

	snap, err := r.catalog.Reload(r.cache, r.catalogCfg.ObjectLimit, r.logger)
	if err != nil {
		r.logger.Error("catalog reload failed, skipping detection cycle", "error", err)
		return
	}
	metrics.SetCatalogObjectCount(len(snap.All()))

	runCtx, cancel := context.WithTimeout(ctx, r.detectionCfg.RunTimeout())
	defer cancel()

	now := time.Now().UTC()
	_, err = r.detector.Detect(runCtx, snap.All(), now, now.Add(r.detectionCfg.Window()), r.detectionCfg.ThresholdKm)
	if err != nil {
		r.logger.Error("scheduled detection run failed", "error", err)
	}
}
