package app

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Janesh-e/orbit-sentinel-horizon/internal/catalog"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/config"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/conjunction"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/store"
)

func newDetectCmd() *cobra.Command {
	var windowDays int
	var thresholdKm float64

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Run one conjunction detection pass against the cached catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := newLogger(cfg.LogLevel)

			if windowDays <= 0 {
				windowDays = cfg.Detection.WindowDays
			}
			if thresholdKm <= 0 {
				thresholdKm = cfg.Detection.ThresholdKm
			}

			db, err := store.New(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			cache := catalog.NewCache(cfg.Catalog.CacheDir, cfg.Catalog.MaxCachedFiles)
			catalogStore := catalog.NewStore()
			snap, err := catalogStore.Reload(cache, cfg.Catalog.ObjectLimit, logger)
			if err != nil {
				return err
			}

			detector := conjunction.NewDetector(db, conjunction.DetectorConfig{
				Step:          cfg.Detection.Step(),
				MaxCandidates: cfg.Detection.MaxCandidates,
			}, logger)

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Detection.RunTimeout())
			defer cancel()

			now := time.Now().UTC()
			records, err := detector.Detect(ctx, snap.All(), now, now.Add(time.Duration(windowDays)*24*time.Hour), thresholdKm)
			if err != nil {
				return err
			}

			fmt.Printf("%d conjunction(s) detected over the next %d day(s)\n", len(records), windowDays)
			for _, c := range records {
				fmt.Printf("  #%d  %s / %s  %.2f km at %s  (p=%.1f, zone=%s)\n",
					c.ID, c.Object1.Name, c.Object2.Name,
					c.ClosestDistanceKm, c.ConjunctionTime.Format(time.RFC3339),
					c.Probability, c.OrbitZone)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&windowDays, "window-days", 0, "detection look-ahead window in days (default from config)")
	cmd.Flags().Float64Var(&thresholdKm, "threshold-km", 0, "conjunction distance threshold in km (default from config)")
	return cmd
}
