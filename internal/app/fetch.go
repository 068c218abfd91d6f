package app

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Janesh-e/orbit-sentinel-horizon/internal/catalog"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/config"
)

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Fetch fresh element set catalogs into the local cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := newLogger(cfg.LogLevel)

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			cache := catalog.NewCache(cfg.Catalog.CacheDir, cfg.Catalog.MaxCachedFiles)
			if err := catalog.FetchAndCache(ctx, catalog.NewFetcher(), cache, cfg.Catalog.SatelliteURL, cfg.Catalog.DebrisURL, logger); err != nil {
				return err
			}

			fmt.Printf("catalog cached in %s\n", cfg.Catalog.CacheDir)
			return nil
		},
	}
}
