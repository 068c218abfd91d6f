package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Janesh-e/orbit-sentinel-horizon/internal/catalog"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/config"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/conjunction"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/store"
)

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <conjunction-id>",
		Short: "Plan an avoidance maneuver for a persisted conjunction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid conjunction id %q", args[0])
			}

			cfg := config.Load()
			logger := newLogger(cfg.LogLevel)

			db, err := store.New(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			cache := catalog.NewCache(cfg.Catalog.CacheDir, cfg.Catalog.MaxCachedFiles)
			catalogStore := catalog.NewStore()
			if _, err := catalogStore.Reload(cache, cfg.Catalog.ObjectLimit, logger); err != nil {
				return err
			}

			conj, err := db.ConjunctionByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			planner := conjunction.NewPlanner(catalogStore, db, logger)
			plan, err := planner.Plan(cmd.Context(), conj, time.Now().UTC())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(plan)
		},
	}
}
