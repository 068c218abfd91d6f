// Package app wires the orbit-sentinel CLI: a long-running server plus
// one-shot commands for fetching the catalog, running detection, and
// planning maneuvers.
package app

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Execute runs the CLI and returns the command error, if any.
func Execute() error {
	root := &cobra.Command{
		Use:           "orbit-sentinel",
		Short:         "Conjunction detection and risk assessment for orbiting objects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newFetchCmd())
	root.AddCommand(newDetectCmd())
	root.AddCommand(newPlanCmd())

	return root.Execute()
}

func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromString(level),
	}))
}

func levelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
