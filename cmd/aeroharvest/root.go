package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/use-agent/aeroharvest/config"
)

// NewRootCmd creates the root command for aeroharvest.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aeroharvest",
		Short: "Airport record harvester for world-airport-codes style sites",
		Long: `aeroharvest walks the 26 alphabetical airport-code index pages of a
reference site, follows every airport detail link it finds, and maps each
detail page into a structured airport record.

Run a one-shot crawl with "harvest", or expose the crawl as an HTTP API
with "serve". All settings are environment variables (AEROHARVEST_*) and
can be overridden per-site with a YAML profile.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewHarvestCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initLogger configures slog based on the LogConfig. The --verbose flag
// forces debug level regardless of AEROHARVEST_LOG_LEVEL.
func initLogger(cfg config.LogConfig, verbose bool) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
