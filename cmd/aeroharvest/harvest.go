package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/use-agent/aeroharvest/config"
	"github.com/use-agent/aeroharvest/store"
)

// NewHarvestCmd creates the harvest command.
func NewHarvestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Run a one-shot crawl and write the records as JSON",
		Long: `Harvest crawls every configured alphabetical index page, follows each
airport detail link, and maps the detail pages into airport records.

The full record array is written as JSON to --out (stdout by default).
With --db the records are also upserted into a SQLite database, keyed by
airport code.

Examples:
  # Full crawl to stdout
  aeroharvest harvest

  # Crawl only the K and L index pages
  aeroharvest harvest --letters k,l --out kl.json

  # Persist into SQLite alongside the JSON output
  aeroharvest harvest --out airports.json --db airports.db

  # Point at a different site with a YAML profile
  aeroharvest harvest --profile testsite.yaml`,
		Args: cobra.NoArgs,
		RunE: runHarvestCmd,
	}

	cmd.Flags().StringP("out", "o", "", "Output file for the JSON record array (default: stdout)")
	cmd.Flags().String("db", "", "SQLite database path to upsert records into")
	cmd.Flags().StringP("letters", "l", "", "Comma-separated index letters to crawl (default: a..z)")
	cmd.Flags().IntP("concurrency", "n", 0, "Parallel page fetches per fan-out level (default: from config)")
	cmd.Flags().StringP("profile", "p", "", "YAML site profile overriding the target site settings")
	cmd.Flags().DurationP("timeout", "t", 0, "Overall crawl deadline (default: none)")

	return cmd
}

func runHarvestCmd(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
	initLogger(cfg.Log, verbose)

	if profile, _ := cmd.Flags().GetString("profile"); profile != "" {
		if err := config.LoadProfile(cfg, profile); err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
	}

	var letters []string
	if raw, _ := cmd.Flags().GetString("letters"); raw != "" {
		for _, l := range strings.Split(raw, ",") {
			if l = strings.TrimSpace(l); l != "" {
				letters = append(letters, strings.ToLower(l))
			}
		}
	}
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	h, err := buildHarvester(cfg, letters, concurrency, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := h.Run(ctx)
	if err != nil {
		return fmt.Errorf("harvest failed: %w", err)
	}
	slog.Info("harvest finished",
		"records", len(result.Records),
		"pages", result.Pages,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		if err := st.SaveRecords(ctx, result.Records); err != nil {
			return fmt.Errorf("save records: %w", err)
		}
		slog.Info("records persisted", "db", dbPath, "count", len(result.Records))
	}

	data, err := result.JSON()
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" || out == "-" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	slog.Info("records written", "path", out, "count", len(result.Records))
	return nil
}
