package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/use-agent/aeroharvest/api"
	"github.com/use-agent/aeroharvest/cache"
	"github.com/use-agent/aeroharvest/config"
	"github.com/use-agent/aeroharvest/harvest"
	"github.com/use-agent/aeroharvest/models"
	"github.com/use-agent/aeroharvest/store"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the harvester as an HTTP API",
		Long: `Serve starts an HTTP server with async harvest jobs:

  POST /api/v1/harvest       start a crawl, returns a job id
  GET  /api/v1/harvest/:id   poll job status and fetch records
  GET  /api/v1/airports      list persisted records (with --db)
  GET  /api/v1/health        liveness probe
  GET  /metrics              Prometheus metrics

Authentication and rate limiting are controlled by AEROHARVEST_AUTH_*
and AEROHARVEST_RATE_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().String("db", "", "SQLite database path; enables GET /api/v1/airports and persists completed jobs")
	cmd.Flags().StringP("profile", "p", "", "YAML site profile overriding the target site settings")

	return cmd
}

func runServeCmd(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
	initLogger(cfg.Log, verbose)

	if profile, _ := cmd.Flags().GetString("profile"); profile != "" {
		if err := config.LoadProfile(cfg, profile); err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
	}
	if err := cfg.Site.Validate(); err != nil {
		return fmt.Errorf("invalid site config: %w", err)
	}

	slog.Info("aeroharvest starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"base_url", cfg.Site.BaseURL,
	)

	// Page cache is shared across jobs so repeated crawls of an unchanged
	// site stay cheap.
	var pageCache *cache.Cache
	if cfg.Cache.Enabled {
		pageCache = cache.New(cfg.Cache.MaxEntries)
	}

	var st *store.Store
	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		var err error
		st, err = store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		slog.Info("store attached", "db", dbPath)
	}

	factory := func(req models.HarvestRequest) (*harvest.Harvester, error) {
		return buildHarvester(cfg, req.Letters, req.Concurrency, pageCache)
	}

	startTime := time.Now()
	router := api.NewRouter(factory, st, cfg, startTime)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("aeroharvest stopped")
	return nil
}
