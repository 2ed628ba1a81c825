package main

import (
	"fmt"

	"github.com/use-agent/aeroharvest/cache"
	"github.com/use-agent/aeroharvest/config"
	"github.com/use-agent/aeroharvest/engine"
	"github.com/use-agent/aeroharvest/extract"
	"github.com/use-agent/aeroharvest/harvest"
	"github.com/use-agent/aeroharvest/models"
)

// buildHarvester assembles the fetch/extract/map pipeline from config.
// letters and concurrency override the config when non-zero; pageCache may
// be nil for one-shot runs.
func buildHarvester(cfg *config.Config, letters []string, concurrency int, pageCache *cache.Cache) (*harvest.Harvester, error) {
	if err := cfg.Site.Validate(); err != nil {
		return nil, fmt.Errorf("invalid site config: %w", err)
	}

	httpCfg := engine.DefaultHTTPConfig()
	httpCfg.Timeout = cfg.Engine.Timeout
	httpCfg.Retries = cfg.Engine.Retries
	httpCfg.RequestsPerSecond = cfg.Engine.RequestsPerSecond
	httpCfg.ChromeTLS = cfg.Engine.ChromeTLS
	httpCfg.CacheTTL = cfg.Cache.TTL
	if cfg.Engine.UserAgent != "" {
		httpCfg.UserAgent = cfg.Engine.UserAgent
	}
	fetcher := engine.NewHTTPEngine(httpCfg, pageCache)

	extractor, err := extract.New(extract.Selectors{
		IndexMarker:       cfg.Site.IndexMarkerSelector,
		DetailField:       cfg.Site.DetailFieldSelector,
		VisitWebsiteLabel: cfg.Site.VisitWebsiteLabel,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid selectors: %w", err)
	}

	if letters == nil {
		letters = cfg.Site.Letters
	}
	if concurrency == 0 {
		concurrency = cfg.Harvest.Concurrency
	}

	return harvest.New(fetcher, extractor, models.DefaultSchema(), harvest.Options{
		BaseURL:     cfg.Site.BaseURL,
		SeedPath:    cfg.Site.SeedPath,
		Letters:     letters,
		Concurrency: concurrency,
	})
}
