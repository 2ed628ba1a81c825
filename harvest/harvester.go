// Package harvest drives the two-tier crawl: 26 alphabetical index pages,
// each fanning out into the detail pages it links, each detail page mapped
// into one airport record. The crawl is a tree of awaited batches: an index
// page's handler does not return until every detail page it discovered has
// been processed, and the run does not finish until every index handler has
// returned. The first hard failure cancels everything in flight.
package harvest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/use-agent/aeroharvest/engine"
	"github.com/use-agent/aeroharvest/extract"
	"github.com/use-agent/aeroharvest/metrics"
	"github.com/use-agent/aeroharvest/models"
)

// DefaultSeedPath is the index page path template, parameterized by letter.
const DefaultSeedPath = "/alphabetical/airport-code/%s.html"

// Options configures a harvest run.
type Options struct {
	// BaseURL is the site root, e.g. "https://www.world-airport-codes.com".
	BaseURL string

	// SeedPath is the index page path template with one %s for the letter.
	SeedPath string

	// Letters are the index pages to crawl. Empty means a..z.
	Letters []string

	// Concurrency caps parallel page fetches at each fan-out level.
	Concurrency int
}

// Result is the outcome of a completed harvest.
type Result struct {
	Records []models.AirportRecord
	Elapsed time.Duration
	Pages   int
}

// JSON serializes the record array in schema field order.
func (r *Result) JSON() ([]byte, error) {
	return json.MarshalIndent(r.Records, "", "  ")
}

// Harvester runs the crawl against a Fetcher.
type Harvester struct {
	fetcher     engine.Fetcher
	extractor   *extract.Extractor
	schema      models.Schema
	base        *url.URL
	seedPath    string
	letters     []string
	concurrency int
}

// New validates the options and builds a Harvester.
func New(fetcher engine.Fetcher, extractor *extract.Extractor, schema models.Schema, opts Options) (*Harvester, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("harvest: parse base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("harvest: base URL %q must be absolute", opts.BaseURL)
	}

	seedPath := opts.SeedPath
	if seedPath == "" {
		seedPath = DefaultSeedPath
	}

	letters := opts.Letters
	if len(letters) == 0 {
		for c := 'a'; c <= 'z'; c++ {
			letters = append(letters, string(c))
		}
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	return &Harvester{
		fetcher:     fetcher,
		extractor:   extractor,
		schema:      schema,
		base:        base,
		seedPath:    seedPath,
		letters:     letters,
		concurrency: concurrency,
	}, nil
}

// Run crawls every index page and all of their detail pages, returning the
// accumulated records. On any hard failure (transport retries exhausted,
// record mapping mismatch) the whole run fails and accumulated records are
// discarded; there is no partial-result contract.
func (h *Harvester) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	acc := NewAccumulator()
	var pages atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(h.concurrency)
	for _, letter := range h.letters {
		letter := letter
		g.Go(func() error {
			return h.harvestIndex(ctx, letter, acc, &pages)
		})
	}

	if err := g.Wait(); err != nil {
		metrics.HarvestsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	elapsed := time.Since(start)
	metrics.HarvestsTotal.WithLabelValues("completed").Inc()
	slog.Info("harvest complete",
		"records", acc.Len(),
		"pages", pages.Load(),
		"elapsed", elapsed.Round(time.Millisecond),
	)

	return &Result{
		Records: acc.Snapshot(),
		Elapsed: elapsed,
		Pages:   int(pages.Load()),
	}, nil
}

// harvestIndex fetches one index page, discovers its detail links, and
// drives the nested detail batch to completion before returning. Sibling
// index pages run independently; this one's detail pages are its own
// barrier.
func (h *Harvester) harvestIndex(ctx context.Context, letter string, acc *Accumulator, pages *atomic.Int64) error {
	seed, err := h.base.Parse(fmt.Sprintf(h.seedPath, letter))
	if err != nil {
		return fmt.Errorf("harvest: build seed URL for %q: %w", letter, err)
	}

	page, err := h.fetcher.Fetch(ctx, seed.String())
	if err != nil {
		return err
	}
	pages.Add(1)
	metrics.PagesFetched.WithLabelValues("index").Inc()

	doc, err := page.Document()
	if err != nil {
		return models.NewHarvestError(models.ErrCodeParse, fmt.Sprintf("parse %s", seed), err)
	}

	links := h.extractor.IndexLinks(doc, seed)
	slog.Debug("index page processed", "letter", letter, "links", len(links))
	if len(links) == 0 {
		// A letter with no airports is a valid, empty index page.
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(h.concurrency)
	for _, link := range links {
		link := link
		g.Go(func() error {
			return h.harvestDetail(ctx, link, acc, pages)
		})
	}
	return g.Wait()
}

// harvestDetail fetches one detail page, extracts the positional field
// values, maps them onto the schema, and appends the record.
func (h *Harvester) harvestDetail(ctx context.Context, link string, acc *Accumulator, pages *atomic.Int64) error {
	page, err := h.fetcher.Fetch(ctx, link)
	if err != nil {
		return err
	}
	pages.Add(1)
	metrics.PagesFetched.WithLabelValues("detail").Inc()

	doc, err := page.Document()
	if err != nil {
		return models.NewHarvestError(models.ErrCodeParse, fmt.Sprintf("parse %s", link), err)
	}

	rec, err := h.schema.Map(h.extractor.DetailValues(doc))
	if err != nil {
		return fmt.Errorf("harvest: %s: %w", link, err)
	}

	acc.Append(*rec)
	metrics.RecordsHarvested.Inc()
	return nil
}
