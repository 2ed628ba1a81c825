// Package metrics defines the Prometheus collectors shared by the engine,
// the harvester, and the API server. Collectors register once at import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesFetched counts fetched pages by kind ("index" or "detail").
	PagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aeroharvest_pages_fetched_total",
			Help: "Total number of pages fetched.",
		},
		[]string{"kind"},
	)

	// FetchDuration observes wall time per HTTP fetch, retries included.
	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aeroharvest_fetch_duration_seconds",
			Help:    "Duration of page fetches.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// RecordsHarvested counts airport records appended to the accumulator.
	RecordsHarvested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aeroharvest_records_total",
			Help: "Total number of airport records harvested.",
		},
	)

	// HarvestsTotal counts completed harvest runs by outcome.
	HarvestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aeroharvest_harvests_total",
			Help: "Total number of harvest runs.",
		},
		[]string{"status"},
	)
)
