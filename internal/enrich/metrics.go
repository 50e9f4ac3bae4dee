package enrich

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// runsTotal tracks completed enrichment runs by outcome.
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "enrichment_runs_total",
		Help: "Total number of order-enrichment runs by outcome",
	}, []string{"outcome"}) // outcome: success, error

	// runDuration tracks end-to-end run time including all collaborator fetches.
	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "enrichment_run_duration_seconds",
		Help:    "Time taken for a full order-enrichment run",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	})

	// ordersProcessed tracks classified orders by disposition.
	ordersProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "enrichment_orders_total",
		Help: "Total number of classified orders by disposition",
	}, []string{"disposition"}) // disposition: kept, rejected, return

	// degradedRecords tracks orders enriched from defaulted catalog data.
	degradedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enrichment_degraded_records_total",
		Help: "Total number of orders enriched with defaulted catalog metadata",
	})

	// pagesFetched tracks the order pages walked per run.
	pagesFetched = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "enrichment_order_pages_fetched",
		Help:    "Number of order pages fetched per run",
		Buckets: []float64{1, 2, 5, 10, 20, 50},
	})

	// cacheRequests tracks snapshot cache lookups by result.
	cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "enrichment_cache_requests_total",
		Help: "Total number of snapshot cache lookups by result",
	}, []string{"result"}) // result: hit, miss, stale
)
