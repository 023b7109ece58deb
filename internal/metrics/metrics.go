package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LinesIngestedTotal tracks extracted price lines processed by outcome
	LinesIngestedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricelens_lines_ingested_total",
		Help: "Total number of ingested price lines by outcome",
	}, []string{"outcome"})

	// CatalogProductsCreatedTotal tracks new canonical catalog entries
	CatalogProductsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricelens_catalog_products_created_total",
		Help: "Total number of canonical products created from unmatched lines",
	})

	// BetterDealsFoundTotal tracks flagged cheaper alternative suppliers
	BetterDealsFoundTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricelens_better_deals_found_total",
		Help: "Total number of better deals flagged in comparison reports",
	})

	// LineProcessingSeconds tracks per-line match/ingest latency
	LineProcessingSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricelens_line_processing_seconds",
		Help:    "Time spent matching and recording one price line",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	// HTTPRequestsTotal tracks HTTP requests by path and status code
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricelens_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"path", "code"})
)

// RecordLineOutcome increments the ingest counter for an outcome
func RecordLineOutcome(outcome string) {
	LinesIngestedTotal.WithLabelValues(outcome).Inc()
}

// RecordProductCreated increments the catalog creation counter
func RecordProductCreated() {
	CatalogProductsCreatedTotal.Inc()
}

// RecordBetterDeals adds flagged deals to the counter
func RecordBetterDeals(count int) {
	BetterDealsFoundTotal.Add(float64(count))
}

// ObserveLineProcessing records one line's processing duration in seconds
func ObserveLineProcessing(seconds float64) {
	LineProcessingSeconds.Observe(seconds)
}

// RecordHTTPRequest increments the HTTP request counter
func RecordHTTPRequest(path, code string) {
	HTTPRequestsTotal.WithLabelValues(path, code).Inc()
}
