// Package metrics provides Prometheus metrics for the TCG Portfolio service.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tcg_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tcg_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tcg_rate_limited_total",
			Help: "Requests rejected by the per-user rate limiter",
		},
		[]string{"path"},
	)

	// Scan Metrics
	ScanResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tcg_scan_results_total",
			Help: "Card identification outcomes",
		},
		[]string{"outcome"}, // "matched", "ambiguous", "no_match", "empty"
	)

	ScanConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tcg_scan_confidence",
			Help:    "Top candidate similarity score per scan",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	// Pre-grade Metrics
	PreGradesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tcg_pregrades_total",
			Help: "Total number of pre-grade estimates produced",
		},
	)

	PreGradePSA = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tcg_pregrade_psa_grade",
			Help:    "Distribution of estimated PSA grades",
			Buckets: []float64{6, 7, 8, 9, 10},
		},
	)

	// ROI Metrics
	ROIComputationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tcg_roi_computations_total",
			Help: "ROI computations by result",
		},
		[]string{"result"}, // "processed", "skipped", "error"
	)

	ROIBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tcg_roi_batch_duration_seconds",
			Help:    "Time taken to recompute ROI for the whole catalog",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// Price Metrics
	PriceUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tcg_price_updates_total",
			Help: "Total number of card price snapshots written",
		},
	)

	PriceBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tcg_price_batch_duration_seconds",
			Help:    "Time taken to process a price ingestion batch",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// Trade Metrics
	TradeMatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tcg_trade_matches_total",
			Help: "Trade matches returned by match type",
		},
		[]string{"match_type"},
	)

	// Collection Metrics
	CollectionValueUSD = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tcg_collection_value_usd",
			Help: "Most recently computed portfolio value in USD",
		},
	)

	CardDatabaseSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tcg_card_database_size",
			Help: "Number of cards in the catalog",
		},
	)
)
