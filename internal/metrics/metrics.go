// Package metrics provides Prometheus metrics for the PokePrice backend.
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

	// Card Lookup Metrics
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tcg_lookups_total",
			Help: "Total card lookups by result",
		},
		[]string{"result"}, // "found", "not_found", "error", "cache"
	)

	LookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tcg_lookup_duration_seconds",
			Help:    "Pokemon TCG API lookup latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	LookupCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tcg_lookup_cache_hits_total",
			Help: "Lookup cache hit count by tier",
		},
		[]string{"tier"}, // "memory", "sqlite"
	)

	LookupCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tcg_lookup_cache_misses_total",
			Help: "Lookup cache miss count",
		},
	)

	// Scan Metrics
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tcg_scans_total",
			Help: "Scans by trigger and the overlay state they ended in",
		},
		[]string{"trigger", "result"}, // result: "result_shown", "manual_input_needed", ...
	)

	// Overlay Metrics
	OverlayTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tcg_overlay_transitions_total",
			Help: "Overlay state transitions",
		},
		[]string{"from", "to"},
	)

	OverlayStaleResultsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tcg_overlay_stale_results_total",
			Help: "Lookup results discarded because a newer search started",
		},
	)

	OverlaySessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tcg_overlay_sessions_active",
			Help: "Number of live overlay sessions",
		},
	)

	ChartRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tcg_chart_renders_total",
			Help: "Trend charts rendered by range",
		},
		[]string{"range"},
	)

	// Cache Database Metrics
	CachedCardsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tcg_cached_cards_total",
			Help: "Number of card lookups held in the SQLite cache",
		},
	)
)
