package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Company API and page cache metrics.
var (
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "compdex",
			Name:      "api_requests_total",
			Help:      "Total number of company API requests",
		},
		[]string{"status"}, // "success" / "error"
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "compdex",
			Name:      "api_request_duration_seconds",
			Help:      "Company API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"status"},
	)

	APIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "compdex",
			Name:      "api_errors_total",
			Help:      "Total company API errors",
		},
		[]string{"error_type"}, // "http_status" / "network" / "decode"
	)

	SearchOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "compdex",
			Name:      "search_outcomes_total",
			Help:      "Search runs by outcome",
		},
		[]string{"outcome"}, // "complete" / "partial" / "empty" / "transport_error" / "error"
	)

	ExportedRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "compdex",
			Name:      "exported_rows_total",
			Help:      "Rows handed to export sinks",
		},
		[]string{"sink"},
	)

	PageCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "compdex",
			Name:      "page_cache_total",
			Help:      "Result page cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registerAPIOnce sync.Once

// RegisterAPIMetrics registers the company API metrics on the default registry.
// Safe to call more than once.
func RegisterAPIMetrics() {
	registerAPIOnce.Do(func() {
		prometheus.MustRegister(
			APIRequestsTotal,
			APIRequestDuration,
			APIErrorsTotal,
			SearchOutcomesTotal,
			ExportedRowsTotal,
			PageCacheTotal,
		)
	})
}
