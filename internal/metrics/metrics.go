package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_search_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "file_search_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "file_search_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Store metrics
var (
	StoreQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_search_store_queries_total",
			Help: "Total number of folder store queries",
		},
		[]string{"operation", "status"},
	)

	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "file_search_store_query_duration_seconds",
			Help:    "Folder store query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	StoreRowsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "file_search_store_rows_written_total",
			Help: "Total number of records written to folder stores",
		},
	)
)

// Catalog metrics
var (
	CatalogFolders = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "file_search_catalog_folders",
			Help: "Number of root folders currently registered in the catalog",
		},
	)
)

// Rebuild metrics
var (
	RebuildRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "file_search_rebuild_runs_total",
			Help: "Total number of folder rebuild runs",
		},
	)

	RebuildLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "file_search_rebuild_last_run_timestamp",
			Help: "Timestamp of the last completed rebuild",
		},
	)

	RebuildLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "file_search_rebuild_last_run_duration_seconds",
			Help: "Duration of the last completed rebuild in seconds",
		},
	)

	RebuildEntriesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "file_search_rebuild_entries_processed_total",
			Help: "Total number of filesystem entries processed by rebuilds",
		},
	)

	RebuildErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "file_search_rebuild_errors_total",
			Help: "Total number of rebuild errors",
		},
	)

	RebuildIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "file_search_rebuild_running",
			Help: "Whether a rebuild is currently running (1 = running, 0 = idle)",
		},
	)
)

// Search metrics
var (
	SearchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "file_search_searches_total",
			Help: "Total number of search invocations",
		},
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "file_search_search_duration_seconds",
			Help:    "End-to-end search duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SearchCancellations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "file_search_search_cancellations_total",
			Help: "Total number of searches that observed cancellation",
		},
	)

	SearchStoreErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "file_search_search_store_errors_total",
			Help: "Total number of per-store failures during searches",
		},
	)

	SearchFanoutWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "file_search_search_fanout_workers",
			Help: "Configured worker cap for concurrent store fan-out",
		},
	)
)
