package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sitewalk"

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
)

// Progress store backend metrics
var (
	KVOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kv_operations_total",
			Help:      "Total number of progress store operations",
		},
		[]string{"backend", "op", "result"}, // result: "ok", "miss" or "error"
	)

	KVOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kv_operation_duration_seconds",
			Help:      "Progress store operation latency distribution",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"backend", "op"},
	)
)

// Business metrics
var (
	InspectionsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inspections_loaded_total",
			Help:      "Total number of inspection loads by source",
		},
		[]string{"source"}, // "stored", "seed" or "demo"
	)

	AreaStatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "area_status_changes_total",
			Help:      "Total number of area status changes by target status",
		},
		[]string{"status"},
	)

	MediaAttached = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_attached_total",
			Help:      "Total number of media files attached to areas",
		},
		[]string{"type"},
	)

	PersistenceFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "Total number of inspection writes that failed after the in-memory update",
		},
	)
)

// Upload metrics
var (
	MediaUploadBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "media_upload_bytes",
			Help:      "Size distribution of stored uploads",
			Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 8), // 16KB .. 256MB
		},
		[]string{"type"},
	)

	ThumbnailFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "thumbnail_failures_total",
			Help:      "Total number of photos stored without a thumbnail",
		},
	)
)
