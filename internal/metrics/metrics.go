package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the listing sync service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Upstream Metrics
	UpstreamRequestsTotal    *prometheus.CounterVec
	UpstreamRateLimitedTotal prometheus.Counter

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Sync Metrics
	SyncRunsTotal         *prometheus.CounterVec
	SyncJobDuration       *prometheus.HistogramVec
	ListingsUpsertedTotal prometheus.Counter
	ListingsFailedTotal   *prometheus.CounterVec
	ListingsArchivedTotal prometheus.Counter
}

// NewMetricsRegistry registers every metric on reg. Pass
// prometheus.DefaultRegisterer in production and a fresh
// prometheus.NewRegistry() in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listingsync_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "listingsync_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "listingsync_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		UpstreamRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listingsync_upstream_requests_total",
				Help: "Requests issued to the upstream listings API by endpoint and status code",
			},
			[]string{"endpoint", "status_code"},
		),
		UpstreamRateLimitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "listingsync_upstream_rate_limited_total",
				Help: "Upstream responses with HTTP 429",
			},
		),

		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listingsync_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listingsync_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		SyncRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listingsync_sync_runs_total",
				Help: "Sync runs by mode and outcome",
			},
			[]string{"mode", "status"},
		),
		SyncJobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "listingsync_sync_job_duration_seconds",
				Help:    "Sync job execution time in seconds",
				Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"mode"},
		),
		ListingsUpsertedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "listingsync_listings_upserted_total",
				Help: "Listings written to the local mirror",
			},
		),
		ListingsFailedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listingsync_listings_failed_total",
				Help: "Listings skipped because they failed to map or persist",
			},
			[]string{"stage"},
		),
		ListingsArchivedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "listingsync_listings_archived_total",
				Help: "Listings archived because they disappeared upstream",
			},
		),
	}
}
