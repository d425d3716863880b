// Package metrics provides Prometheus metrics for drive storage accounts.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Folder cache metrics
	folderCacheRebuildsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "drivestorage_folder_cache_rebuilds_total",
			Help: "Total number of folder cache builds",
		},
	)

	folderCacheRebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "drivestorage_folder_cache_rebuild_duration_seconds",
			Help:    "Time to list every folder of an account",
			Buckets: prometheus.DefBuckets,
		},
	)

	folderCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "drivestorage_folder_cache_size",
			Help: "Number of folders in the most recently built folder cache",
		},
	)

	// Path resolution metrics
	resolveFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drivestorage_resolve_failures_total",
			Help: "Total paths that could not be verified after a folder cache rebuild",
		},
		[]string{"cause"},
	)

	// Remote metrics
	remoteErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drivestorage_remote_errors_total",
			Help: "Total failed remote calls",
		},
		[]string{"kind"},
	)

	authInvalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drivestorage_auth_invalidations_total",
			Help: "Total account invalidations caused by authorization failures",
		},
		[]string{"scope"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordFolderCacheRebuild records a successful folder cache build.
func RecordFolderCacheRebuild(duration time.Duration, size int) {
	folderCacheRebuildsTotal.Inc()
	folderCacheRebuildDuration.Observe(duration.Seconds())
	folderCacheSize.Set(float64(size))
}

// RecordResolveFailure records a path that failed verification, labelled by cause.
func RecordResolveFailure(cause string) {
	resolveFailuresTotal.WithLabelValues(cause).Inc()
}

// RecordRemoteError records a failed remote call, labelled by kind.
func RecordRemoteError(kind string) {
	remoteErrorsTotal.WithLabelValues(kind).Inc()
}

// RecordAuthInvalidation records forgotten accounts. scope is "account" or "all".
func RecordAuthInvalidation(scope string) {
	authInvalidationsTotal.WithLabelValues(scope).Inc()
}
