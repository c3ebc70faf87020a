// Package metrics defines the service's Prometheus collectors and the HTTP
// instrumentation middleware. Collectors are registered on the default
// registry via promauto and exposed at /metrics with promhttp.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts requests by route pattern, method and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total HTTP requests processed, labeled by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPDuration observes request latency per route pattern.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// CatalogFetches counts catalog source fetches by source kind and outcome.
	CatalogFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_source_fetches_total",
			Help: "Catalog dataset fetches, labeled by source and outcome.",
		},
		[]string{"source", "outcome"},
	)

	// SnapshotCacheHits counts snapshot cache hits.
	SnapshotCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_snapshot_cache_hits_total",
		Help: "Catalog snapshot cache hits.",
	})

	// SnapshotCacheMisses counts snapshot cache misses (absent or expired).
	SnapshotCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_snapshot_cache_misses_total",
		Help: "Catalog snapshot cache misses.",
	})

	// Suggestions counts suggestion requests by sort strategy and cold-start.
	Suggestions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_suggestions_total",
			Help: "Suggestion computations, labeled by sort strategy and cold_start.",
		},
		[]string{"strategy", "cold_start"},
	)
)

// Middleware records request counts and latency. It must run inside the chi
// router so the matched route pattern is available.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
