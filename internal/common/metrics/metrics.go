// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_http_requests_total",
			Help: "Total number of HTTP requests handled by the API",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "api_http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"method", "path"},
	)

	ROICalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roi_calculations_total",
			Help: "Total number of ROI calculations performed",
		},
		[]string{"trigger"},
	)

	RateCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_cache_hits_total",
			Help: "Total number of global rate lookups served from cache",
		},
	)

	RateCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_cache_misses_total",
			Help: "Total number of global rate lookups that hit the store",
		},
	)
)
