package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExternalRequests counts calls to upstream services by outcome (ok, error, not_found).
	ExternalRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "georoute_external_requests_total",
		Help: "Requests issued to external geocoding, map and routing services",
	}, []string{"service", "outcome"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "georoute_cache_lookups_total",
		Help: "Memo and persistent cache lookups by result (hit, miss)",
	}, []string{"cache", "result"})

	// Failures counts operations that degraded to a failed result instead of returning a value.
	Failures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "georoute_failures_total",
		Help: "Operations that returned a failed result",
	}, []string{"op"})

	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "georoute_operation_duration_seconds",
		Help:    "Duration of timed operations",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"op"})
)

// Lookup records a cache hit or miss.
func Lookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(cache, result).Inc()
}
