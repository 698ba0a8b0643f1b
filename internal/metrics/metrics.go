// Package metrics holds the Prometheus collectors for upstream calls and the gateway.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the kasgo collectors.
	Registry = prometheus.NewRegistry()

	upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kasgo",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total number of calls made to the remote API service.",
		},
		[]string{"op", "status"},
	)

	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kasgo",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Duration of calls made to the remote API service, retries included.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		[]string{"op"},
	)

	upstreamRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kasgo",
			Subsystem: "upstream",
			Name:      "retries_total",
			Help:      "Total number of retried upstream attempts.",
		},
		[]string{"op"},
	)

	gatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kasgo",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled by the gateway.",
		},
		[]string{"method", "path", "status"},
	)

	gatewayDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kasgo",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests handled by the gateway.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"method", "path"},
	)

	archivedTransfers = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kasgo",
			Subsystem: "archive",
			Name:      "transfers_inserted_total",
			Help:      "Total number of transfer records written to the archive.",
		},
	)
)

func init() {
	Registry.MustRegister(
		upstreamRequests,
		upstreamDuration,
		upstreamRetries,
		gatewayRequests,
		gatewayDuration,
		archivedTransfers,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveUpstream records one finished upstream call. status is the HTTP
// status code, or 0 when no response arrived.
func ObserveUpstream(op string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	upstreamRequests.WithLabelValues(op, label).Inc()
	upstreamDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveRetry counts one retried upstream attempt.
func ObserveRetry(op string) {
	upstreamRetries.WithLabelValues(op).Inc()
}

// ObserveArchived counts transfer records written to the archive.
func ObserveArchived(n int64) {
	if n > 0 {
		archivedTransfers.Add(float64(n))
	}
}

// GinMiddleware records gateway request counts and latency per route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		gatewayRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		gatewayDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
