package metrics

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)
)

// objectIDSegment matches a path segment holding a document identifier.
var objectIDSegment = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// RecordHTTPMetrics records duration and count for one request.
func RecordHTTPMetrics(method, path string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	path = NormalizePath(path)
	httpRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration.Seconds())
	httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
}

// NormalizePath replaces identifier segments with ":id" to keep label cardinality bounded.
func NormalizePath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if objectIDSegment.MatchString(p) {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

func IncrementInFlight() {
	httpRequestsInFlight.Inc()
}

func DecrementInFlight() {
	httpRequestsInFlight.Dec()
}
