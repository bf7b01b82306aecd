package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Store operation outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	// OutcomeSkipped marks an event dropped without contacting the broker.
	OutcomeSkipped = "skipped"
)

var (
	storeOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Document store operation duration in seconds",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"collection", "operation"},
	)

	storeOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total number of document store operations",
		},
		[]string{"collection", "operation", "outcome"},
	)

	eventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Domain events handed to the event bus",
		},
		[]string{"type", "outcome"},
	)
)

// RecordStoreOperation records one document store call.
func RecordStoreOperation(collection, operation, outcome string, duration time.Duration) {
	storeOperationDuration.WithLabelValues(collection, operation).Observe(duration.Seconds())
	storeOperationsTotal.WithLabelValues(collection, operation, outcome).Inc()
}

// RecordEventPublished records one publication attempt.
func RecordEventPublished(eventType, outcome string) {
	eventsPublishedTotal.WithLabelValues(eventType, outcome).Inc()
}
