package commerce

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nimburion/storefront/pkg/eventbus"
	"github.com/nimburion/storefront/pkg/observability/logger"
	"github.com/nimburion/storefront/pkg/observability/metrics"
	"github.com/nimburion/storefront/pkg/resilience"
)

// Order event types.
const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
	EventOrderDeleted = "order.deleted"
)

// OrderEvent is the JSON payload of an order event.
type OrderEvent struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	Order      *Order    `json:"order,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publishing stops for eventBreakerCoolDown after eventBreakerFailures
// consecutive failures, so a dead broker does not add its timeout to every
// order write.
const (
	eventBreakerFailures = 5
	eventBreakerCoolDown = 30 * time.Second
)

// OrderEvents publishes order lifecycle events. Publication is best-effort:
// failures are logged and counted but never returned. A nil *OrderEvents
// publishes nothing.
type OrderEvents struct {
	producer eventbus.Producer
	topic    string
	log      logger.Logger
	breaker  *resilience.CircuitBreaker
}

// NewOrderEvents publishes order events to topic behind a default circuit breaker.
func NewOrderEvents(producer eventbus.Producer, topic string, log logger.Logger) *OrderEvents {
	return &OrderEvents{
		producer: producer,
		topic:    topic,
		log:      log,
		breaker:  resilience.NewCircuitBreaker(eventBreakerFailures, eventBreakerCoolDown),
	}
}

// WithCircuitBreaker replaces the default breaker guarding the producer.
func (e *OrderEvents) WithCircuitBreaker(cb *resilience.CircuitBreaker) *OrderEvents {
	e.breaker = cb
	return e
}

func (e *OrderEvents) publish(ctx context.Context, eventType string, id primitive.ObjectID, order *Order) {
	if e == nil || e.producer == nil {
		return
	}

	msg, err := eventbus.NewJSONMessage(eventType, id.Hex(), OrderEvent{
		Type:       eventType,
		ID:         id.Hex(),
		Order:      order,
		OccurredAt: time.Now().UTC(),
	})
	if err == nil {
		err = e.breaker.Execute(func() error {
			return e.producer.Publish(ctx, e.topic, msg)
		})
	}
	if errors.Is(err, resilience.ErrCircuitOpen) {
		metrics.RecordEventPublished(eventType, metrics.OutcomeSkipped)
		e.log.WithContext(ctx).Debug("order event skipped, event bus unavailable",
			"event_type", eventType,
			"order", id.Hex(),
		)
		return
	}
	if err != nil {
		metrics.RecordEventPublished(eventType, metrics.OutcomeError)
		e.log.WithContext(ctx).Warn("order event not published",
			"event_type", eventType,
			"order", id.Hex(),
			"error", err,
		)
		return
	}
	metrics.RecordEventPublished(eventType, metrics.OutcomeSuccess)
}
