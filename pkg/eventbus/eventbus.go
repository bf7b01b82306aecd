// Package eventbus defines the message model and producer contract used to
// publish domain events.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HeaderEventType carries the event type on every message.
const HeaderEventType = "event_type"

// Producer publishes messages to topics.
type Producer interface {
	Publish(ctx context.Context, topic string, message *Message) error
	// Close flushes pending messages and releases connections.
	Close() error
}

// Message is a broker-agnostic message.
type Message struct {
	ID string
	// Key selects the partition; messages sharing a key keep their order.
	Key         string
	Value       []byte
	Headers     map[string]string
	ContentType string
	Timestamp   time.Time
}

// NewJSONMessage encodes payload as JSON and stamps a fresh ID and UTC timestamp.
func NewJSONMessage(eventType, key string, payload interface{}) (*Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", eventType, err)
	}
	return &Message{
		ID:          uuid.NewString(),
		Key:         key,
		Value:       value,
		Headers:     map[string]string{HeaderEventType: eventType},
		ContentType: "application/json",
		Timestamp:   time.Now().UTC(),
	}, nil
}

// NopProducer discards every message. It is used when no broker is configured.
type NopProducer struct{}

func (NopProducer) Publish(context.Context, string, *Message) error { return nil }
func (NopProducer) Close() error                                   { return nil }
