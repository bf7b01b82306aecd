package eventbus

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestNewJSONMessage(t *testing.T) {
	before := time.Now().UTC()
	msg, err := NewJSONMessage("order.created", "abc", map[string]interface{}{"order_id": "o-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.ID == "" || msg.Key != "abc" || msg.ContentType != "application/json" {
		t.Fatalf("unexpected message %+v", msg)
	}
	if msg.Headers[HeaderEventType] != "order.created" {
		t.Errorf("event type header = %q", msg.Headers[HeaderEventType])
	}
	if msg.Timestamp.Before(before) || msg.Timestamp.Location() != time.UTC {
		t.Errorf("unexpected timestamp %v", msg.Timestamp)
	}
	var decoded map[string]string
	if err := json.Unmarshal(msg.Value, &decoded); err != nil || decoded["order_id"] != "o-1" {
		t.Fatalf("payload not JSON encoded: %s", msg.Value)
	}

	other, _ := NewJSONMessage("order.created", "abc", nil)
	if other.ID == msg.ID {
		t.Error("message IDs must be unique")
	}
}

func TestNewJSONMessage_EncodeError(t *testing.T) {
	if _, err := NewJSONMessage("x", "k", make(chan int)); err == nil {
		t.Fatal("expected encode error")
	}
}

func TestNopProducer(t *testing.T) {
	var p Producer = NopProducer{}
	if err := p.Publish(context.Background(), "t", &Message{}); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
}
