// Package kafka publishes event bus messages to Apache Kafka.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/nimburion/storefront/pkg/eventbus"
	"github.com/nimburion/storefront/pkg/observability/logger"
	"github.com/nimburion/storefront/pkg/observability/tracing"
)

// ErrClosed is returned when publishing through a closed producer.
var ErrClosed = errors.New("kafka producer is closed")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config holds the configuration for the Kafka producer.
type Config struct {
	// Brokers is the list of broker addresses, e.g. ["localhost:9092"].
	Brokers          []string
	OperationTimeout time.Duration
	MaxAttempts      int
}

// Producer implements eventbus.Producer on a kafka-go Writer.
type Producer struct {
	writer  messageWriter
	brokers []string
	timeout time.Duration
	logger  logger.Logger
	mu      sync.RWMutex
	closed  bool
}

// NewProducer builds a synchronous producer that hashes message keys to partitions.
func NewProducer(cfg Config, log logger.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker address is required")
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 10 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		MaxAttempts:            cfg.MaxAttempts,
		WriteTimeout:           cfg.OperationTimeout,
		ReadTimeout:            cfg.OperationTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	log.Info("kafka producer initialized", "brokers", cfg.Brokers, "operation_timeout", cfg.OperationTimeout)

	return newProducer(writer, cfg.Brokers, cfg.OperationTimeout, log), nil
}

func newProducer(w messageWriter, brokers []string, timeout time.Duration, log logger.Logger) *Producer {
	return &Producer{writer: w, brokers: brokers, timeout: timeout, logger: log}
}

func (p *Producer) Publish(ctx context.Context, topic string, message *eventbus.Message) error {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	ctx, span := tracing.StartPublishSpan(ctx, "kafka", topic, message.ID)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic:   topic,
		Key:     []byte(message.Key),
		Value:   message.Value,
		Headers: convertHeaders(message),
		Time:    message.Timestamp,
	})
	if err != nil {
		tracing.RecordError(span, err)
		p.logger.Error("failed to publish message", "topic", topic, "message_id", message.ID, "error", err)
		return fmt.Errorf("failed to publish message to topic %s: %w", topic, err)
	}
	tracing.RecordSuccess(span)

	p.logger.Debug("message published", "topic", topic, "message_id", message.ID, "key", message.Key)
	return nil
}

// HealthCheck dials the first broker and fetches cluster metadata.
func (p *Producer) HealthCheck(ctx context.Context) error {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to kafka broker: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Brokers(); err != nil {
		return fmt.Errorf("failed to fetch broker metadata: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}
	p.logger.Info("kafka producer closed")
	return nil
}

func convertHeaders(message *eventbus.Message) []kafka.Header {
	headers := make([]kafka.Header, 0, len(message.Headers)+2)
	for key, value := range message.Headers {
		headers = append(headers, kafka.Header{Key: key, Value: []byte(value)})
	}
	headers = append(headers, kafka.Header{Key: "message_id", Value: []byte(message.ID)})
	if message.ContentType != "" {
		headers = append(headers, kafka.Header{Key: "content_type", Value: []byte(message.ContentType)})
	}
	return headers
}
