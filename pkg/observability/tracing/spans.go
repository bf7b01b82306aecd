package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartStoreSpan starts a client span for a document store call.
func StartStoreSpan(ctx context.Context, system, collection, operation string) (context.Context, trace.Span) {
	ctx, span := otel.Tracer("store").Start(ctx,
		fmt.Sprintf("DB %s %s", operation, collection),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	span.SetAttributes(
		attribute.String("db.system", system),
		attribute.String("db.collection", collection),
		attribute.String("db.operation", operation),
	)
	return ctx, span
}

// StartPublishSpan starts a producer span for an outgoing message.
func StartPublishSpan(ctx context.Context, system, destination, messageID string) (context.Context, trace.Span) {
	ctx, span := otel.Tracer("messaging").Start(ctx,
		"MSG publish "+destination,
		trace.WithSpanKind(trace.SpanKindProducer),
	)
	span.SetAttributes(
		attribute.String("messaging.system", system),
		attribute.String("messaging.destination", destination),
		attribute.String("messaging.message_id", messageID),
	)
	return ctx, span
}

// RecordError marks the span as failed.
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// RecordSuccess sets the span status to OK.
func RecordSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}
