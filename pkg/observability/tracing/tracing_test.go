package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), TracerConfig{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tp.Enabled() {
		t.Fatal("expected disabled provider")
	}
	if err := tp.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestNewTracerProvider_Validation(t *testing.T) {
	cases := []TracerConfig{
		{Enabled: true, Endpoint: "localhost:4317", SampleRate: 1},
		{Enabled: true, ServiceName: "storefront", SampleRate: 1},
		{Enabled: true, ServiceName: "storefront", Endpoint: "localhost:4317", SampleRate: 1.5},
	}
	for i, cfg := range cases {
		if _, err := NewTracerProvider(context.Background(), cfg); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func TestStartStoreSpan(t *testing.T) {
	rec := withRecorder(t)

	_, span := StartStoreSpan(context.Background(), "mongodb", "products", "find")
	RecordError(span, errors.New("boom"))
	span.End()

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "DB find products" {
		t.Errorf("unexpected span name %q", spans[0].Name())
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status().Code)
	}
}

func TestStartPublishSpan(t *testing.T) {
	rec := withRecorder(t)

	_, span := StartPublishSpan(context.Background(), "kafka", "storefront.orders", "evt-1")
	RecordSuccess(span)
	span.End()

	spans := rec.Ended()
	if len(spans) != 1 || spans[0].Name() != "MSG publish storefront.orders" {
		t.Fatalf("unexpected spans: %+v", spans)
	}
}
