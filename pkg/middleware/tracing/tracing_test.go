package tracing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/nimburion/storefront/pkg/middleware/requestid"
	"github.com/nimburion/storefront/pkg/server/router"
	ginadapter "github.com/nimburion/storefront/pkg/server/router/gin"
)

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
	return rec
}

func TestTracing_CreatesServerSpan(t *testing.T) {
	spans := setupRecorder(t)

	r := ginadapter.NewRouter()
	r.Use(requestid.RequestID(), Tracing(Config{ExcludedPathPrefixes: []string{"/health"}}))

	var inner trace.SpanContext
	r.GET("/products/:id", func(c router.Context) error {
		inner = trace.SpanContextFromContext(c.Request().Context())
		return c.String(http.StatusOK, "ok")
	})
	r.GET("/health", func(c router.Context) error { return c.String(http.StatusOK, "ok") })
	r.GET("/broken", func(c router.Context) error { return c.String(http.StatusServiceUnavailable, "down") })

	req := httptest.NewRequest(http.MethodGet, "/products/65f1c0ffee0000000000abcd", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/broken", nil))

	ended := spans.Ended()
	if len(ended) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(ended))
	}

	first := ended[0]
	if first.Name() != "HTTP GET /products/:id" {
		t.Errorf("span name = %q", first.Name())
	}
	if first.SpanKind() != trace.SpanKindServer {
		t.Errorf("span kind = %v", first.SpanKind())
	}
	if got := first.SpanContext().TraceID().String(); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("trace id not propagated: %s", got)
	}
	if !inner.IsValid() || inner.SpanID() != first.SpanContext().SpanID() {
		t.Error("handler context does not carry the server span")
	}
	var hasRequestID bool
	for _, kv := range first.Attributes() {
		if kv.Key == attribute.Key("request.id") && kv.Value.AsString() != "" {
			hasRequestID = true
		}
	}
	if !hasRequestID {
		t.Error("expected request.id attribute")
	}

	if ended[1].Status().Code != codes.Error {
		t.Errorf("5xx span status = %v, want error", ended[1].Status().Code)
	}
}
