package document

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/nimburion/storefront/pkg/observability/metrics"
)

func TestInstrumentedExecutor_RecordsSpansAndMetrics(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	reg := metrics.NewRegistry()
	exec := NewInstrumentedExecutor(NewMemoryExecutor(), "memory")
	ctx := context.Background()

	if _, err := exec.InsertOne(ctx, "widgets", Document{"name": "w"}); err != nil {
		t.Fatalf("InsertOne: %v", err)
	}
	var out Document
	if err := exec.FindOne(ctx, "widgets", Filter{"name": "missing"}, &out); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if len(rec.Ended()) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(rec.Ended()))
	}
	if got := rec.Ended()[0].Name(); got != "DB insert_one widgets" {
		t.Errorf("span name = %q", got)
	}

	w := httptest.NewRecorder()
	reg.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(w.Body)
	for _, want := range []string{
		`store_operations_total{collection="widgets",operation="insert_one",outcome="success"} 1`,
		`store_operations_total{collection="widgets",operation="find_one",outcome="not_found"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("missing %s", want)
		}
	}
}
