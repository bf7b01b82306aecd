package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNormalizePath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/products/65f1c0ffee0000000000abcd", "/products/:id"},
		{"/products/filter", "/products/filter"},
		{"/variants/65F1C0FFEE0000000000ABCD/extra", "/variants/:id/extra"},
		{"/orders/export/csv", "/orders/export/csv"},
		{"/products/65f1c0ffee0000000000abc", "/products/65f1c0ffee0000000000abc"},
	}
	for _, tc := range cases {
		if got := NormalizePath(tc.in); got != tc.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRegistryHandler(t *testing.T) {
	reg := NewRegistry()
	RecordHTTPMetrics(http.MethodGet, "/products/65f1c0ffee0000000000abcd", http.StatusOK, 10*time.Millisecond)
	RecordStoreOperation("products", "find_one", OutcomeSuccess, time.Millisecond)
	RecordEventPublished("order.created", OutcomeSuccess)

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	text := string(body)

	for _, want := range []string{
		`http_requests_total{method="GET",path="/products/:id",status="200"}`,
		`store_operations_total{collection="products",operation="find_one",outcome="success"}`,
		`events_published_total{outcome="success",type="order.created"}`,
		"go_goroutines",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
