package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	obsmetrics "github.com/nimburion/storefront/pkg/observability/metrics"
	"github.com/nimburion/storefront/pkg/server/router"
	ginadapter "github.com/nimburion/storefront/pkg/server/router/gin"
)

func TestMetrics_RecordsNormalizedPath(t *testing.T) {
	reg := obsmetrics.NewRegistry()

	r := ginadapter.NewRouter()
	r.Use(Metrics())
	r.GET("/metrics-test/:id", func(c router.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics-fail", func(c router.Context) error {
		return errors.New("boom")
	})

	for _, path := range []string{"/metrics-test/65f1c0ffee0000000000abcd", "/metrics-fail"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`http_requests_total{method="GET",path="/metrics-test/:id",status="200"}`,
		`http_requests_total{method="GET",path="/metrics-fail",status="500"}`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("missing %s", want)
		}
	}
}
