package timeout

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nimburion/storefront/pkg/server/router"
	ginadapter "github.com/nimburion/storefront/pkg/server/router/gin"
)

func TestTimeout(t *testing.T) {
	r := ginadapter.NewRouter()
	r.Use(Middleware(Config{Timeout: 20 * time.Millisecond, ExcludedPathPrefixes: []string{"/export"}}))

	blocking := func(c router.Context) error {
		<-c.Request().Context().Done()
		return c.Request().Context().Err()
	}
	r.GET("/slow", blocking)
	r.GET("/fast", func(c router.Context) error {
		if _, ok := c.Request().Context().Deadline(); !ok {
			t.Error("expected deadline on request context")
		}
		return c.String(http.StatusOK, "ok")
	})
	r.GET("/export", func(c router.Context) error {
		if _, ok := c.Request().Context().Deadline(); ok {
			t.Error("excluded path must not get a deadline")
		}
		return c.String(http.StatusOK, "ok")
	})

	for path, want := range map[string]int{"/slow": http.StatusGatewayTimeout, "/fast": http.StatusOK, "/export": http.StatusOK} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != want {
			t.Errorf("%s: status = %d, want %d", path, rec.Code, want)
		}
	}
}

func TestTimeout_Disabled(t *testing.T) {
	r := ginadapter.NewRouter()
	r.Use(Middleware(Config{}))
	r.GET("/x", func(c router.Context) error {
		if _, ok := c.Request().Context().Deadline(); ok {
			t.Error("disabled middleware must not set a deadline")
		}
		return c.String(http.StatusOK, "ok")
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
