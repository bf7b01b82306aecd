package gin

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nimburion/storefront/pkg/server/router"
	"github.com/nimburion/storefront/pkg/server/router/contract"
)

func TestRouterContract(t *testing.T) {
	contract.TestRouterContract(t, func() router.Router {
		return NewRouter()
	})
}

func TestGroupPreflightUsesGlobalMiddleware(t *testing.T) {
	r := NewRouter()
	r.Use(func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			c.Response().Header().Set("X-Stack", "global")
			return next(c)
		}
	})
	products := r.Group("/products")
	products.GET("/:id", func(c router.Context) error {
		return c.String(http.StatusOK, c.Param("id"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/products/abc", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("X-Stack") != "global" {
		t.Fatalf("expected global middleware on preflight")
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/abc", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "abc" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}

func TestUnhandledErrorBecomes500(t *testing.T) {
	r := NewRouter()
	r.DELETE("/orders/:id", func(c router.Context) error {
		return errors.New("boom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/orders/1", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
