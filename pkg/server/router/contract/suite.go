// Package contract holds the conformance suite every router adapter must pass.
package contract

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nimburion/storefront/pkg/server/router"
)

// TestRouterContract runs the shared router conformance suite.
func TestRouterContract(t *testing.T, createRouter func() router.Router) {
	t.Helper()

	t.Run("http_methods", func(t *testing.T) {
		r := createRouter()
		for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
			method := m
			h := func(c router.Context) error { return c.String(http.StatusOK, method) }
			switch method {
			case http.MethodGet:
				r.GET("/m", h)
			case http.MethodPost:
				r.POST("/m", h)
			case http.MethodPut:
				r.PUT("/m", h)
			case http.MethodDelete:
				r.DELETE("/m", h)
			case http.MethodPatch:
				r.PATCH("/m", h)
			}
		}
		for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
			res := performRequest(r, m, "/m", "", "")
			if res.Code != http.StatusOK || res.Body.String() != m {
				t.Fatalf("%s /m: got %d %q", m, res.Code, res.Body.String())
			}
		}
		if res := performRequest(r, http.MethodGet, "/missing", "", ""); res.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for unregistered route, got %d", res.Code)
		}
	})

	t.Run("static_and_param_siblings", func(t *testing.T) {
		r := createRouter()
		echo := func(label string) router.HandlerFunc {
			return func(c router.Context) error { return c.String(http.StatusOK, label+c.Param("id")) }
		}
		r.GET("/products/filter", echo("filter"))
		r.PUT("/products/bulk-update", echo("bulk"))
		r.GET("/orders/export/csv", echo("csv"))
		r.GET("/products/:id", echo("one:"))
		r.PUT("/products/:id", echo("put:"))
		r.GET("/orders/:id", echo("order:"))

		cases := map[string]string{
			http.MethodGet + " /products/filter":     "filter",
			http.MethodPut + " /products/bulk-update": "bulk",
			http.MethodGet + " /orders/export/csv":   "csv",
			http.MethodGet + " /products/abc":        "one:abc",
			http.MethodPut + " /products/abc":        "put:abc",
			http.MethodGet + " /orders/42":           "order:42",
		}
		for key, want := range cases {
			parts := strings.SplitN(key, " ", 2)
			res := performRequest(r, parts[0], parts[1], "", "")
			if res.Code != http.StatusOK || res.Body.String() != want {
				t.Errorf("%s: got %d %q, want %q", key, res.Code, res.Body.String(), want)
			}
		}
	})

	t.Run("groups", func(t *testing.T) {
		r := createRouter()
		api := r.Group("/api", func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				c.Set("group", "on")
				return next(c)
			}
		})
		api.GET("/users/:id", func(c router.Context) error {
			return c.String(http.StatusOK, c.Get("group").(string)+":"+c.Param("id"))
		})

		res := performRequest(r, http.MethodGet, "/api/users/7", "", "")
		if res.Code != http.StatusOK || res.Body.String() != "on:7" {
			t.Fatalf("got %d %q", res.Code, res.Body.String())
		}
	})

	t.Run("middleware_order", func(t *testing.T) {
		r := createRouter()
		var order []string
		r.Use(func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				order = append(order, "global")
				return next(c)
			}
		})
		r.GET("/m", func(c router.Context) error {
			order = append(order, "handler")
			return c.String(http.StatusOK, "ok")
		}, func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				order = append(order, "route")
				return next(c)
			}
		})

		performRequest(r, http.MethodGet, "/m", "", "")
		if strings.Join(order, ",") != "global,route,handler" {
			t.Fatalf("unexpected middleware order: %v", order)
		}
	})

	t.Run("unwritten_error_is_500", func(t *testing.T) {
		r := createRouter()
		r.GET("/fail", func(c router.Context) error { return errors.New("boom") })
		if res := performRequest(r, http.MethodGet, "/fail", "", ""); res.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", res.Code)
		}
	})

	t.Run("bind", func(t *testing.T) {
		type in struct {
			Name string `json:"name"`
		}
		r := createRouter()
		r.POST("/bind", func(c router.Context) error {
			var payload in
			if err := c.Bind(&payload); err != nil {
				switch {
				case errors.Is(err, router.ErrEmptyBody):
					return c.String(http.StatusBadRequest, "empty")
				case errors.Is(err, router.ErrUnsupportedContentType):
					return c.String(http.StatusUnsupportedMediaType, "type")
				}
				return c.String(http.StatusBadRequest, "invalid")
			}
			return c.JSON(http.StatusCreated, payload)
		})

		res := performRequest(r, http.MethodPost, "/bind", `{"name":"shoe"}`, "application/json; charset=utf-8")
		if res.Code != http.StatusCreated || strings.TrimSpace(res.Body.String()) != `{"name":"shoe"}` {
			t.Fatalf("got %d %q", res.Code, res.Body.String())
		}
		if ct := res.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Fatalf("unexpected content type %q", ct)
		}
		if res := performRequest(r, http.MethodPost, "/bind", "", "application/json"); res.Body.String() != "empty" {
			t.Fatalf("empty body: got %q", res.Body.String())
		}
		if res := performRequest(r, http.MethodPost, "/bind", "name=x", "text/plain"); res.Body.String() != "type" {
			t.Fatalf("wrong type: got %q", res.Body.String())
		}
		if res := performRequest(r, http.MethodPost, "/bind", "{", "application/json"); res.Body.String() != "invalid" {
			t.Fatalf("malformed json: got %q", res.Body.String())
		}
	})

	t.Run("response_state", func(t *testing.T) {
		r := createRouter()
		r.GET("/state", func(c router.Context) error {
			if c.Response().Written() {
				t.Error("response must not be written before handler writes")
			}
			c.Response().Header().Set("Content-Type", "text/csv")
			c.Response().WriteHeader(http.StatusAccepted)
			c.Response().WriteHeader(http.StatusTeapot)
			_, _ = io.WriteString(c.Response(), "a,b\n")
			if c.Response().Status() != http.StatusAccepted {
				t.Errorf("status = %d, want %d", c.Response().Status(), http.StatusAccepted)
			}
			return nil
		})
		res := performRequest(r, http.MethodGet, "/state", "", "")
		if res.Code != http.StatusAccepted || res.Body.String() != "a,b\n" {
			t.Fatalf("got %d %q", res.Code, res.Body.String())
		}
	})

	t.Run("options_preflight", func(t *testing.T) {
		r := createRouter()
		r.Use(func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				c.Response().Header().Set("X-Global", "yes")
				return next(c)
			}
		})
		r.GET("/items/:id", func(c router.Context) error { return c.String(http.StatusOK, "ok") })
		res := performRequest(r, http.MethodOptions, "/items/1", "", "")
		if res.Code != http.StatusNoContent || res.Header().Get("X-Global") != "yes" {
			t.Fatalf("got %d headers %v", res.Code, res.Header())
		}
	})
}

func performRequest(r http.Handler, method, path, body, contentType string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)
	return res
}
