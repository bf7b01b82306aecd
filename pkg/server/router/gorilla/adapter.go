// Package gorilla provides a gorilla/mux based implementation of router.Router.
package gorilla

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/nimburion/storefront/pkg/server/router"
)

// GorillaRouter implements router.Router using gorilla/mux.
//
// gorilla/mux matches routes in registration order, so static paths must be
// registered before parameterised siblings.
type GorillaRouter struct {
	router     *mux.Router
	prefix     string
	middleware []router.MiddlewareFunc
	shared     *routeTable
}

type routeTable struct {
	mu      sync.RWMutex
	options map[string]struct{}
}

// NewRouter creates a new GorillaRouter.
func NewRouter() *GorillaRouter {
	return &GorillaRouter{
		router: mux.NewRouter(),
		shared: &routeTable{options: make(map[string]struct{})},
	}
}

func (r *GorillaRouter) GET(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodGet, path, handler, middleware)
}

func (r *GorillaRouter) POST(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodPost, path, handler, middleware)
}

func (r *GorillaRouter) PUT(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodPut, path, handler, middleware)
}

func (r *GorillaRouter) DELETE(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodDelete, path, handler, middleware)
}

func (r *GorillaRouter) PATCH(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodPatch, path, handler, middleware)
}

// Group creates a route group with common prefix and middleware.
func (r *GorillaRouter) Group(prefix string, middleware ...router.MiddlewareFunc) router.Router {
	return &GorillaRouter{
		router:     r.router.PathPrefix(toMuxPath(prefix)).Subrouter(),
		prefix:     r.prefix + toMuxPath(prefix),
		middleware: append(r.globalMiddleware(), middleware...),
		shared:     r.shared,
	}
}

// Use applies middleware to routes registered afterwards.
func (r *GorillaRouter) Use(middleware ...router.MiddlewareFunc) {
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	r.middleware = append(r.middleware, middleware...)
}

func (r *GorillaRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

func (r *GorillaRouter) globalMiddleware() []router.MiddlewareFunc {
	r.shared.mu.RLock()
	defer r.shared.mu.RUnlock()
	return append([]router.MiddlewareFunc{}, r.middleware...)
}

func (r *GorillaRouter) handle(method, path string, h router.HandlerFunc, routeMiddleware []router.MiddlewareFunc) {
	chain := router.Chain(h, r.globalMiddleware(), routeMiddleware)

	muxPath := toMuxPath(path)
	r.router.HandleFunc(muxPath, func(w http.ResponseWriter, req *http.Request) {
		ctx := newContext(w, req)
		if err := chain(ctx); err != nil && !ctx.Response().Written() {
			http.Error(ctx.Response(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}).Methods(method)

	r.ensureOptionsRoute(muxPath)
}

func (r *GorillaRouter) ensureOptionsRoute(muxPath string) {
	r.shared.mu.Lock()
	key := r.prefix + muxPath
	if _, exists := r.shared.options[key]; exists {
		r.shared.mu.Unlock()
		return
	}
	r.shared.options[key] = struct{}{}
	r.shared.mu.Unlock()

	chain := router.Chain(func(c router.Context) error {
		if !c.Response().Written() {
			c.Response().WriteHeader(http.StatusNoContent)
		}
		return nil
	}, r.globalMiddleware(), nil)

	r.router.HandleFunc(muxPath, func(w http.ResponseWriter, req *http.Request) {
		_ = chain(newContext(w, req))
	}).Methods(http.MethodOptions)
}

// toMuxPath converts ":id" segments into gorilla's "{id}" form.
func toMuxPath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if strings.HasPrefix(p, ":") {
			parts[i] = "{" + p[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}

type gorillaContext struct {
	request  *http.Request
	response router.ResponseWriter
	mu       sync.RWMutex
	store    map[string]interface{}
}

func newContext(w http.ResponseWriter, r *http.Request) *gorillaContext {
	return &gorillaContext{
		request:  r,
		response: router.NewResponseWriter(w),
		store:    make(map[string]interface{}),
	}
}

func (c *gorillaContext) Request() *http.Request              { return c.request }
func (c *gorillaContext) SetRequest(r *http.Request)          { c.request = r }
func (c *gorillaContext) Response() router.ResponseWriter     { return c.response }
func (c *gorillaContext) SetResponse(w router.ResponseWriter) { c.response = w }

func (c *gorillaContext) Param(name string) string {
	return mux.Vars(c.request)[name]
}

func (c *gorillaContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *gorillaContext) Bind(v interface{}) error {
	return router.DecodeJSON(c.request, v)
}

func (c *gorillaContext) JSON(code int, v interface{}) error {
	return router.WriteJSON(c.response, code, v)
}

func (c *gorillaContext) String(code int, s string) error {
	return router.WriteString(c.response, code, s)
}

func (c *gorillaContext) Get(key string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store[key]
}

func (c *gorillaContext) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = value
}
