// Package gin provides a gin-gonic based implementation of router.Router.
package gin

import (
	"net/http"
	"sync"

	ginpkg "github.com/gin-gonic/gin"
	"github.com/nimburion/storefront/pkg/server/router"
)

// GinRouter implements router.Router using gin-gonic/gin.
type GinRouter struct {
	engine     *ginpkg.Engine
	group      *ginpkg.RouterGroup
	middleware []router.MiddlewareFunc
	shared     *routeTable
}

// routeTable is shared by a router and all of its groups.
type routeTable struct {
	mu      sync.RWMutex
	options map[string]struct{}
}

// NewRouter creates a GinRouter running gin in release mode.
func NewRouter() *GinRouter {
	ginpkg.SetMode(ginpkg.ReleaseMode)
	engine := ginpkg.New()
	engine.HandleMethodNotAllowed = true
	return &GinRouter{
		engine: engine,
		shared: &routeTable{options: make(map[string]struct{})},
	}
}

func (r *GinRouter) GET(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodGet, path, handler, middleware)
}

func (r *GinRouter) POST(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodPost, path, handler, middleware)
}

func (r *GinRouter) PUT(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodPut, path, handler, middleware)
}

func (r *GinRouter) DELETE(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodDelete, path, handler, middleware)
}

func (r *GinRouter) PATCH(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodPatch, path, handler, middleware)
}

// Group creates a route group with common prefix and middleware.
func (r *GinRouter) Group(prefix string, middleware ...router.MiddlewareFunc) router.Router {
	combined := append(r.globalMiddleware(), middleware...)

	var group *ginpkg.RouterGroup
	if r.group == nil {
		group = r.engine.Group(prefix)
	} else {
		group = r.group.Group(prefix)
	}

	return &GinRouter{
		engine:     r.engine,
		group:      group,
		middleware: combined,
		shared:     r.shared,
	}
}

// Use applies middleware to routes registered afterwards.
func (r *GinRouter) Use(middleware ...router.MiddlewareFunc) {
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	r.middleware = append(r.middleware, middleware...)
}

func (r *GinRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.engine.ServeHTTP(w, req)
}

func (r *GinRouter) globalMiddleware() []router.MiddlewareFunc {
	r.shared.mu.RLock()
	defer r.shared.mu.RUnlock()
	return append([]router.MiddlewareFunc{}, r.middleware...)
}

func (r *GinRouter) routes() ginpkg.IRoutes {
	if r.group != nil {
		return r.group
	}
	return r.engine
}

func (r *GinRouter) fullPath(path string) string {
	if r.group != nil {
		return r.group.BasePath() + path
	}
	return path
}

func (r *GinRouter) handle(method, path string, h router.HandlerFunc, routeMiddleware []router.MiddlewareFunc) {
	chain := router.Chain(h, r.globalMiddleware(), routeMiddleware)

	r.routes().Handle(method, path, func(gc *ginpkg.Context) {
		ctx := newContext(gc)
		if err := chain(ctx); err != nil && !ctx.Response().Written() {
			gc.AbortWithStatus(http.StatusInternalServerError)
		}
	})
	r.ensureOptionsRoute(path)
}

// ensureOptionsRoute answers preflight requests through the global
// middleware so CORS headers are applied.
func (r *GinRouter) ensureOptionsRoute(path string) {
	key := r.fullPath(path)
	r.shared.mu.Lock()
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

	r.routes().Handle(http.MethodOptions, path, func(gc *ginpkg.Context) {
		_ = chain(newContext(gc))
	})
}

// ginContext adapts gin.Context to router.Context.
type ginContext struct {
	ctx      *ginpkg.Context
	response router.ResponseWriter
}

func newContext(c *ginpkg.Context) *ginContext {
	return &ginContext{ctx: c, response: router.NewResponseWriter(c.Writer)}
}

func (c *ginContext) Request() *http.Request          { return c.ctx.Request }
func (c *ginContext) SetRequest(r *http.Request)      { c.ctx.Request = r }
func (c *ginContext) Response() router.ResponseWriter { return c.response }
func (c *ginContext) SetResponse(w router.ResponseWriter) {
	c.response = w
}

func (c *ginContext) Param(name string) string { return c.ctx.Param(name) }
func (c *ginContext) Query(name string) string { return c.ctx.Query(name) }

func (c *ginContext) Bind(v interface{}) error {
	return router.DecodeJSON(c.ctx.Request, v)
}

func (c *ginContext) JSON(code int, v interface{}) error {
	return router.WriteJSON(c.response, code, v)
}

func (c *ginContext) String(code int, s string) error {
	return router.WriteString(c.response, code, s)
}

func (c *ginContext) Get(key string) interface{} {
	v, ok := c.ctx.Get(key)
	if !ok {
		return nil
	}
	return v
}

func (c *ginContext) Set(key string, value interface{}) {
	c.ctx.Set(key, value)
}
