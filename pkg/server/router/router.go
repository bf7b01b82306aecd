// Package router provides an abstraction layer for HTTP routing so handlers
// can run unchanged on gin-gonic or gorilla/mux.
package router

import "net/http"

// Router registers handlers and serves HTTP.
//
// Paths use the ":name" syntax for parameters on every implementation.
// Static segments must be registered before a parameter at the same
// position (for example /products/filter before /products/:id).
type Router interface {
	GET(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	POST(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	PUT(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	DELETE(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	PATCH(path string, handler HandlerFunc, middleware ...MiddlewareFunc)

	// Group creates a route group with common prefix and middleware
	Group(prefix string, middleware ...MiddlewareFunc) Router

	// Use applies middleware to all routes registered afterwards
	Use(middleware ...MiddlewareFunc)

	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// HandlerFunc is the function signature for route handlers.
type HandlerFunc func(Context) error

// MiddlewareFunc wraps a HandlerFunc and returns a new HandlerFunc.
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// Context provides access to request and response in a router-agnostic way.
type Context interface {
	Request() *http.Request
	// SetRequest replaces the request, typically to attach a derived context.
	SetRequest(r *http.Request)

	Response() ResponseWriter
	SetResponse(w ResponseWriter)

	// Param returns a path parameter by name, or "" when absent.
	Param(name string) string
	// Query returns the first value of a query parameter, or "".
	Query(name string) string

	// Bind decodes a JSON request body into v.
	Bind(v interface{}) error

	JSON(code int, v interface{}) error
	String(code int, s string) error

	Get(key string) interface{}
	Set(key string, value interface{})
}

// ResponseWriter wraps http.ResponseWriter to track response status.
type ResponseWriter interface {
	http.ResponseWriter

	// Status returns the status code written, 200 if none was written yet
	Status() int

	Written() bool
}
