// Package middleware holds the keys shared by the HTTP middleware subpackages.
package middleware

// ContextKey is the type of request-scoped values set by middleware.
type ContextKey string

// RequestIDKey carries the request id set by the requestid middleware and
// read by the logger and error responses.
const RequestIDKey ContextKey = "request_id"
