// Package requestid assigns a correlation ID to every request.
package requestid

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nimburion/storefront/pkg/middleware"
	"github.com/nimburion/storefront/pkg/server/router"
)

// RequestIDHeader is the HTTP header name for request ID.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength caps client supplied IDs so they cannot bloat logs.
const maxRequestIDLength = 128

// RequestID reuses a client supplied X-Request-ID or generates a UUID, then
// exposes it on the response, the router context and the request context.
func RequestID() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			requestID := strings.TrimSpace(c.Request().Header.Get(RequestIDHeader))
			if requestID == "" || len(requestID) > maxRequestIDLength {
				requestID = uuid.NewString()
			}

			c.Set(string(middleware.RequestIDKey), requestID)
			c.Response().Header().Set(RequestIDHeader, requestID)

			ctx := context.WithValue(c.Request().Context(), middleware.RequestIDKey, requestID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetRequestID extracts the request ID from a context, or "".
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(middleware.RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
