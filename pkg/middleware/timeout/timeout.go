// Package timeout bounds request processing time.
package timeout

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/nimburion/storefront/pkg/controller"
	"github.com/nimburion/storefront/pkg/server/router"
)

// Config configures request timeout middleware behavior.
type Config struct {
	Timeout              time.Duration
	ExcludedPathPrefixes []string
}

// Middleware attaches a deadline to the request context. When the deadline
// expires and the handler wrote nothing, the client receives 504.
func Middleware(cfg Config) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		if cfg.Timeout <= 0 {
			return next
		}
		return func(c router.Context) error {
			for _, prefix := range cfg.ExcludedPathPrefixes {
				if prefix != "" && strings.HasPrefix(c.Request().URL.Path, prefix) {
					return next(c)
				}
			}

			reqCtx, cancel := context.WithTimeout(c.Request().Context(), cfg.Timeout)
			defer cancel()

			c.SetRequest(c.Request().WithContext(reqCtx))
			err := next(c)
			if !errors.Is(err, context.DeadlineExceeded) && !errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
				return err
			}
			if c.Response().Written() {
				return nil
			}
			return c.JSON(http.StatusGatewayTimeout, controller.ErrorResponse{
				Error:     "timeout",
				Message:   "request timeout",
				RequestID: controller.RequestIDFromContext(c.Request().Context()),
			})
		}
	}
}
