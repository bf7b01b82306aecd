// Package recovery turns handler panics into 500 responses.
package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/nimburion/storefront/pkg/controller"
	"github.com/nimburion/storefront/pkg/middleware/requestid"
	"github.com/nimburion/storefront/pkg/observability/logger"
	"github.com/nimburion/storefront/pkg/server/router"
)

// Recovery recovers panics, logs them with the stack trace and answers 500
// in the standard error envelope when nothing was written yet.
func Recovery(log logger.Logger) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				requestID := requestid.GetRequestID(c.Request().Context())
				log.Error("panic recovered",
					"request_id", requestID,
					"panic", r,
					"stack", string(debug.Stack()),
				)

				if c.Response().Written() {
					return
				}
				_, body := controller.MapError(c.Request().Context(), nil)
				if writeErr := c.JSON(http.StatusInternalServerError, body); writeErr != nil {
					log.Error("failed to send error response", "request_id", requestID, "error", writeErr)
				}
				err = nil
			}()

			return next(c)
		}
	}
}
