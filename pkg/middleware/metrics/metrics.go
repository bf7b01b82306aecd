// Package metrics records Prometheus HTTP metrics per request.
package metrics

import (
	"net/http"
	"time"

	"github.com/nimburion/storefront/pkg/observability/metrics"
	"github.com/nimburion/storefront/pkg/server/router"
)

// Metrics records request duration, request count and in-flight requests.
// A handler error that left the response unwritten is counted as 500.
func Metrics() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			metrics.IncrementInFlight()
			defer metrics.DecrementInFlight()

			start := time.Now()
			err := next(c)

			status := c.Response().Status()
			if err != nil && !c.Response().Written() {
				status = http.StatusInternalServerError
			}
			metrics.RecordHTTPMetrics(c.Request().Method, c.Request().URL.Path, status, time.Since(start))

			return err
		}
	}
}
