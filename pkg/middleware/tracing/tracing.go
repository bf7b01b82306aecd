// Package tracing starts an OpenTelemetry server span per request.
package tracing

import (
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/nimburion/storefront/pkg/middleware/requestid"
	"github.com/nimburion/storefront/pkg/observability/metrics"
	"github.com/nimburion/storefront/pkg/server/router"
)

// Config holds configuration for the tracing middleware.
type Config struct {
	// TracerName identifies the tracer, "http-server" when empty.
	TracerName string

	// ExcludedPathPrefixes disables tracing for matching path prefixes.
	ExcludedPathPrefixes []string
}

// Tracing extracts the incoming trace context, starts a server span and
// stores the span context on the request for downstream store calls.
func Tracing(cfg Config) router.MiddlewareFunc {
	if cfg.TracerName == "" {
		cfg.TracerName = "http-server"
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			req := c.Request()
			for _, prefix := range cfg.ExcludedPathPrefixes {
				if prefix != "" && strings.HasPrefix(req.URL.Path, prefix) {
					return next(c)
				}
			}

			ctx := otel.GetTextMapPropagator().Extract(req.Context(), propagation.HeaderCarrier(req.Header))
			spanName := fmt.Sprintf("HTTP %s %s", req.Method, metrics.NormalizePath(req.URL.Path))
			ctx, span := otel.Tracer(cfg.TracerName).Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			span.SetAttributes(
				attribute.String("http.method", req.Method),
				attribute.String("http.target", req.URL.Path),
				attribute.String("http.user_agent", req.UserAgent()),
			)
			if id := requestid.GetRequestID(req.Context()); id != "" {
				span.SetAttributes(attribute.String("request.id", id))
			}

			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}

			status := c.Response().Status()
			span.SetAttributes(attribute.Int("http.status_code", status))
			if status >= 500 {
				span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
			} else {
				span.SetStatus(codes.Ok, "")
			}
			return nil
		}
	}
}
