package server

import (
	"strings"

	"github.com/nimburion/storefront/pkg/config"
	"github.com/nimburion/storefront/pkg/middleware/cors"
	"github.com/nimburion/storefront/pkg/middleware/logging"
	"github.com/nimburion/storefront/pkg/middleware/metrics"
	"github.com/nimburion/storefront/pkg/middleware/ratelimit"
	"github.com/nimburion/storefront/pkg/middleware/recovery"
	"github.com/nimburion/storefront/pkg/middleware/requestid"
	timeoutmiddleware "github.com/nimburion/storefront/pkg/middleware/timeout"
	"github.com/nimburion/storefront/pkg/middleware/tracing"
	"github.com/nimburion/storefront/pkg/observability/logger"
	"github.com/nimburion/storefront/pkg/server/router"
)

// PublicAPIServer serves the storefront API.
type PublicAPIServer struct {
	*Server
	middlewares []string
}

// PublicOptions carries the optional collaborators of the public server.
type PublicOptions struct {
	// Limiter enforces the request budget when rate limiting is enabled.
	// A local token bucket is used when nil.
	Limiter ratelimit.RateLimiter
}

// NewPublicAPIServer applies the public middleware stack to r and wraps it in a Server.
//
// The stack runs in this order: request id, CORS (when enabled), logging,
// recovery, metrics, tracing (when enabled), rate limiting (when enabled)
// and the request timeout.
func NewPublicAPIServer(cfg *config.Config, r router.Router, log logger.Logger, opts PublicOptions) *PublicAPIServer {
	type middlewareEntry struct {
		name string
		fn   router.MiddlewareFunc
	}

	namedMiddlewares := []middlewareEntry{
		{name: "request_id", fn: requestid.RequestID()},
	}
	if cfg.CORS.Enabled {
		namedMiddlewares = append(namedMiddlewares, middlewareEntry{name: "cors", fn: cors.Middleware(cors.Config{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowMethods:     cfg.CORS.AllowMethods,
			AllowHeaders:     cfg.CORS.AllowHeaders,
			ExposeHeaders:    cfg.CORS.ExposeHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		})})
	}
	namedMiddlewares = append(namedMiddlewares,
		middlewareEntry{name: "logging", fn: logging.WithConfig(log, logging.DefaultConfig())},
		middlewareEntry{name: "recovery", fn: recovery.Recovery(log)},
		middlewareEntry{name: "metrics", fn: metrics.Metrics()},
	)
	if cfg.Observability.TracingEnabled {
		namedMiddlewares = append(namedMiddlewares, middlewareEntry{name: "tracing", fn: tracing.Tracing(tracing.Config{TracerName: "http-server"})})
	}
	if cfg.RateLimit.Enabled {
		limiter := opts.Limiter
		if limiter == nil {
			limiter = ratelimit.NewTokenBucketLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		}
		namedMiddlewares = append(namedMiddlewares, middlewareEntry{name: "rate_limit", fn: ratelimit.RateLimit(limiter, ratelimit.Config{})})
	}
	namedMiddlewares = append(namedMiddlewares, middlewareEntry{
		name: "timeout",
		// Order export reads the whole collection.
		fn: timeoutmiddleware.Middleware(timeoutmiddleware.Config{
			Timeout:              cfg.HTTP.RequestTimeout,
			ExcludedPathPrefixes: []string{"/orders/export"},
		}),
	})

	middlewareFuncs := make([]router.MiddlewareFunc, 0, len(namedMiddlewares))
	middlewareNames := make([]string, 0, len(namedMiddlewares))
	for _, entry := range namedMiddlewares {
		middlewareFuncs = append(middlewareFuncs, entry.fn)
		middlewareNames = append(middlewareNames, entry.name)
	}
	log.Debug("active middleware stack", "middlewares", strings.Join(middlewareNames, ", "))
	r.Use(middlewareFuncs...)

	return &PublicAPIServer{
		Server: NewServer(Config{
			Port:         cfg.HTTP.Port,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			IdleTimeout:  cfg.HTTP.IdleTimeout,
		}, r, log),
		middlewares: middlewareNames,
	}
}

// Middlewares lists the active middleware names in execution order.
func (s *PublicAPIServer) Middlewares() []string {
	return append([]string(nil), s.middlewares...)
}
