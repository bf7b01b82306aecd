// Package logging logs one structured entry per HTTP request.
package logging

import (
	"net"
	"strings"
	"time"

	"github.com/nimburion/storefront/pkg/middleware/requestid"
	"github.com/nimburion/storefront/pkg/observability/logger"
	"github.com/nimburion/storefront/pkg/server/router"
)

// Config configures request logging middleware behavior.
type Config struct {
	// ExcludedPathPrefixes are not logged (health probes, metrics scrapes).
	ExcludedPathPrefixes []string
	// SlowThreshold upgrades completed requests slower than this to warn; zero disables.
	SlowThreshold time.Duration
}

// DefaultConfig returns default request logging behavior.
func DefaultConfig() Config {
	return Config{
		ExcludedPathPrefixes: []string{},
		SlowThreshold:        2 * time.Second,
	}
}

// Logging creates middleware with default configuration.
func Logging(log logger.Logger) router.MiddlewareFunc {
	return WithConfig(log, DefaultConfig())
}

// WithConfig logs "request completed" for handled requests and
// "request failed" when the handler chain returns an error.
func WithConfig(log logger.Logger, cfg Config) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			req := c.Request()
			if excluded(req.URL.Path, cfg.ExcludedPathPrefixes) {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			fields := []any{
				"request_id", requestid.GetRequestID(c.Request().Context()),
				"method", req.Method,
				"path", req.URL.Path,
				"status", c.Response().Status(),
				"duration_ms", duration.Milliseconds(),
				"remote_addr", remoteHost(req.RemoteAddr),
			}

			switch {
			case err != nil:
				log.Error("request failed", append(fields, "error", err.Error())...)
			case cfg.SlowThreshold > 0 && duration > cfg.SlowThreshold:
				log.Warn("request completed", append(fields, "slow", true)...)
			default:
				log.Info("request completed", fields...)
			}
			return err
		}
	}
}

func excluded(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
