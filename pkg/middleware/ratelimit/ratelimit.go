// Package ratelimit rejects clients that exceed a request budget.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/nimburion/storefront/pkg/controller"
	"github.com/nimburion/storefront/pkg/server/router"
)

// RateLimiter decides whether a request for key may proceed.
// Implementations must be safe for concurrent use.
type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

// TokenBucketLimiter keeps one in-process token bucket per key.
type TokenBucketLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewTokenBucketLimiter allows requestsPerSecond on average with bursts up to burst.
func NewTokenBucketLimiter(requestsPerSecond, burst int) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		rate:  rate.Limit(requestsPerSecond),
		burst: burst,
	}
}

func (l *TokenBucketLimiter) Allow(_ context.Context, key string) bool {
	return l.getLimiter(key).Allow()
}

func (l *TokenBucketLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := l.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}
	limiter, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.rate, l.burst))
	return limiter.(*rate.Limiter)
}

// Config defines the configuration for rate limiting middleware.
type Config struct {
	// KeyFunc extracts the limiting key, the client IP when nil.
	KeyFunc func(router.Context) string
	// ExcludedPathPrefixes bypass the limiter.
	ExcludedPathPrefixes []string
}

// RateLimit answers 429 with Retry-After once the limiter rejects a key.
func RateLimit(limiter RateLimiter, cfg Config) router.MiddlewareFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c router.Context) string { return ExtractIPFromRequest(c.Request()) }
	}
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			for _, prefix := range cfg.ExcludedPathPrefixes {
				if prefix != "" && strings.HasPrefix(c.Request().URL.Path, prefix) {
					return next(c)
				}
			}

			if !limiter.Allow(c.Request().Context(), cfg.KeyFunc(c)) {
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusTooManyRequests, controller.ErrorResponse{
					Error:     "rate_limit_exceeded",
					Message:   "rate limit exceeded",
					RequestID: controller.RequestIDFromContext(c.Request().Context()),
				})
			}
			return next(c)
		}
	}
}

// ExtractIPFromRequest returns the client IP, preferring X-Forwarded-For
// then X-Real-IP over RemoteAddr.
func ExtractIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
