package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nimburion/storefront/pkg/config"
	"github.com/nimburion/storefront/pkg/observability/logger"
)

type redisClient interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisRateLimiter counts requests per key in fixed windows shared by every replica.
// It fails open when Redis is unreachable.
type RedisRateLimiter struct {
	client    redisClient
	limit     int64
	window    time.Duration
	opTimeout time.Duration
	prefix    string
	log       logger.Logger
	now       func() time.Time
}

// NewRedisRateLimiter connects to Redis and verifies the connection.
func NewRedisRateLimiter(cfg config.RateLimitRedisConfig, requestsPerSecond, burst int, log logger.Logger) (*RedisRateLimiter, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis URL is required for distributed rate limiting")
	}
	if requestsPerSecond <= 0 {
		return nil, errors.New("requests_per_second must be greater than zero")
	}
	if burst < 0 {
		return nil, errors.New("burst cannot be negative")
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	timeout := cfg.OperationTimeout
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	opts.ReadTimeout = timeout
	opts.WriteTimeout = timeout

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis rate limiter ping failed: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "ratelimit"
	}

	log.Info("redis rate limiter connected", "limit", requestsPerSecond, "burst", burst, "prefix", prefix)

	return newRedisRateLimiterFromClient(client, time.Second, requestsPerSecond, burst, timeout, prefix, log), nil
}

func newRedisRateLimiterFromClient(
	client redisClient,
	window time.Duration,
	requestsPerSecond, burst int,
	timeout time.Duration,
	prefix string,
	log logger.Logger,
) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:    client,
		limit:     int64(requestsPerSecond + burst),
		window:    window,
		opTimeout: timeout,
		prefix:    prefix,
		log:       log,
		now:       time.Now,
	}
}

// Allow increments the counter for the current window of key.
func (r *RedisRateLimiter) Allow(ctx context.Context, key string) bool {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.opTimeout)
	defer cancel()

	redisKey := r.redisKey(key)
	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		r.log.Error("redis rate limiter increment failed", "error", err)
		return true
	}
	if count == 1 {
		// two windows so a slow clock on one replica still finds the key
		if err := r.client.Expire(ctx, redisKey, 2*r.window).Err(); err != nil {
			r.log.Warn("redis rate limiter failed to set TTL", "error", err)
		}
	}
	return count <= r.limit
}

// Ping checks connectivity, used by readiness probes.
func (r *RedisRateLimiter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close shuts down the Redis client.
func (r *RedisRateLimiter) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

func (r *RedisRateLimiter) redisKey(key string) string {
	window := r.now().UnixNano() / int64(r.window)
	return fmt.Sprintf("%s:%s:%d", r.prefix, key, window)
}
