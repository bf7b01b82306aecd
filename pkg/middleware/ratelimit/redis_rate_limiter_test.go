package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nimburion/storefront/pkg/config"
	"github.com/nimburion/storefront/pkg/testutil"
)

func TestRedisRateLimiter_AllowsWithinLimitAndResetsWindow(t *testing.T) {
	client := newFakeRedisClient()
	log := testutil.NewRecordingLogger()
	limiter := newRedisRateLimiterFromClient(client, time.Second, 3, 2, 100*time.Millisecond, "rl-test", log)

	now := time.Unix(1_700_000_000, 0)
	limiter.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if !limiter.Allow(ctx, "10.0.0.1") {
			t.Fatalf("expected request %d to be allowed", i+1)
		}
	}
	if limiter.Allow(ctx, "10.0.0.1") {
		t.Fatal("expected request beyond limit to be rejected")
	}

	now = now.Add(time.Second)
	if !limiter.Allow(ctx, "10.0.0.1") {
		t.Fatal("expected a new window to reset the counter")
	}
	if len(client.expires) != 2 {
		t.Errorf("expected TTL on each window key, got %d", len(client.expires))
	}
}

func TestRedisRateLimiter_FailsOpen(t *testing.T) {
	client := newFakeRedisClient()
	client.incrErr = errors.New("connection refused")
	log := testutil.NewRecordingLogger()
	limiter := newRedisRateLimiterFromClient(client, time.Second, 1, 0, 100*time.Millisecond, "rl-test", log)

	for i := 0; i < 3; i++ {
		if !limiter.Allow(context.Background(), "k") {
			t.Fatal("expected fail-open when redis errors")
		}
	}
	if _, ok := log.Find("error", "redis rate limiter increment failed"); !ok {
		t.Error("expected increment failure to be logged")
	}
}

func TestNewRedisRateLimiter_Validation(t *testing.T) {
	log := testutil.NewRecordingLogger()
	if _, err := NewRedisRateLimiter(config.RateLimitRedisConfig{}, 10, 5, log); err == nil {
		t.Error("expected error for missing URL")
	}
	if _, err := NewRedisRateLimiter(config.RateLimitRedisConfig{URL: "redis://localhost:6379"}, 0, 5, log); err == nil {
		t.Error("expected error for zero rate")
	}
	if _, err := NewRedisRateLimiter(config.RateLimitRedisConfig{URL: "::bad"}, 10, 5, log); err == nil {
		t.Error("expected error for malformed URL")
	}
}

type fakeRedisClient struct {
	mu      sync.Mutex
	data    map[string]int64
	expires map[string]time.Duration
	incrErr error
}

func newFakeRedisClient() *fakeRedisClient {
	return &fakeRedisClient{
		data:    make(map[string]int64),
		expires: make(map[string]time.Duration),
	}
}

func (c *fakeRedisClient) Incr(ctx context.Context, key string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.incrErr != nil {
		return redis.NewIntResult(0, c.incrErr)
	}
	c.data[key]++
	return redis.NewIntResult(c.data[key], nil)
}

func (c *fakeRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expires[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (c *fakeRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (c *fakeRedisClient) Close() error { return nil }
