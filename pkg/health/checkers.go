package health

import (
	"context"
	"time"
)

// Checkable is implemented by adapters that can verify their connection.
type Checkable interface {
	HealthCheck(ctx context.Context) error
}

// AdapterChecker checks a Checkable under a timeout.
type AdapterChecker struct {
	name     string
	adapter  Checkable
	timeout  time.Duration
	optional bool
}

// NewAdapterChecker checks a required dependency; failures make the service unhealthy.
func NewAdapterChecker(name string, adapter Checkable, timeout time.Duration) *AdapterChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AdapterChecker{name: name, adapter: adapter, timeout: timeout}
}

// NewOptionalChecker checks a dependency whose failure only degrades the service.
func NewOptionalChecker(name string, adapter Checkable, timeout time.Duration) *AdapterChecker {
	c := NewAdapterChecker(name, adapter, timeout)
	c.optional = true
	return c
}

func (c *AdapterChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.adapter.HealthCheck(checkCtx)
	result := CheckResult{
		Name:      c.name,
		Status:    StatusHealthy,
		Message:   "OK",
		Timestamp: time.Now(),
		Duration:  time.Since(start),
	}
	if err != nil {
		result.Status = StatusUnhealthy
		if c.optional {
			result.Status = StatusDegraded
		}
		result.Message = ""
		result.Error = err.Error()
	}
	return result
}

func (c *AdapterChecker) Name() string {
	return c.name
}

// PingChecker always reports healthy; used for liveness.
type PingChecker struct {
	name string
}

func NewPingChecker(name string) *PingChecker {
	return &PingChecker{name: name}
}

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	return CheckResult{
		Name:      c.name,
		Status:    StatusHealthy,
		Message:   "Service is alive",
		Timestamp: time.Now(),
	}
}

func (c *PingChecker) Name() string {
	return c.name
}

// CheckFunc adapts a plain function to Checkable.
type CheckFunc func(ctx context.Context) error

// HealthCheck calls f.
func (f CheckFunc) HealthCheck(ctx context.Context) error { return f(ctx) }
