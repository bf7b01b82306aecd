// Package health aggregates dependency checks for the readiness probe.
package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Status represents the health status of a component.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// CheckResult represents the result of a health check.
type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
}

// Checker is implemented by every health check.
type Checker interface {
	Check(ctx context.Context) CheckResult
	Name() string
}

// Registry manages a collection of health checks.
type Registry struct {
	checkers map[string]Checker
	mu       sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		checkers: make(map[string]Checker),
	}
}

// Register adds a checker, replacing any checker with the same name.
func (r *Registry) Register(checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.checkers[checker.Name()] = checker
}

// Check runs all checks concurrently. One unhealthy check makes the whole
// result unhealthy; degraded checks only degrade it.
func (r *Registry) Check(ctx context.Context) AggregatedResult {
	r.mu.RLock()
	checkers := make([]Checker, 0, len(r.checkers))
	for _, checker := range r.checkers {
		checkers = append(checkers, checker)
	}
	r.mu.RUnlock()

	start := time.Now()
	results := make([]CheckResult, len(checkers))

	var wg sync.WaitGroup
	for i, checker := range checkers {
		wg.Add(1)
		go func(i int, c Checker) {
			defer wg.Done()
			results[i] = c.Check(ctx)
		}(i, checker)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	overall := StatusHealthy
	for _, result := range results {
		switch {
		case result.Status == StatusUnhealthy:
			overall = StatusUnhealthy
		case result.Status == StatusDegraded && overall == StatusHealthy:
			overall = StatusDegraded
		}
	}

	return AggregatedResult{
		Status:    overall,
		Checks:    results,
		Timestamp: time.Now(),
		Duration:  time.Since(start),
	}
}

// CheckOne runs a specific health check by name.
func (r *Registry) CheckOne(ctx context.Context, name string) (CheckResult, error) {
	r.mu.RLock()
	checker, exists := r.checkers[name]
	r.mu.RUnlock()

	if !exists {
		return CheckResult{}, fmt.Errorf("health check not found: %s", name)
	}
	return checker.Check(ctx), nil
}

// List returns the registered check names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.checkers))
	for name := range r.checkers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AggregatedResult is the combined outcome of all checks.
type AggregatedResult struct {
	Status    Status        `json:"status"`
	Checks    []CheckResult `json:"checks"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
}

// IsHealthy reports whether the service can take traffic. Degraded counts
// as healthy because only optional dependencies degrade.
func (r AggregatedResult) IsHealthy() bool {
	return r.Status != StatusUnhealthy
}
