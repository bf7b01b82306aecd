// Package resilience guards calls to flaky dependencies.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// State is the state of a CircuitBreaker.
type State int

const (
	// StateClosed lets every call through.
	StateClosed State = iota
	// StateOpen rejects calls until the cool-down elapses.
	StateOpen
	// StateHalfOpen lets a single trial call through.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned without calling fn while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker opens after maxFailures consecutive failures and stays
// open for coolDown. The first call after that is a trial: success closes
// the breaker, failure opens it again.
type CircuitBreaker struct {
	maxFailures int
	coolDown    time.Duration
	now         func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	trial    bool
}

// NewCircuitBreaker returns a closed breaker. maxFailures below 1 is treated as 1.
func NewCircuitBreaker(maxFailures int, coolDown time.Duration) *CircuitBreaker {
	if maxFailures < 1 {
		maxFailures = 1
	}
	return &CircuitBreaker{
		maxFailures: maxFailures,
		coolDown:    coolDown,
		now:         time.Now,
	}
}

// Execute runs fn unless the breaker is open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.acquire() {
		return ErrCircuitOpen
	}
	err := fn()
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) acquire() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.openedAt) < cb.coolDown {
			return false
		}
		cb.state = StateHalfOpen
		cb.trial = true
		return true
	case StateHalfOpen:
		// one trial at a time
		if cb.trial {
			return false
		}
		cb.trial = true
		return true
	default:
		return true
	}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		cb.state = StateClosed
		cb.failures = 0
		cb.trial = false
		return
	}

	cb.failures++
	if cb.state == StateHalfOpen || cb.failures >= cb.maxFailures {
		cb.state = StateOpen
		cb.openedAt = cb.now()
		cb.trial = false
	}
}

// State returns the current state. An open breaker whose cool-down has
// elapsed still reports open until the next call.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset closes the breaker and clears the failure count.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = StateClosed
	cb.failures = 0
	cb.trial = false
}
