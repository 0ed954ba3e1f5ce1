package resilience

import (
	"fmt"
	"sync"
	"time"
)

// CircuitState is the current mode of a CircuitBreaker.
type CircuitState string

const (
	// CircuitClosed is normal operation, calls pass through.
	CircuitClosed CircuitState = "closed"
	// CircuitOpen means the breaker tripped and calls fail fast.
	CircuitOpen CircuitState = "open"
	// CircuitHalfOpen allows a single trial call after the recovery
	// timeout elapsed.
	CircuitHalfOpen CircuitState = "half_open"
)

// CircuitBreakerConfig holds the trip parameters for one breaker.
type CircuitBreakerConfig struct {
	Name             string
	FailureThreshold int
	RecoveryTimeout  time.Duration
}

func (c CircuitBreakerConfig) withDefaults() CircuitBreakerConfig {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 5
	}
	if c.RecoveryTimeout <= 0 {
		c.RecoveryTimeout = 60 * time.Second
	}
	return c
}

// CircuitBreaker protects one external dependency class. A single
// instance is shared by every workflow run that talks to that
// dependency, so failures accumulate across unrelated requests; the
// breaker guards the downstream service, not any one request.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu           sync.Mutex
	state        CircuitState
	failureCount int
	successCount int
	lastFailure  time.Time

	// now is injectable for tests.
	now func() time.Time
}

func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		config: config.withDefaults(),
		state:  CircuitClosed,
		now:    time.Now,
	}
}

// Call runs op through the breaker. When the breaker is open and the
// recovery timeout has not elapsed it returns ErrCircuitOpen without
// invoking op. One Call is one win/loss for breaker bookkeeping, so
// callers wrap their whole retry cycle in a single Call.
func (cb *CircuitBreaker) Call(op func() error) error {
	if err := cb.allow(); err != nil {
		return err
	}

	err := op()
	if err != nil {
		cb.recordFailure()
		return err
	}
	cb.recordSuccess()
	return nil
}

func (cb *CircuitBreaker) allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitOpen {
		if cb.now().Sub(cb.lastFailure) >= cb.config.RecoveryTimeout {
			cb.state = CircuitHalfOpen
			return nil
		}
		return fmt.Errorf("%s: %w (failures: %d)", cb.config.Name, ErrCircuitOpen, cb.failureCount)
	}
	return nil
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount = 0
	cb.successCount++
	if cb.state == CircuitHalfOpen {
		cb.state = CircuitClosed
	}
}

func (cb *CircuitBreaker) recordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	cb.lastFailure = cb.now()

	if cb.state == CircuitHalfOpen {
		cb.state = CircuitOpen
		return
	}
	if cb.failureCount >= cb.config.FailureThreshold {
		cb.state = CircuitOpen
	}
}

// State returns the breaker's current state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Counts returns the consecutive failure count and lifetime success
// count, for diagnostics.
func (cb *CircuitBreaker) Counts() (failures, successes int) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failureCount, cb.successCount
}

// Name returns the dependency class this breaker protects.
func (cb *CircuitBreaker) Name() string {
	return cb.config.Name
}

// Reset forces the breaker back to closed with cleared counters.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = CircuitClosed
	cb.failureCount = 0
}
