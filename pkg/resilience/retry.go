package resilience

import (
	"fmt"
	"time"
)

// RetryPolicy re-invokes a fallible operation with exponential backoff.
// Only failures marked Transient are retried; anything else is assumed
// to be a programming or validation error and surfaces immediately.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// OnRetry, when set, is called before each re-attempt with the
	// 1-based attempt number that just failed.
	OnRetry func(attempt int, err error)

	// sleep is injectable for tests.
	sleep func(time.Duration)
}

func NewRetryPolicy(maxAttempts int, initialDelay, maxDelay time.Duration) *RetryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if initialDelay <= 0 {
		initialDelay = time.Second
	}
	if maxDelay < initialDelay {
		maxDelay = 10 * initialDelay
	}
	return &RetryPolicy{
		MaxAttempts:  maxAttempts,
		InitialDelay: initialDelay,
		MaxDelay:     maxDelay,
		Multiplier:   2.0,
		sleep:        time.Sleep,
	}
}

// Do runs op up to MaxAttempts times and returns the last error when
// every attempt fails: no swallowing.
func (p *RetryPolicy) Do(op func() error) error {
	delay := p.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsTransient(err) {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}
		p.sleep(delay)

		delay = time.Duration(float64(delay) * p.Multiplier)
		if delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}

	return fmt.Errorf("all %d attempts failed: %w", p.MaxAttempts, lastErr)
}
