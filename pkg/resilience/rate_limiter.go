package resilience

import (
	"sync"
	"time"
)

// safetyMargin is added to the computed wait so the oldest admission
// has definitely left the window when the caller retries.
const safetyMargin = 100 * time.Millisecond

// RateLimiter is a sliding-window admission gate for one external
// dependency class. A single instance is shared by every caller of
// that dependency; all mutations of the window happen under one lock.
type RateLimiter struct {
	maxCalls int
	window   time.Duration

	mu    sync.Mutex
	calls []time.Time

	// injectable for tests
	now   func() time.Time
	sleep func(time.Duration)
}

func NewRateLimiter(maxCalls int, window time.Duration) *RateLimiter {
	if maxCalls <= 0 {
		maxCalls = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		maxCalls: maxCalls,
		window:   window,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// prune drops admissions older than the window. Caller holds the lock.
func (rl *RateLimiter) prune(now time.Time) {
	kept := rl.calls[:0]
	for _, t := range rl.calls {
		if now.Sub(t) < rl.window {
			kept = append(kept, t)
		}
	}
	rl.calls = kept
}

// Allow is the non-blocking check: it admits and records the call when
// the pruned window has capacity, otherwise returns false without
// recording anything.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.prune(now)

	if len(rl.calls) < rl.maxCalls {
		rl.calls = append(rl.calls, now)
		return true
	}
	return false
}

// WaitIfNeeded blocks until the window has capacity, records the
// admission, and returns how long it slept. The wait is bounded by the
// window size; admissions drain FIFO by window expiry.
func (rl *RateLimiter) WaitIfNeeded() time.Duration {
	rl.mu.Lock()

	now := rl.now()
	rl.prune(now)

	if len(rl.calls) < rl.maxCalls {
		rl.calls = append(rl.calls, now)
		rl.mu.Unlock()
		return 0
	}

	// At capacity: wait for the oldest admission to exit the window.
	oldest := rl.calls[0]
	for _, t := range rl.calls {
		if t.Before(oldest) {
			oldest = t
		}
	}
	wait := rl.window - now.Sub(oldest) + safetyMargin
	rl.mu.Unlock()

	if wait > 0 {
		rl.sleep(wait)
	}

	rl.mu.Lock()
	rl.calls = append(rl.calls, rl.now())
	rl.mu.Unlock()
	return wait
}

// InFlight returns how many admissions are currently inside the window.
func (rl *RateLimiter) InFlight() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.prune(rl.now())
	return len(rl.calls)
}
