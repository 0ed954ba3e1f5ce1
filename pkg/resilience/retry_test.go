package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestRetryPolicyRetriesTransient(t *testing.T) {
	p := NewRetryPolicy(3, 100*time.Millisecond, time.Second)
	var delays []time.Duration
	p.sleep = func(d time.Duration) { delays = append(delays, d) }

	attempts := 0
	err := p.Do(func() error {
		attempts++
		if attempts < 3 {
			return Transient(errors.New("flaky"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("got %v, want success on third attempt", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
	// Backoff grows exponentially between attempts.
	if len(delays) != 2 || delays[0] != 100*time.Millisecond || delays[1] != 200*time.Millisecond {
		t.Fatalf("delays = %v, want [100ms 200ms]", delays)
	}
}

func TestRetryPolicyDelayCappedAtMax(t *testing.T) {
	p := NewRetryPolicy(5, 400*time.Millisecond, time.Second)
	var delays []time.Duration
	p.sleep = func(d time.Duration) { delays = append(delays, d) }

	_ = p.Do(func() error { return Transient(errors.New("down")) })

	for _, d := range delays {
		if d > time.Second {
			t.Fatalf("delay %v exceeds cap", d)
		}
	}
}

func TestRetryPolicyDoesNotRetryNonTransient(t *testing.T) {
	p := NewRetryPolicy(3, time.Millisecond, time.Second)
	p.sleep = func(time.Duration) {}

	attempts := 0
	bad := errors.New("nil pointer somewhere")
	err := p.Do(func() error {
		attempts++
		return bad
	})
	if !errors.Is(err, bad) {
		t.Fatalf("got %v, want the original error", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1 for non-transient error", attempts)
	}
}

func TestRetryPolicyExhaustionReturnsLastError(t *testing.T) {
	p := NewRetryPolicy(2, time.Millisecond, time.Second)
	p.sleep = func(time.Duration) {}

	retried := 0
	p.OnRetry = func(attempt int, err error) { retried++ }

	last := errors.New("second failure")
	calls := 0
	err := p.Do(func() error {
		calls++
		if calls == 1 {
			return Transient(errors.New("first failure"))
		}
		return Transient(last)
	})
	if !errors.Is(err, last) {
		t.Fatalf("got %v, want last error", err)
	}
	if retried != 1 {
		t.Fatalf("OnRetry fired %d times, want 1", retried)
	}
}

func TestTransientClassification(t *testing.T) {
	if IsTransient(errors.New("plain")) {
		t.Fatal("plain error classified transient")
	}
	if !IsTransient(Transient(errors.New("wrapped"))) {
		t.Fatal("wrapped error not classified transient")
	}
	if Transient(nil) != nil {
		t.Fatal("Transient(nil) should be nil")
	}
	// Marking survives additional wrapping.
	wrapped := Transient(errors.New("inner"))
	if !IsTransient(errors.Join(wrapped, errors.New("outer"))) {
		t.Fatal("transient marker lost through wrapping")
	}
}
