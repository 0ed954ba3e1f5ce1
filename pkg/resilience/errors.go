package resilience

import "errors"

// ErrCircuitOpen is returned by CircuitBreaker.Call when the breaker is
// open and refuses to invoke the wrapped operation.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// transientError marks a failure as a transient external fault
// (network, upstream 5xx, timeout). Only transient failures are
// retried; anything else fails the attempt immediately.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient wraps err so the retry layer knows it is worth retrying.
// Wrapping nil returns nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err (or anything it wraps) was marked
// transient.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
