package agent

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ai-procurement-be/pkg/resilience"
)

func TestToolGuardRetryCycleCountsAsOneBreakerFailure(t *testing.T) {
	calls := 0
	op := func() error {
		calls++
		return resilience.Transient(errors.New("connection reset"))
	}

	retry := resilience.NewRetryPolicy(2, time.Millisecond, time.Millisecond)
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 2,
		RecoveryTimeout:  time.Minute,
	})
	guard := &ToolGuard{Breaker: breaker, Retry: retry}

	assert.Error(t, guard.Invoke(op))
	assert.Error(t, guard.Invoke(op))
	// Two exhausted retry cycles of two attempts each.
	assert.Equal(t, 4, calls)
	assert.Equal(t, resilience.CircuitOpen, breaker.State())

	err := guard.Invoke(op)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, 4, calls, "open breaker must not invoke the operation")
}

func TestToolGuardWithoutLayersRunsOperationDirectly(t *testing.T) {
	guard := &ToolGuard{}
	calls := 0
	assert.NoError(t, guard.Invoke(func() error {
		calls++
		return nil
	}))
	assert.Equal(t, 1, calls)
}
