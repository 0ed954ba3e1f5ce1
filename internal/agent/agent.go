// Package agent contains the procurement pipeline: three stage agents
// (market intelligence, price analysis, compliance audit) and the
// supervisor that sequences them over a shared pipeline state.
package agent

import (
	"context"

	"ai-procurement-be/internal/entity"
	"ai-procurement-be/pkg/resilience"
)

// Stage is one unit of the linear pipeline. Run mutates only the
// stage's designated state fields plus Errors/Step and must not panic;
// the supervisor still guards against it. The returned error is
// reserved for crashes the stage could not absorb, degraded results are
// recorded on the state instead.
type Stage interface {
	Name() string
	Run(ctx context.Context, state *entity.PipelineState) error
}

// ToolGuard composes the admission, breaker and retry layers shared by
// one external dependency class. One guard instance is shared by every
// workflow run touching that dependency, so failures accumulate across
// unrelated requests and protect the downstream service itself.
type ToolGuard struct {
	Limiter *resilience.RateLimiter
	Breaker *resilience.CircuitBreaker
	Retry   *resilience.RetryPolicy
}

// Invoke runs op through limiter -> breaker -> retry. The retry cycle
// sits inside the breaker call so one exhausted cycle counts as exactly
// one breaker failure.
func (g *ToolGuard) Invoke(op func() error) error {
	if g.Limiter != nil {
		g.Limiter.WaitIfNeeded()
	}
	attempt := op
	if g.Retry != nil {
		attempt = func() error { return g.Retry.Do(op) }
	}
	if g.Breaker != nil {
		return g.Breaker.Call(attempt)
	}
	return attempt()
}
