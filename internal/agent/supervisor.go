package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ai-procurement-be/internal/entity"
	"ai-procurement-be/internal/pkg/logger"
	"ai-procurement-be/pkg/resilience"
)

const DefaultWorkflowTimeout = 300 * time.Second

// Supervisor sequences the stages over one pipeline state. It is the
// only component that knows stage order. Run never returns an error to
// its caller; every failure mode collapses into a structurally complete
// result whose Errors/Step record what went wrong.
type Supervisor struct {
	stages  []Stage
	breaker *resilience.CircuitBreaker
	monitor *resilience.SystemMonitor
	log     logger.ILogger
	timeout time.Duration

	now func() time.Time
}

func NewSupervisor(stages []Stage, breaker *resilience.CircuitBreaker, monitor *resilience.SystemMonitor, log logger.ILogger, timeout time.Duration) *Supervisor {
	if timeout <= 0 {
		timeout = DefaultWorkflowTimeout
	}
	return &Supervisor{
		stages:  stages,
		breaker: breaker,
		monitor: monitor,
		log:     log,
		timeout: timeout,
		now:     time.Now,
	}
}

// Run executes the full pipeline for one query. The collected map is
// the free-form side channel (platform list, preference, catalog path)
// fixed at creation and read-only thereafter.
func (s *Supervisor) Run(ctx context.Context, query string, category entity.ProductCategory, collected map[string]any) *entity.WorkflowResult {
	start := s.now()
	state := entity.NewPipelineState(query, category, collected)

	err := s.breaker.Call(func() error {
		return s.runPipeline(ctx, state, start)
	})
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			state.AddError("workflow rejected: " + err.Error())
		} else {
			state.AddError("workflow crashed: " + err.Error())
		}
		state.Step = "workflow_failed"
		s.monitor.RecordError("workflow")
		s.log.Error("agent.supervisor", "workflow failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
	}

	elapsed := s.now().Sub(start)
	s.monitor.RecordRequest("workflow", elapsed)

	return &entity.WorkflowResult{
		RunID:            uuid.New(),
		Query:            state.Query,
		Category:         state.Category,
		MarketData:       state.MarketData,
		PriceAnalysis:    state.PriceAnalysis,
		ComplianceChecks: state.ComplianceChecks,
		Errors:           state.Errors,
		Step:             state.Step,
		ExecutionTime:    elapsed.Seconds(),
		CompletedAt:      s.now(),
	}
}

// runPipeline advances stage by stage, checking the wall-clock deadline
// at each boundary. A stage already in flight is never preempted; it
// simply will not be started once the deadline has passed. The returned
// error is non-nil only when the sequencing itself panicked, which
// counts as one failure toward the workflow breaker.
func (s *Supervisor) runPipeline(ctx context.Context, state *entity.PipelineState, start time.Time) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panic: %v", r)
		}
	}()

	for _, stage := range s.stages {
		if s.now().Sub(start) > s.timeout {
			state.AddError(fmt.Sprintf("workflow timeout after %.0fs, stopping before %s", s.timeout.Seconds(), stage.Name()))
			state.Step = "workflow_timeout"
			s.log.Warn("agent.supervisor", "workflow deadline exceeded", map[string]interface{}{
				"query": state.Query,
				"stage": stage.Name(),
			})
			break
		}
		s.runStage(ctx, stage, state)
	}
	return nil
}

// runStage isolates one stage invocation. Stages are designed not to
// fail past their own boundary, but the supervisor assumes they might:
// a returned error or a panic is recorded and the run continues, since
// later stages tolerate empty upstream fields.
func (s *Supervisor) runStage(ctx context.Context, stage Stage, state *entity.PipelineState) {
	start := s.now()
	defer func() {
		s.monitor.RecordRequest("workflow."+stage.Name(), s.now().Sub(start))
		if r := recover(); r != nil {
			state.AddError(fmt.Sprintf("%s: %v", stage.Name(), r))
			state.Step = stage.Name() + "_failed"
			s.monitor.RecordError("workflow." + stage.Name())
			s.log.Error("agent.supervisor", "stage crashed", map[string]interface{}{
				"stage": stage.Name(),
				"panic": fmt.Sprintf("%v", r),
			})
		}
	}()

	if err := stage.Run(ctx, state); err != nil {
		state.AddError(fmt.Sprintf("%s: %v", stage.Name(), err))
		state.Step = stage.Name() + "_failed"
		s.monitor.RecordError("workflow." + stage.Name())
	}
}
