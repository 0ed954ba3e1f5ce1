package events

import "time"

// Event is the contract for everything published on the bus, internal
// or external.
type Event interface {
	// EventType returns the unique code for this event
	// (e.g. "PROCUREMENT_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation used by the event constructors
// below.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string { return e.Type }

func (e BaseEvent) Payload() map[string]interface{} { return e.Data }

func (e BaseEvent) Timestamp() time.Time { return e.OccurredAt }

// Workflow lifecycle event codes.
const (
	TypeProcurementCompleted = "PROCUREMENT_COMPLETED"
	TypeProcurementDegraded  = "PROCUREMENT_DEGRADED"
	TypeProcurementFailed    = "PROCUREMENT_FAILED"
	TypeApprovalRequired     = "APPROVAL_REQUIRED"
)

// NewProcurementCompleted marks one run as finished. Degraded runs
// (partial results, non-empty error list) carry their error count so
// subscribers can triage without fetching the full result.
func NewProcurementCompleted(runID, query, step string, errorCount int, executionSeconds float64) Event {
	t := TypeProcurementCompleted
	if errorCount > 0 {
		t = TypeProcurementDegraded
	}
	return BaseEvent{
		Type: t,
		Data: map[string]interface{}{
			"run_id":         runID,
			"query":          query,
			"step":           step,
			"error_count":    errorCount,
			"execution_time": executionSeconds,
		},
		OccurredAt: time.Now(),
	}
}

// NewProcurementFailed marks a run that never produced usable results.
func NewProcurementFailed(runID, query, reason string) Event {
	return BaseEvent{
		Type: TypeProcurementFailed,
		Data: map[string]interface{}{
			"run_id": runID,
			"query":  query,
			"reason": reason,
		},
		OccurredAt: time.Now(),
	}
}

// NewApprovalRequired asks a human to sign off a low-confidence or
// high-risk recommendation.
func NewApprovalRequired(runID, query, reason string, confidence float64) Event {
	return BaseEvent{
		Type: TypeApprovalRequired,
		Data: map[string]interface{}{
			"run_id":     runID,
			"query":      query,
			"reason":     reason,
			"confidence": confidence,
		},
		OccurredAt: time.Now(),
	}
}
