package entity

import (
	"time"

	"github.com/google/uuid"
)

// PipelineState is the single mutable record threaded through the
// market -> price -> compliance stages of one workflow run. It is
// exclusively owned by that run; stages mutate it sequentially and it
// is never shared across goroutines.
type PipelineState struct {
	Query         string
	Category      ProductCategory
	CollectedData map[string]any

	MarketData       []PricePoint
	PriceAnalysis    PriceForecast
	ComplianceChecks map[string]ComplianceReport

	Errors []string
	Step   string
}

// NewPipelineState creates a fresh state with all result fields at
// their type-appropriate empty defaults.
func NewPipelineState(query string, category ProductCategory, collected map[string]any) *PipelineState {
	if collected == nil {
		collected = map[string]any{}
	}
	return &PipelineState{
		Query:            query,
		Category:         category,
		CollectedData:    collected,
		MarketData:       []PricePoint{},
		PriceAnalysis:    EmptyForecast(),
		ComplianceChecks: map[string]ComplianceReport{},
		Errors:           []string{},
		Step:             "initialized",
	}
}

// AddError appends a non-fatal error message. Errors are data, not a
// failure signal: a run with errors still completes.
func (s *PipelineState) AddError(msg string) {
	s.Errors = append(s.Errors, msg)
}

// CollectedString reads a string entry from the side-channel config.
func (s *PipelineState) CollectedString(key, fallback string) string {
	if v, ok := s.CollectedData[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// CollectedStrings reads a string-slice entry from the side-channel
// config, tolerating both []string and []any shapes.
func (s *PipelineState) CollectedStrings(key string, fallback []string) []string {
	switch v := s.CollectedData[key].(type) {
	case []string:
		if len(v) > 0 {
			return v
		}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}

// WorkflowResult is what the supervisor hands back to the caller. It is
// always structurally complete; callers inspect Errors/Step to detect
// degradation.
type WorkflowResult struct {
	RunID            uuid.UUID                   `json:"run_id"`
	Query            string                      `json:"query"`
	Category         ProductCategory             `json:"product_category"`
	MarketData       []PricePoint                `json:"market_data"`
	PriceAnalysis    PriceForecast               `json:"price_analysis"`
	ComplianceChecks map[string]ComplianceReport `json:"compliance_checks"`
	Recommendation   ProcurementRecommendation   `json:"final_recommendation"`
	Errors           []string                    `json:"errors"`
	Step             string                      `json:"step"`
	ExecutionTime    float64                     `json:"execution_time_seconds"`
	CompletedAt      time.Time                   `json:"completed_at"`
}
