package dto

import (
	"time"

	"github.com/google/uuid"

	"ai-procurement-be/internal/entity"
)

type RunProcurementRequest struct {
	Query       string   `json:"query" validate:"required,min=2,max=200"`
	Category    string   `json:"category"`
	Preference  string   `json:"preference"`
	Platforms   []string `json:"platforms"`
	CatalogPath string   `json:"catalog_path"`
}

type RunProcurementResponse struct {
	RunID            uuid.UUID                          `json:"run_id"`
	Query            string                             `json:"query"`
	Category         entity.ProductCategory             `json:"product_category"`
	MarketData       []entity.PricePoint                `json:"market_data"`
	PriceAnalysis    entity.PriceForecast               `json:"price_analysis"`
	ComplianceChecks map[string]entity.ComplianceReport `json:"compliance_checks"`
	Recommendation   entity.ProcurementRecommendation   `json:"final_recommendation"`
	Errors           []string                           `json:"errors"`
	Step             string                             `json:"step"`
	ExecutionTime    float64                            `json:"execution_time_seconds"`
	CompletedAt      time.Time                          `json:"completed_at"`
}

// RunSummaryResponse is the list view of past runs; the heavy JSON
// columns stay out of it.
type RunSummaryResponse struct {
	RunID         uuid.UUID              `json:"run_id"`
	Query         string                 `json:"query"`
	Category      entity.ProductCategory `json:"product_category"`
	Step          string                 `json:"step"`
	ErrorCount    int                    `json:"error_count"`
	ExecutionTime float64                `json:"execution_time_seconds"`
	CompletedAt   time.Time              `json:"completed_at"`
}

type ListRunsRequest struct {
	Category     string `json:"category"`
	Step         string `json:"step"`
	DegradedOnly bool   `json:"degraded_only"`
	Limit        int    `json:"limit"`
	Offset       int    `json:"offset"`
}

// RunRecordedMessage travels on the internal bus from the procurement
// service to the consumer after a run is persisted.
type RunRecordedMessage struct {
	RunID uuid.UUID `json:"run_id"`
}
