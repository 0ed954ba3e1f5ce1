package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"ai-procurement-be/internal/entity"
	"ai-procurement-be/internal/model"
)

type WorkflowMapper struct{}

func NewWorkflowMapper() *WorkflowMapper {
	return &WorkflowMapper{}
}

func (m *WorkflowMapper) ToModel(r *entity.WorkflowResult) (*model.WorkflowRun, error) {
	if r == nil {
		return nil, nil
	}

	marketData, err := json.Marshal(r.MarketData)
	if err != nil {
		return nil, err
	}
	priceAnalysis, err := json.Marshal(r.PriceAnalysis)
	if err != nil {
		return nil, err
	}
	complianceChecks, err := json.Marshal(r.ComplianceChecks)
	if err != nil {
		return nil, err
	}
	recommendation, err := json.Marshal(r.Recommendation)
	if err != nil {
		return nil, err
	}
	errs, err := json.Marshal(r.Errors)
	if err != nil {
		return nil, err
	}

	return &model.WorkflowRun{
		Id:               r.RunID,
		Query:            r.Query,
		Category:         string(r.Category),
		Step:             r.Step,
		MarketData:       datatypes.JSON(marketData),
		PriceAnalysis:    datatypes.JSON(priceAnalysis),
		ComplianceChecks: datatypes.JSON(complianceChecks),
		Recommendation:   datatypes.JSON(recommendation),
		Errors:           datatypes.JSON(errs),
		ErrorCount:       len(r.Errors),
		ExecutionTime:    r.ExecutionTime,
		CompletedAt:      r.CompletedAt,
	}, nil
}

func (m *WorkflowMapper) ToEntity(run *model.WorkflowRun) (*entity.WorkflowResult, error) {
	if run == nil {
		return nil, nil
	}

	result := &entity.WorkflowResult{
		RunID:         run.Id,
		Query:         run.Query,
		Category:      entity.ProductCategory(run.Category),
		Step:          run.Step,
		ExecutionTime: run.ExecutionTime,
		CompletedAt:   run.CompletedAt,
	}

	if len(run.MarketData) > 0 {
		if err := json.Unmarshal(run.MarketData, &result.MarketData); err != nil {
			return nil, err
		}
	}
	if len(run.PriceAnalysis) > 0 {
		if err := json.Unmarshal(run.PriceAnalysis, &result.PriceAnalysis); err != nil {
			return nil, err
		}
	}
	if len(run.ComplianceChecks) > 0 {
		if err := json.Unmarshal(run.ComplianceChecks, &result.ComplianceChecks); err != nil {
			return nil, err
		}
	}
	if len(run.Recommendation) > 0 {
		if err := json.Unmarshal(run.Recommendation, &result.Recommendation); err != nil {
			return nil, err
		}
	}
	if len(run.Errors) > 0 {
		if err := json.Unmarshal(run.Errors, &result.Errors); err != nil {
			return nil, err
		}
	}
	if result.MarketData == nil {
		result.MarketData = []entity.PricePoint{}
	}
	if result.ComplianceChecks == nil {
		result.ComplianceChecks = map[string]entity.ComplianceReport{}
	}
	if result.Errors == nil {
		result.Errors = []string{}
	}
	return result, nil
}

func (m *WorkflowMapper) ToEntities(runs []*model.WorkflowRun) ([]*entity.WorkflowResult, error) {
	entities := make([]*entity.WorkflowResult, 0, len(runs))
	for _, run := range runs {
		e, err := m.ToEntity(run)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}
