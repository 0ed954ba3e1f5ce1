package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"

	"ai-procurement-be/internal/agent"
	"ai-procurement-be/internal/dto"
	"ai-procurement-be/internal/entity"
	"ai-procurement-be/internal/pkg/logger"
	"ai-procurement-be/internal/repository/unitofwork"
	"ai-procurement-be/pkg/safety"
)

// RunRecordedTopic is the internal bus topic announcing a persisted run.
const RunRecordedTopic = "PROCUREMENT_RUN_RECORDED"

type IProcurementService interface {
	RunProcurement(ctx context.Context, req *dto.RunProcurementRequest) (*dto.RunProcurementResponse, error)
}

type procurementService struct {
	supervisor *agent.Supervisor
	builder    *RecommendationBuilder
	uowFactory unitofwork.RepositoryFactory
	pubSub     *gochannel.GoChannel
	logger     logger.ILogger
}

func NewProcurementService(
	supervisor *agent.Supervisor,
	builder *RecommendationBuilder,
	uowFactory unitofwork.RepositoryFactory,
	pubSub *gochannel.GoChannel,
	log logger.ILogger,
) IProcurementService {
	return &procurementService{
		supervisor: supervisor,
		builder:    builder,
		uowFactory: uowFactory,
		pubSub:     pubSub,
		logger:     log,
	}
}

func (s *procurementService) RunProcurement(ctx context.Context, req *dto.RunProcurementRequest) (*dto.RunProcurementResponse, error) {
	query := safety.SanitizeInput(req.Query)
	if query == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "query is empty after sanitization")
	}

	category := entity.ParseProductCategory(req.Category)
	collected := map[string]any{}
	if req.Preference != "" {
		collected["preference"] = req.Preference
	}
	if len(req.Platforms) > 0 {
		collected["platforms"] = req.Platforms
	}
	if req.CatalogPath != "" {
		collected["catalog_path"] = safety.SanitizeInput(req.CatalogPath)
	}

	result := s.supervisor.Run(ctx, query, category, collected)
	result.Recommendation = s.builder.Build(result)

	if err := s.persist(ctx, result); err != nil {
		// A run that cannot be stored is still a run the caller paid
		// for; degrade the history, not the response.
		result.Errors = append(result.Errors, "run history not persisted: "+err.Error())
		s.logger.Error("service.procurement", "failed to persist run", map[string]interface{}{
			"run_id": result.RunID.String(),
			"error":  err.Error(),
		})
	} else {
		s.announce(result)
	}

	return toRunResponse(result), nil
}

func (s *procurementService) persist(ctx context.Context, result *entity.WorkflowResult) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.WorkflowRunRepository().Create(ctx, result); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *procurementService) announce(result *entity.WorkflowResult) {
	payload, err := json.Marshal(dto.RunRecordedMessage{RunID: result.RunID})
	if err != nil {
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(RunRecordedTopic, msg); err != nil {
		s.logger.Warn("service.procurement", "failed to announce run", map[string]interface{}{
			"run_id": result.RunID.String(),
			"error":  err.Error(),
		})
	}
}

func toRunResponse(result *entity.WorkflowResult) *dto.RunProcurementResponse {
	return &dto.RunProcurementResponse{
		RunID:            result.RunID,
		Query:            result.Query,
		Category:         result.Category,
		MarketData:       result.MarketData,
		PriceAnalysis:    result.PriceAnalysis,
		ComplianceChecks: result.ComplianceChecks,
		Recommendation:   result.Recommendation,
		Errors:           result.Errors,
		Step:             result.Step,
		ExecutionTime:    result.ExecutionTime,
		CompletedAt:      result.CompletedAt,
	}
}
