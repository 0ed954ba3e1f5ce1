package service

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-procurement-be/internal/dto"
	"ai-procurement-be/internal/entity"
	"ai-procurement-be/internal/repository/specification"
	"ai-procurement-be/internal/repository/unitofwork"
)

const defaultHistoryLimit = 20

type IHistoryService interface {
	ListRuns(ctx context.Context, req *dto.ListRunsRequest) ([]*dto.RunSummaryResponse, error)
	ShowRun(ctx context.Context, id uuid.UUID) (*dto.RunProcurementResponse, error)
}

type historyService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewHistoryService(uowFactory unitofwork.RepositoryFactory) IHistoryService {
	return &historyService{uowFactory: uowFactory}
}

func (s *historyService) ListRuns(ctx context.Context, req *dto.ListRunsRequest) ([]*dto.RunSummaryResponse, error) {
	specs := []specification.Specification{
		specification.OrderBy{Field: "completed_at", Desc: true},
	}
	if req.Category != "" {
		specs = append(specs, specification.ByCategory{Category: string(entity.ParseProductCategory(req.Category))})
	}
	if req.Step != "" {
		specs = append(specs, specification.ByStep{Step: req.Step})
	}
	if req.DegradedOnly {
		specs = append(specs, specification.Degraded{})
	}

	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = defaultHistoryLimit
	}
	specs = append(specs, specification.Pagination{Limit: limit, Offset: req.Offset})

	uow := s.uowFactory.NewUnitOfWork(ctx)
	runs, err := uow.WorkflowRunRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.RunSummaryResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, &dto.RunSummaryResponse{
			RunID:         run.RunID,
			Query:         run.Query,
			Category:      run.Category,
			Step:          run.Step,
			ErrorCount:    len(run.Errors),
			ExecutionTime: run.ExecutionTime,
			CompletedAt:   run.CompletedAt,
		})
	}
	return out, nil
}

func (s *historyService) ShowRun(ctx context.Context, id uuid.UUID) (*dto.RunProcurementResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	run, err := uow.WorkflowRunRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "run not found")
	}
	return toRunResponse(run), nil
}
