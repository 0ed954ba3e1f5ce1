package contract

import (
	"context"

	"github.com/google/uuid"

	"ai-procurement-be/internal/entity"
	"ai-procurement-be/internal/repository/specification"
)

type WorkflowRunRepository interface {
	Create(ctx context.Context, result *entity.WorkflowResult) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WorkflowResult, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WorkflowResult, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
