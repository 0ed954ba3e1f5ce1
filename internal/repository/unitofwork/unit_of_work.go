package unitofwork

import (
	"context"

	"ai-procurement-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	WorkflowRunRepository() contract.WorkflowRunRepository
}
