package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ai-procurement-be/internal/entity"
	"ai-procurement-be/internal/mapper"
	"ai-procurement-be/internal/model"
	"ai-procurement-be/internal/repository/contract"
	"ai-procurement-be/internal/repository/specification"
)

type WorkflowRunRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WorkflowMapper
}

func NewWorkflowRunRepository(db *gorm.DB) contract.WorkflowRunRepository {
	return &WorkflowRunRepositoryImpl{
		db:     db,
		mapper: mapper.NewWorkflowMapper(),
	}
}

func (r *WorkflowRunRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *WorkflowRunRepositoryImpl) Create(ctx context.Context, result *entity.WorkflowResult) error {
	m, err := r.mapper.ToModel(result)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *WorkflowRunRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.WorkflowRun{}, id).Error
}

func (r *WorkflowRunRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WorkflowResult, error) {
	var m model.WorkflowRun
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m)
}

func (r *WorkflowRunRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WorkflowResult, error) {
	var models []*model.WorkflowRun
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models)
}

func (r *WorkflowRunRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.WorkflowRun{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
