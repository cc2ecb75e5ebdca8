package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"polarad-admin-api/internal/domain"
)

// WorkflowRepository defines the interface for workflow data access
type WorkflowRepository interface {
	Create(ctx context.Context, workflow *domain.Workflow, initialLog *domain.WorkflowLog) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Workflow, error)
	FindByIDWithLogs(ctx context.Context, id uuid.UUID) (*domain.Workflow, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Workflow, error)
	FindTypesByUserID(ctx context.Context, userID uuid.UUID) (map[domain.WorkflowType]bool, error)
	FindByStatus(ctx context.Context, status domain.WorkflowStatus, page, limit int) ([]*domain.Workflow, int64, error)
	UpdateStatusWithLog(ctx context.Context, workflowID uuid.UUID, updates map[string]interface{}, log *domain.WorkflowLog) error
}

// workflowRepositoryImpl is the GORM implementation of WorkflowRepository
type workflowRepositoryImpl struct {
	db *gorm.DB
}

// NewWorkflowRepository creates a new instance of WorkflowRepository
func NewWorkflowRepository(db *gorm.DB) WorkflowRepository {
	return &workflowRepositoryImpl{db: db}
}

// Create inserts the workflow and its initial log row in one transaction
func (r *workflowRepositoryImpl) Create(ctx context.Context, workflow *domain.Workflow, initialLog *domain.WorkflowLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(workflow).Error; err != nil {
			return err
		}
		initialLog.WorkflowID = workflow.ID
		return tx.Create(initialLog).Error
	})
}

func (r *workflowRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Workflow, error) {
	var workflow domain.Workflow
	if err := r.db.WithContext(ctx).First(&workflow, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &workflow, nil
}

func (r *workflowRepositoryImpl) FindByIDWithLogs(ctx context.Context, id uuid.UUID) (*domain.Workflow, error) {
	var workflow domain.Workflow
	if err := r.db.WithContext(ctx).
		Preload("Logs", func(db *gorm.DB) *gorm.DB {
			return db.Order("workflow_logs.created_at ASC")
		}).
		First(&workflow, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &workflow, nil
}

func (r *workflowRepositoryImpl) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Workflow, error) {
	var workflows []*domain.Workflow
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&workflows).Error; err != nil {
		return nil, err
	}
	return workflows, nil
}

// FindTypesByUserID returns the set of deliverable types the user already has
func (r *workflowRepositoryImpl) FindTypesByUserID(ctx context.Context, userID uuid.UUID) (map[domain.WorkflowType]bool, error) {
	var types []domain.WorkflowType
	if err := r.db.WithContext(ctx).
		Model(&domain.Workflow{}).
		Where("user_id = ?", userID).
		Pluck("type", &types).Error; err != nil {
		return nil, err
	}

	existing := make(map[domain.WorkflowType]bool, len(types))
	for _, t := range types {
		existing[t] = true
	}
	return existing, nil
}

func (r *workflowRepositoryImpl) FindByStatus(ctx context.Context, status domain.WorkflowStatus, page, limit int) ([]*domain.Workflow, int64, error) {
	var workflows []*domain.Workflow
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Workflow{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("updated_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&workflows).Error; err != nil {
		return nil, 0, err
	}

	return workflows, total, nil
}

// UpdateStatusWithLog applies the row update and appends the log row inside one
// transaction, so the workflow and its log can never drift apart
func (r *workflowRepositoryImpl) UpdateStatusWithLog(ctx context.Context, workflowID uuid.UUID, updates map[string]interface{}, log *domain.WorkflowLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Workflow{}).
			Where("id = ?", workflowID).
			Updates(updates).Error; err != nil {
			return err
		}
		log.WorkflowID = workflowID
		return tx.Create(log).Error
	})
}
