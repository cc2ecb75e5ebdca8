package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"polarad-admin-api/internal/domain"
)

// DesignRepository defines the interface for design data access
type DesignRepository interface {
	Create(ctx context.Context, design *domain.Design) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Design, error)
	FindByIDWithVersions(ctx context.Context, id uuid.UUID) (*domain.Design, error)
	FindByWorkflowID(ctx context.Context, workflowID uuid.UUID) (*domain.Design, error)
	Update(ctx context.Context, design *domain.Design) error
	AppendVersion(ctx context.Context, designID uuid.UUID, version *domain.DesignVersion) error
	FindVersionByID(ctx context.Context, versionID uuid.UUID) (*domain.DesignVersion, error)
	AppendFeedback(ctx context.Context, feedback *domain.DesignFeedback) error
	FindFeedbacksByVersion(ctx context.Context, versionID uuid.UUID) ([]*domain.DesignFeedback, error)
}

// designRepositoryImpl is the GORM implementation of DesignRepository
type designRepositoryImpl struct {
	db *gorm.DB
}

// NewDesignRepository creates a new instance of DesignRepository
func NewDesignRepository(db *gorm.DB) DesignRepository {
	return &designRepositoryImpl{db: db}
}

func (r *designRepositoryImpl) Create(ctx context.Context, design *domain.Design) error {
	return r.db.WithContext(ctx).Create(design).Error
}

func (r *designRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Design, error) {
	var design domain.Design
	if err := r.db.WithContext(ctx).First(&design, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &design, nil
}

func (r *designRepositoryImpl) FindByIDWithVersions(ctx context.Context, id uuid.UUID) (*domain.Design, error) {
	var design domain.Design
	if err := r.db.WithContext(ctx).
		Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("design_versions.version ASC")
		}).
		Preload("Versions.Feedbacks", func(db *gorm.DB) *gorm.DB {
			return db.Order("design_feedbacks.created_at ASC")
		}).
		First(&design, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &design, nil
}

func (r *designRepositoryImpl) FindByWorkflowID(ctx context.Context, workflowID uuid.UUID) (*domain.Design, error) {
	var design domain.Design
	if err := r.db.WithContext(ctx).
		Where("workflow_id = ?", workflowID).
		First(&design).Error; err != nil {
		return nil, err
	}
	return &design, nil
}

func (r *designRepositoryImpl) Update(ctx context.Context, design *domain.Design) error {
	return r.db.WithContext(ctx).Save(design).Error
}

// AppendVersion bumps current_version and inserts the version row in one
// transaction so version numbers stay dense and monotonic
func (r *designRepositoryImpl) AppendVersion(ctx context.Context, designID uuid.UUID, version *domain.DesignVersion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var design domain.Design
		if err := tx.First(&design, "id = ?", designID).Error; err != nil {
			return err
		}

		next := design.CurrentVersion + 1
		if err := tx.Model(&domain.Design{}).
			Where("id = ?", designID).
			Update("current_version", next).Error; err != nil {
			return err
		}

		version.DesignID = designID
		version.Version = next
		return tx.Create(version).Error
	})
}

func (r *designRepositoryImpl) FindVersionByID(ctx context.Context, versionID uuid.UUID) (*domain.DesignVersion, error) {
	var version domain.DesignVersion
	if err := r.db.WithContext(ctx).First(&version, "id = ?", versionID).Error; err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *designRepositoryImpl) AppendFeedback(ctx context.Context, feedback *domain.DesignFeedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *designRepositoryImpl) FindFeedbacksByVersion(ctx context.Context, versionID uuid.UUID) ([]*domain.DesignFeedback, error) {
	var feedbacks []*domain.DesignFeedback
	if err := r.db.WithContext(ctx).
		Where("version_id = ?", versionID).
		Order("created_at ASC").
		Find(&feedbacks).Error; err != nil {
		return nil, err
	}
	return feedbacks, nil
}
