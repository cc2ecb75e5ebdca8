package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"polarad-admin-api/internal/domain"
)

// SubmissionRepository defines the interface for submission data access
type SubmissionRepository interface {
	Create(ctx context.Context, submission *domain.Submission) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Submission, error)
	FindByStatus(ctx context.Context, status domain.SubmissionStatus, page, limit int) ([]*domain.Submission, int64, error)
	Update(ctx context.Context, submission *domain.Submission) error
}

// submissionRepositoryImpl is the GORM implementation of SubmissionRepository
type submissionRepositoryImpl struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new instance of SubmissionRepository
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepositoryImpl{db: db}
}

func (r *submissionRepositoryImpl) Create(ctx context.Context, submission *domain.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	var submission domain.Submission
	if err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepositoryImpl) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Submission, error) {
	var submission domain.Submission
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepositoryImpl) FindByStatus(ctx context.Context, status domain.SubmissionStatus, page, limit int) ([]*domain.Submission, int64, error) {
	var submissions []*domain.Submission
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Submission{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&submissions).Error; err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

func (r *submissionRepositoryImpl) Update(ctx context.Context, submission *domain.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}
