package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"polarad-admin-api/internal/domain"
)

// PackageRepository defines the interface for package data access
type PackageRepository interface {
	Create(ctx context.Context, pkg *domain.Package) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Package, error)
	FindActive(ctx context.Context) ([]*domain.Package, error)
	Update(ctx context.Context, pkg *domain.Package) error
}

type packageRepositoryImpl struct {
	db *gorm.DB
}

// NewPackageRepository creates a new instance of PackageRepository
func NewPackageRepository(db *gorm.DB) PackageRepository {
	return &packageRepositoryImpl{db: db}
}

func (r *packageRepositoryImpl) Create(ctx context.Context, pkg *domain.Package) error {
	return r.db.WithContext(ctx).Create(pkg).Error
}

func (r *packageRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Package, error) {
	var pkg domain.Package
	if err := r.db.WithContext(ctx).First(&pkg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *packageRepositoryImpl) FindActive(ctx context.Context) ([]*domain.Package, error) {
	var pkgs []*domain.Package
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("monthly_fee ASC").
		Find(&pkgs).Error; err != nil {
		return nil, err
	}
	return pkgs, nil
}

func (r *packageRepositoryImpl) Update(ctx context.Context, pkg *domain.Package) error {
	return r.db.WithContext(ctx).Save(pkg).Error
}
