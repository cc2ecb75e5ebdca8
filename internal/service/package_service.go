package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"polarad-admin-api/internal/domain"
	"polarad-admin-api/internal/dto"
	"polarad-admin-api/internal/repository"
	"polarad-admin-api/internal/response"
)

// PackageService defines the interface for service plan management
type PackageService interface {
	CreatePackage(ctx context.Context, req *dto.CreatePackageRequest) (*dto.PackageResponse, error)
	GetPackage(ctx context.Context, id uuid.UUID) (*dto.PackageResponse, error)
	ListActive(ctx context.Context) ([]*dto.PackageResponse, error)
	UpdatePackage(ctx context.Context, id uuid.UUID, req *dto.UpdatePackageRequest) (*dto.PackageResponse, error)
}

type packageServiceImpl struct {
	packageRepo repository.PackageRepository
	logger      *zap.Logger
}

// NewPackageService creates a new instance of PackageService
func NewPackageService(packageRepo repository.PackageRepository, logger *zap.Logger) PackageService {
	return &packageServiceImpl{
		packageRepo: packageRepo,
		logger:      logger,
	}
}

func (s *packageServiceImpl) CreatePackage(ctx context.Context, req *dto.CreatePackageRequest) (*dto.PackageResponse, error) {
	if req.MonthlyFee.IsNegative() || req.SetupFee.IsNegative() {
		return nil, response.NewAppError(response.ErrCodeValidation, "요금은 음수가 될 수 없습니다", "")
	}

	pkg := &domain.Package{
		Name:        req.Name,
		Description: req.Description,
		MonthlyFee:  req.MonthlyFee,
		SetupFee:    req.SetupFee,
		IsActive:    true,
	}
	if err := s.packageRepo.Create(ctx, pkg); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "패키지 생성에 실패했습니다", err.Error())
	}
	return dto.ToPackageResponse(pkg), nil
}

func (s *packageServiceImpl) GetPackage(ctx context.Context, id uuid.UUID) (*dto.PackageResponse, error) {
	pkg, err := s.findPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToPackageResponse(pkg), nil
}

func (s *packageServiceImpl) ListActive(ctx context.Context) ([]*dto.PackageResponse, error) {
	packages, err := s.packageRepo.FindActive(ctx)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "패키지 목록 조회에 실패했습니다", err.Error())
	}
	resp := make([]*dto.PackageResponse, 0, len(packages))
	for _, p := range packages {
		resp = append(resp, dto.ToPackageResponse(p))
	}
	return resp, nil
}

func (s *packageServiceImpl) UpdatePackage(ctx context.Context, id uuid.UUID, req *dto.UpdatePackageRequest) (*dto.PackageResponse, error) {
	pkg, err := s.findPackage(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		pkg.Name = *req.Name
	}
	if req.Description != nil {
		pkg.Description = *req.Description
	}
	if req.MonthlyFee != nil {
		if req.MonthlyFee.IsNegative() {
			return nil, response.NewAppError(response.ErrCodeValidation, "요금은 음수가 될 수 없습니다", "")
		}
		pkg.MonthlyFee = *req.MonthlyFee
	}
	if req.SetupFee != nil {
		if req.SetupFee.IsNegative() {
			return nil, response.NewAppError(response.ErrCodeValidation, "요금은 음수가 될 수 없습니다", "")
		}
		pkg.SetupFee = *req.SetupFee
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}

	if err := s.packageRepo.Update(ctx, pkg); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "패키지 수정에 실패했습니다", err.Error())
	}
	return dto.ToPackageResponse(pkg), nil
}

func (s *packageServiceImpl) findPackage(ctx context.Context, id uuid.UUID) (*domain.Package, error) {
	pkg, err := s.packageRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "패키지를 찾을 수 없습니다", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "패키지 조회에 실패했습니다", err.Error())
	}
	return pkg, nil
}
