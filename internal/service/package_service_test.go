package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"polarad-admin-api/internal/domain"
	"polarad-admin-api/internal/dto"
	"polarad-admin-api/internal/response"
)

func TestPackageService_CreatePackage(t *testing.T) {
	tests := []struct {
		name        string
		req         *dto.CreatePackageRequest
		wantErr     bool
		wantErrCode string
	}{
		{
			name: "성공: 패키지 생성",
			req: &dto.CreatePackageRequest{
				Name:       "프리미엄",
				MonthlyFee: decimal.NewFromInt(900000),
				SetupFee:   decimal.NewFromInt(1500000),
			},
		},
		{
			name: "성공: 무료 패키지 (0원)",
			req: &dto.CreatePackageRequest{
				Name:       "체험",
				MonthlyFee: decimal.Zero,
				SetupFee:   decimal.Zero,
			},
		},
		{
			name: "실패: 음수 요금",
			req: &dto.CreatePackageRequest{
				Name:       "이상한 패키지",
				MonthlyFee: decimal.NewFromInt(-100),
				SetupFee:   decimal.Zero,
			},
			wantErr:     true,
			wantErrCode: response.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			mockPackageRepo := &MockPackageRepository{
				CreateFunc: func(ctx context.Context, pkg *domain.Package) error {
					pkg.ID = uuid.New()
					return nil
				},
			}
			logger, _ := zap.NewDevelopment()
			service := NewPackageService(mockPackageRepo, logger)

			// When
			got, err := service.CreatePackage(context.Background(), tt.req)

			// Then
			if tt.wantErr {
				if err == nil {
					t.Fatal("CreatePackage() error = nil, want error")
				}
				if appErr, ok := err.(*response.AppError); ok {
					if appErr.Code != tt.wantErrCode {
						t.Errorf("CreatePackage() error code = %v, want %v", appErr.Code, tt.wantErrCode)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("CreatePackage() unexpected error = %v", err)
			}
			if !got.IsActive {
				t.Error("new packages must start active")
			}
		})
	}
}

func TestPackageService_UpdatePackage(t *testing.T) {
	packageID := uuid.New()

	t.Run("부분 수정: 지정한 필드만 변경", func(t *testing.T) {
		// Given
		var saved *domain.Package
		mockPackageRepo := &MockPackageRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Package, error) {
				return &domain.Package{
					BaseModel:  domain.BaseModel{ID: packageID},
					Name:       "스탠다드",
					MonthlyFee: decimal.NewFromInt(500000),
					SetupFee:   decimal.NewFromInt(1000000),
					IsActive:   true,
				}, nil
			},
			UpdateFunc: func(ctx context.Context, pkg *domain.Package) error {
				saved = pkg
				return nil
			},
		}
		logger, _ := zap.NewDevelopment()
		service := NewPackageService(mockPackageRepo, logger)

		newFee := decimal.NewFromInt(600000)
		inactive := false

		// When
		_, err := service.UpdatePackage(context.Background(), packageID, &dto.UpdatePackageRequest{
			MonthlyFee: &newFee,
			IsActive:   &inactive,
		})

		// Then
		if err != nil {
			t.Fatalf("UpdatePackage() unexpected error = %v", err)
		}
		if !saved.MonthlyFee.Equal(newFee) {
			t.Errorf("monthly fee = %s, want %s", saved.MonthlyFee, newFee)
		}
		if saved.IsActive {
			t.Error("expected the package to be deactivated")
		}
		if saved.Name != "스탠다드" {
			t.Errorf("name changed unexpectedly: %q", saved.Name)
		}
		if !saved.SetupFee.Equal(decimal.NewFromInt(1000000)) {
			t.Errorf("setup fee changed unexpectedly: %s", saved.SetupFee)
		}
	})
}
