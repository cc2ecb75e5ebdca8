package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"polarad-admin-api/internal/client"
	"polarad-admin-api/internal/domain"
	"polarad-admin-api/internal/response"
	"polarad-admin-api/internal/util"
)

const testCryptoKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func testCipher(t *testing.T) *util.TokenCipher {
	t.Helper()
	cipher, err := util.NewTokenCipher(testCryptoKey)
	if err != nil {
		t.Fatalf("failed to build test cipher: %v", err)
	}
	return cipher
}

func TestAdAccountService_Connect(t *testing.T) {
	accountID := uuid.New()

	t.Run("성공: 토큰 검증 후 암호화 저장", func(t *testing.T) {
		// Given
		expiresAt := time.Now().AddDate(0, 0, 60)
		var saved *domain.AdAccount
		mockAdAccountRepo := &MockAdAccountRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.AdAccount, error) {
				return &domain.AdAccount{
					BaseModel:  domain.BaseModel{ID: accountID},
					Name:       "테스트 계정",
					AuthStatus: domain.AdAccountAuthRequired,
				}, nil
			},
			UpdateFunc: func(ctx context.Context, account *domain.AdAccount) error {
				saved = account
				return nil
			},
		}
		mockMetaClient := &MockMetaClient{
			ValidateTokenFunc: func(ctx context.Context, token string) (*client.TokenInfo, error) {
				return &client.TokenInfo{AccountID: "9876543210", ExpiresAt: &expiresAt}, nil
			},
		}
		cipher := testCipher(t)
		logger, _ := zap.NewDevelopment()
		service := NewAdAccountService(mockAdAccountRepo, mockMetaClient, cipher, logger)

		// When
		got, err := service.Connect(context.Background(), accountID, "EAAB-access-token")

		// Then
		if err != nil {
			t.Fatalf("Connect() unexpected error = %v", err)
		}
		if saved == nil {
			t.Fatal("expected the account to be saved")
		}
		if saved.AuthStatus != domain.AdAccountAuthActive {
			t.Errorf("auth status = %v, want ACTIVE", saved.AuthStatus)
		}
		if saved.MetaAccountID != "9876543210" {
			t.Errorf("meta account ID = %q", saved.MetaAccountID)
		}
		if saved.AccessTokenEnc == "" || saved.AccessTokenEnc == "EAAB-access-token" {
			t.Error("token must be stored encrypted")
		}
		// 저장된 토큰은 복호화로 원문 복원 가능
		plain, dErr := cipher.Decrypt(saved.AccessTokenEnc)
		if dErr != nil || plain != "EAAB-access-token" {
			t.Errorf("decrypted token = %q, %v", plain, dErr)
		}
		if got.AuthStatus != domain.AdAccountAuthActive {
			t.Errorf("response auth status = %v, want ACTIVE", got.AuthStatus)
		}
	})

	t.Run("실패: 토큰 검증 실패", func(t *testing.T) {
		// Given
		mockAdAccountRepo := &MockAdAccountRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.AdAccount, error) {
				return &domain.AdAccount{BaseModel: domain.BaseModel{ID: accountID}}, nil
			},
		}
		mockMetaClient := &MockMetaClient{
			ValidateTokenFunc: func(ctx context.Context, token string) (*client.TokenInfo, error) {
				return nil, errors.New("invalid oauth access token")
			},
		}
		logger, _ := zap.NewDevelopment()
		service := NewAdAccountService(mockAdAccountRepo, mockMetaClient, testCipher(t), logger)

		// When
		_, err := service.Connect(context.Background(), accountID, "bad-token")

		// Then
		if err == nil {
			t.Fatal("Connect() error = nil, want error")
		}
		if appErr, ok := err.(*response.AppError); ok {
			if appErr.Code != response.ErrCodeValidation {
				t.Errorf("Connect() error code = %v, want VALIDATION_ERROR", appErr.Code)
			}
		}
	})
}

func TestAdAccountService_MarkExpiredTokens(t *testing.T) {
	// Given: 만료된 토큰 계정 둘, 하나는 갱신 실패
	expired := []*domain.AdAccount{
		{BaseModel: domain.BaseModel{ID: uuid.New()}, AuthStatus: domain.AdAccountAuthActive},
		{BaseModel: domain.BaseModel{ID: uuid.New()}, AuthStatus: domain.AdAccountAuthActive},
	}
	mockAdAccountRepo := &MockAdAccountRepository{
		FindWithExpiredTokensFunc: func(ctx context.Context, now time.Time) ([]*domain.AdAccount, error) {
			return expired, nil
		},
		UpdateFunc: func(ctx context.Context, account *domain.AdAccount) error {
			if account.ID == expired[1].ID {
				return errors.New("database error")
			}
			return nil
		},
	}
	logger, _ := zap.NewDevelopment()
	service := NewAdAccountService(mockAdAccountRepo, &MockMetaClient{}, testCipher(t), logger)

	// When
	marked, err := service.MarkExpiredTokens(context.Background(), time.Now())

	// Then
	if err != nil {
		t.Fatalf("MarkExpiredTokens() unexpected error = %v", err)
	}
	if marked != 1 {
		t.Errorf("MarkExpiredTokens() = %d, want 1 (one update failed)", marked)
	}
	if expired[0].AuthStatus != domain.AdAccountAuthTokenExpired {
		t.Errorf("auth status = %v, want TOKEN_EXPIRED", expired[0].AuthStatus)
	}
}

func TestAdAccountService_ListRawData_InvalidRange(t *testing.T) {
	accountID := uuid.New()

	// Given
	mockAdAccountRepo := &MockAdAccountRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.AdAccount, error) {
			return &domain.AdAccount{BaseModel: domain.BaseModel{ID: accountID}}, nil
		},
	}
	logger, _ := zap.NewDevelopment()
	service := NewAdAccountService(mockAdAccountRepo, &MockMetaClient{}, testCipher(t), logger)

	// When
	_, err := service.ListRawData(context.Background(), accountID,
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	// Then
	if err == nil {
		t.Fatal("ListRawData() error = nil, want error")
	}
	if appErr, ok := err.(*response.AppError); ok {
		if appErr.Code != response.ErrCodeValidation {
			t.Errorf("ListRawData() error code = %v, want VALIDATION_ERROR", appErr.Code)
		}
	}
}
