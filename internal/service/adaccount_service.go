package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"polarad-admin-api/internal/client"
	"polarad-admin-api/internal/domain"
	"polarad-admin-api/internal/dto"
	"polarad-admin-api/internal/repository"
	"polarad-admin-api/internal/response"
	"polarad-admin-api/internal/util"
)

// AdAccountService defines the interface for Meta ad account management
type AdAccountService interface {
	CreateAdAccount(ctx context.Context, req *dto.CreateAdAccountRequest) (*dto.AdAccountResponse, error)
	GetAdAccount(ctx context.Context, id uuid.UUID) (*dto.AdAccountResponse, error)
	ListAdAccounts(ctx context.Context) ([]*dto.AdAccountResponse, error)
	// Connect validates the access token against the Graph API, encrypts and
	// stores it, and stamps the auth status
	Connect(ctx context.Context, id uuid.UUID, accessToken string) (*dto.AdAccountResponse, error)
	ListRawData(ctx context.Context, id uuid.UUID, from, to time.Time) ([]*dto.RawDataResponse, error)
	// MarkExpiredTokens flags accounts whose token passed its expiry,
	// called by the cron sweep
	MarkExpiredTokens(ctx context.Context, now time.Time) (int, error)
}

// adAccountServiceImpl is the implementation of AdAccountService
type adAccountServiceImpl struct {
	adAccountRepo repository.AdAccountRepository
	metaClient    client.MetaClient
	cipher        *util.TokenCipher
	logger        *zap.Logger
}

// NewAdAccountService creates a new instance of AdAccountService
func NewAdAccountService(
	adAccountRepo repository.AdAccountRepository,
	metaClient client.MetaClient,
	cipher *util.TokenCipher,
	logger *zap.Logger,
) AdAccountService {
	return &adAccountServiceImpl{
		adAccountRepo: adAccountRepo,
		metaClient:    metaClient,
		cipher:        cipher,
		logger:        logger,
	}
}

// CreateAdAccount registers an account shell awaiting token connection
func (s *adAccountServiceImpl) CreateAdAccount(ctx context.Context, req *dto.CreateAdAccountRequest) (*dto.AdAccountResponse, error) {
	account := &domain.AdAccount{
		Name:         req.Name,
		AuthStatus:   domain.AdAccountAuthRequired,
		ServiceStart: req.ServiceStart,
		ServiceEnd:   req.ServiceEnd,
	}
	if err := s.adAccountRepo.Create(ctx, account); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "광고 계정 등록에 실패했습니다", err.Error())
	}
	return dto.ToAdAccountResponse(account), nil
}

// GetAdAccount returns one ad account, never with its token
func (s *adAccountServiceImpl) GetAdAccount(ctx context.Context, id uuid.UUID) (*dto.AdAccountResponse, error) {
	account, err := s.findAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToAdAccountResponse(account), nil
}

// ListAdAccounts returns all registered ad accounts
func (s *adAccountServiceImpl) ListAdAccounts(ctx context.Context) ([]*dto.AdAccountResponse, error) {
	accounts, err := s.adAccountRepo.FindAll(ctx)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "광고 계정 목록 조회에 실패했습니다", err.Error())
	}
	resp := make([]*dto.AdAccountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, dto.ToAdAccountResponse(a))
	}
	return resp, nil
}

// Connect validates and stores a Meta access token. The token is encrypted
// at rest and never returned by any endpoint.
func (s *adAccountServiceImpl) Connect(ctx context.Context, id uuid.UUID, accessToken string) (*dto.AdAccountResponse, error) {
	account, err := s.findAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	info, err := s.metaClient.ValidateToken(ctx, accessToken)
	if err != nil {
		s.logger.Warn("Meta token validation failed",
			zap.String("ad_account_id", id.String()),
			zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeValidation, "액세스 토큰 검증에 실패했습니다", err.Error())
	}

	encrypted, err := s.cipher.Encrypt(accessToken)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "토큰 암호화에 실패했습니다", err.Error())
	}

	account.MetaAccountID = info.AccountID
	account.AccessTokenEnc = encrypted
	account.AuthStatus = domain.AdAccountAuthActive
	account.TokenExpiresAt = info.ExpiresAt
	if err := s.adAccountRepo.Update(ctx, account); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "광고 계정 갱신에 실패했습니다", err.Error())
	}

	s.logger.Info("Ad account connected",
		zap.String("ad_account_id", id.String()),
		zap.String("meta_account_id", info.AccountID))
	return dto.ToAdAccountResponse(account), nil
}

// ListRawData returns collected performance rows for a date range
func (s *adAccountServiceImpl) ListRawData(ctx context.Context, id uuid.UUID, from, to time.Time) ([]*dto.RawDataResponse, error) {
	if _, err := s.findAccount(ctx, id); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, response.NewAppError(response.ErrCodeValidation, "조회 기간이 올바르지 않습니다", "")
	}

	rows, err := s.adAccountRepo.FindRawData(ctx, id, from, to)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "광고 데이터 조회에 실패했습니다", err.Error())
	}
	resp := make([]*dto.RawDataResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, dto.ToRawDataResponse(r))
	}
	return resp, nil
}

// MarkExpiredTokens flags ACTIVE accounts whose token expiry has passed
func (s *adAccountServiceImpl) MarkExpiredTokens(ctx context.Context, now time.Time) (int, error) {
	accounts, err := s.adAccountRepo.FindWithExpiredTokens(ctx, now)
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, account := range accounts {
		account.AuthStatus = domain.AdAccountAuthTokenExpired
		if err := s.adAccountRepo.Update(ctx, account); err != nil {
			s.logger.Error("Failed to mark token expired",
				zap.String("ad_account_id", account.ID.String()),
				zap.Error(err))
			continue
		}
		marked++
	}
	return marked, nil
}

func (s *adAccountServiceImpl) findAccount(ctx context.Context, id uuid.UUID) (*domain.AdAccount, error) {
	account, err := s.adAccountRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "광고 계정을 찾을 수 없습니다", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "광고 계정 조회에 실패했습니다", err.Error())
	}
	return account, nil
}
