package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"polarad-admin-api/internal/client"
	"polarad-admin-api/internal/domain"
	"polarad-admin-api/internal/dto"
	"polarad-admin-api/internal/metrics"
	"polarad-admin-api/internal/repository"
	"polarad-admin-api/internal/response"
)

// ContractService defines the interface for contract lifecycle management
type ContractService interface {
	CreateContract(ctx context.Context, adminID uuid.UUID, req *dto.CreateContractRequest) (*dto.ContractResponse, error)
	GetContract(ctx context.Context, id uuid.UUID) (*dto.ContractResponse, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.ContractResponse, error)
	ListByStatus(ctx context.Context, status domain.ContractStatus, page, limit int) (*dto.ContractListResponse, error)
	Submit(ctx context.Context, id, adminID uuid.UUID) (*dto.ContractResponse, error)
	Approve(ctx context.Context, id, adminID uuid.UUID) (*dto.ContractResponse, error)
	Reject(ctx context.Context, id, adminID uuid.UUID, reason string) (*dto.ContractResponse, error)
	Activate(ctx context.Context, id, adminID uuid.UUID, startDate time.Time) (*dto.ContractResponse, error)
	Cancel(ctx context.Context, id, adminID uuid.UUID, note string) (*dto.ContractResponse, error)
	DeleteContract(ctx context.Context, id uuid.UUID) error
	// ExpireOverdue moves ACTIVE contracts past their end date to EXPIRED,
	// called by the cron sweep
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)
}

// contractServiceImpl is the implementation of ContractService
type contractServiceImpl struct {
	contractRepo repository.ContractRepository
	packageRepo  repository.PackageRepository
	notifier     NotificationService
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewContractService creates a new instance of ContractService
func NewContractService(
	contractRepo repository.ContractRepository,
	packageRepo repository.PackageRepository,
	notifier NotificationService,
	m *metrics.Metrics,
	logger *zap.Logger,
) ContractService {
	return &contractServiceImpl{
		contractRepo: contractRepo,
		packageRepo:  packageRepo,
		notifier:     notifier,
		metrics:      m,
		logger:       logger,
	}
}

// CreateContract creates a PENDING contract priced from its package,
// with optional per-contract fee overrides from the request.
// The contract number comes from the daily sequence inside the same
// transaction, so concurrent creations never collide.
func (s *contractServiceImpl) CreateContract(ctx context.Context, adminID uuid.UUID, req *dto.CreateContractRequest) (*dto.ContractResponse, error) {
	pkg, err := s.packageRepo.FindByID(ctx, req.PackageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "패키지를 찾을 수 없습니다", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "패키지 조회에 실패했습니다", err.Error())
	}
	if !pkg.IsActive {
		return nil, response.NewAppError(response.ErrCodeValidation, "판매 중지된 패키지입니다", "")
	}

	// 요청에 단가가 있으면 패키지 단가 대신 계약별 단가를 쓴다
	monthlyFee := pkg.MonthlyFee
	if req.MonthlyFee != nil {
		monthlyFee = *req.MonthlyFee
	}
	setupFee := pkg.SetupFee
	if req.SetupFee != nil {
		setupFee = *req.SetupFee
	}

	// 총액은 생성 시점에 한 번 계산되어 고정된다
	totalAmount := monthlyFee.Mul(decimal.NewFromInt(int64(req.ContractPeriod))).Add(setupFee)

	contract := &domain.Contract{
		UserID:         req.UserID,
		PackageID:      pkg.ID,
		Status:         domain.ContractStatusPending,
		ContractPeriod: req.ContractPeriod,
		MonthlyFee:     monthlyFee,
		SetupFee:       setupFee,
		TotalAmount:    totalAmount,
		PromoCode:      req.PromoCode,
	}
	log := &domain.ContractLog{
		ToStatus:  domain.ContractStatusPending,
		ChangedBy: adminID,
		Note:      fmt.Sprintf("%s 패키지 %d개월 계약 생성", pkg.Name, req.ContractPeriod),
	}
	if err := s.contractRepo.CreateWithNumber(ctx, contract, log); err != nil {
		if errors.Is(err, repository.ErrPendingContractExists) {
			return nil, response.NewAppError(response.ErrCodeAlreadyExists, "이미 진행 중인 계약이 있습니다", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "계약 생성에 실패했습니다", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementContractCreated()
	}
	s.logger.Info("Contract created",
		zap.String("contract_id", contract.ID.String()),
		zap.String("contract_number", contract.ContractNumber))

	contract.Package = *pkg
	return dto.ToContractResponse(contract), nil
}

// GetContract returns one contract with its full status history
func (s *contractServiceImpl) GetContract(ctx context.Context, id uuid.UUID) (*dto.ContractResponse, error) {
	contract, err := s.contractRepo.FindByIDWithLogs(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "계약을 찾을 수 없습니다", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "계약 조회에 실패했습니다", err.Error())
	}
	return dto.ToContractResponse(contract), nil
}

// ListByUser returns all contracts for a user
func (s *contractServiceImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.ContractResponse, error) {
	contracts, err := s.contractRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "계약 목록 조회에 실패했습니다", err.Error())
	}
	resp := make([]*dto.ContractResponse, 0, len(contracts))
	for _, c := range contracts {
		resp = append(resp, dto.ToContractResponse(c))
	}
	return resp, nil
}

// ListByStatus returns contracts in one status with pagination
func (s *contractServiceImpl) ListByStatus(ctx context.Context, status domain.ContractStatus, page, limit int) (*dto.ContractListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	contracts, total, err := s.contractRepo.FindByStatus(ctx, status, page, limit)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "계약 목록 조회에 실패했습니다", err.Error())
	}

	resp := &dto.ContractListResponse{
		Contracts: make([]*dto.ContractResponse, 0, len(contracts)),
		Total:     total,
		Page:      page,
		Limit:     limit,
	}
	for _, c := range contracts {
		resp.Contracts = append(resp.Contracts, dto.ToContractResponse(c))
	}
	return resp, nil
}

// Submit sends a pending contract to the customer
func (s *contractServiceImpl) Submit(ctx context.Context, id, adminID uuid.UUID) (*dto.ContractResponse, error) {
	return s.transition(ctx, id, adminID, domain.ContractStatusSubmitted, nil, "")
}

// Approve accepts a submitted contract and notifies the customer
func (s *contractServiceImpl) Approve(ctx context.Context, id, adminID uuid.UUID) (*dto.ContractResponse, error) {
	now := time.Now()
	resp, err := s.transition(ctx, id, adminID, domain.ContractStatusApproved,
		map[string]interface{}{"approved_at": now}, "")
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf("계약(%s)이 승인되었습니다.", resp.ContractNumber)
	s.notifier.Notify(ctx, &domain.Notification{
		TargetUserID: resp.UserID,
		Type:         domain.NotificationContractApproved,
		Title:        "계약 승인 완료",
		Body:         body,
		ResourceType: "contract",
		ResourceID:   &resp.ID,
	}, client.OutboundMessage{
		Title: "계약 승인 완료",
		Body:  body,
	})
	return resp, nil
}

// Reject declines a submitted contract with a mandatory reason
func (s *contractServiceImpl) Reject(ctx context.Context, id, adminID uuid.UUID, reason string) (*dto.ContractResponse, error) {
	now := time.Now()
	resp, err := s.transition(ctx, id, adminID, domain.ContractStatusRejected,
		map[string]interface{}{"rejected_at": now, "rejection_reason": reason}, reason)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, &domain.Notification{
		TargetUserID: resp.UserID,
		Type:         domain.NotificationContractRejected,
		Title:        "계약이 반려되었습니다",
		Body:         reason,
		ResourceType: "contract",
		ResourceID:   &resp.ID,
	}, client.OutboundMessage{
		Title: "계약이 반려되었습니다",
		Body:  reason,
	})
	return resp, nil
}

// Activate starts the billing period. End date is start plus the contract
// period in months.
func (s *contractServiceImpl) Activate(ctx context.Context, id, adminID uuid.UUID, startDate time.Time) (*dto.ContractResponse, error) {
	contract, err := s.findContract(ctx, id)
	if err != nil {
		return nil, err
	}
	endDate := startDate.AddDate(0, contract.ContractPeriod, 0)
	return s.transition(ctx, id, adminID, domain.ContractStatusActive,
		map[string]interface{}{"start_date": startDate, "end_date": endDate}, "")
}

// Cancel terminates a contract from any non-terminal state
func (s *contractServiceImpl) Cancel(ctx context.Context, id, adminID uuid.UUID, note string) (*dto.ContractResponse, error) {
	return s.transition(ctx, id, adminID, domain.ContractStatusCancelled, nil, note)
}

// DeleteContract hard-deletes a contract and its logs. ACTIVE 계약은 삭제 불가.
func (s *contractServiceImpl) DeleteContract(ctx context.Context, id uuid.UUID) error {
	contract, err := s.findContract(ctx, id)
	if err != nil {
		return err
	}
	if contract.Status == domain.ContractStatusActive {
		return response.NewAppError(response.ErrCodeInvalidState, "진행 중인 계약은 삭제할 수 없습니다", "")
	}
	if err := s.contractRepo.Delete(ctx, id); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "계약 삭제에 실패했습니다", err.Error())
	}
	return nil
}

// ExpireOverdue sweeps ACTIVE contracts whose end date has passed
func (s *contractServiceImpl) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	contracts, err := s.contractRepo.FindActivePastEndDate(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to find overdue contracts: %w", err)
	}

	expired := 0
	for _, contract := range contracts {
		from := contract.Status
		log := &domain.ContractLog{
			ContractID: contract.ID,
			FromStatus: &from,
			ToStatus:   domain.ContractStatusExpired,
			ChangedBy:  uuid.Nil,
			Note:       "계약 기간 만료 자동 처리",
		}
		updates := map[string]interface{}{"status": domain.ContractStatusExpired}
		if err := s.contractRepo.UpdateStatusWithLog(ctx, contract.ID, updates, log); err != nil {
			s.logger.Error("Failed to expire contract",
				zap.String("contract_id", contract.ID.String()),
				zap.Error(err))
			continue
		}
		if s.metrics != nil {
			s.metrics.RecordStatusTransition("contract", string(domain.ContractStatusExpired))
		}
		expired++
	}
	return expired, nil
}

// transition applies a declared contract status edge plus extra field updates
// in one transaction with the history row
func (s *contractServiceImpl) transition(ctx context.Context, id, adminID uuid.UUID, to domain.ContractStatus, extra map[string]interface{}, note string) (*dto.ContractResponse, error) {
	contract, err := s.findContract(ctx, id)
	if err != nil {
		return nil, err
	}
	if !contract.Status.CanTransition(to) {
		return nil, response.NewAppError(response.ErrCodeInvalidState,
			fmt.Sprintf("계약 상태를 %s에서 %s(으)로 변경할 수 없습니다", contract.Status, to), "")
	}

	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}

	from := contract.Status
	log := &domain.ContractLog{
		ContractID: contract.ID,
		FromStatus: &from,
		ToStatus:   to,
		ChangedBy:  adminID,
		Note:       note,
	}
	if err := s.contractRepo.UpdateStatusWithLog(ctx, contract.ID, updates, log); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "계약 상태 변경에 실패했습니다", err.Error())
	}

	if s.metrics != nil {
		s.metrics.RecordStatusTransition("contract", string(to))
	}

	updated, err := s.contractRepo.FindByIDWithLogs(ctx, id)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "계약 조회에 실패했습니다", err.Error())
	}
	return dto.ToContractResponse(updated), nil
}

func (s *contractServiceImpl) findContract(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	contract, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "계약을 찾을 수 없습니다", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "계약 조회에 실패했습니다", err.Error())
	}
	return contract, nil
}
