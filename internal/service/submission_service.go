package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"polarad-admin-api/internal/client"
	"polarad-admin-api/internal/domain"
	"polarad-admin-api/internal/dto"
	"polarad-admin-api/internal/metrics"
	"polarad-admin-api/internal/repository"
	"polarad-admin-api/internal/response"
)

// SubmissionService defines the interface for onboarding submission review
type SubmissionService interface {
	CreateSubmission(ctx context.Context, req *dto.CreateSubmissionRequest) (*dto.SubmissionResponse, error)
	GetSubmission(ctx context.Context, id uuid.UUID) (*dto.SubmissionResponse, error)
	ListSubmissions(ctx context.Context, status domain.SubmissionStatus, page, limit int) (*dto.SubmissionListResponse, error)
	Submit(ctx context.Context, id uuid.UUID) (*dto.SubmissionResponse, error)
	StartReview(ctx context.Context, id, adminID uuid.UUID) (*dto.SubmissionResponse, error)
	Approve(ctx context.Context, id, adminID uuid.UUID) ([]*dto.WorkflowResponse, error)
	Reject(ctx context.Context, id, adminID uuid.UUID, reason string) (*dto.SubmissionResponse, error)
}

// submissionServiceImpl is the implementation of SubmissionService
type submissionServiceImpl struct {
	submissionRepo repository.SubmissionRepository
	workflowRepo   repository.WorkflowRepository
	notifier       NotificationService
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

// NewSubmissionService creates a new instance of SubmissionService
func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	workflowRepo repository.WorkflowRepository,
	notifier NotificationService,
	m *metrics.Metrics,
	logger *zap.Logger,
) SubmissionService {
	return &submissionServiceImpl{
		submissionRepo: submissionRepo,
		workflowRepo:   workflowRepo,
		notifier:       notifier,
		metrics:        m,
		logger:         logger,
	}
}

// CreateSubmission registers a new draft submission
func (s *submissionServiceImpl) CreateSubmission(ctx context.Context, req *dto.CreateSubmissionRequest) (*dto.SubmissionResponse, error) {
	var stylePrefs datatypes.JSON
	if req.StylePreferences != nil {
		jsonBytes, err := json.Marshal(req.StylePreferences)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "스타일 설정 저장에 실패했습니다", err.Error())
		}
		stylePrefs = jsonBytes
	}

	submission := &domain.Submission{
		UserID:           req.UserID,
		BrandName:        req.BrandName,
		ContactName:      req.ContactName,
		Phone:            req.Phone,
		Email:            req.Email,
		Address:          req.Address,
		AddressDetail:    req.AddressDetail,
		StylePreferences: stylePrefs,
		IsComplete:       req.IsComplete,
		Status:           domain.SubmissionStatusDraft,
	}
	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "설문 저장에 실패했습니다", err.Error())
	}
	return dto.ToSubmissionResponse(submission), nil
}

// GetSubmission returns one submission
func (s *submissionServiceImpl) GetSubmission(ctx context.Context, id uuid.UUID) (*dto.SubmissionResponse, error) {
	submission, err := s.findSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToSubmissionResponse(submission), nil
}

// ListSubmissions returns submissions filtered by status with pagination
func (s *submissionServiceImpl) ListSubmissions(ctx context.Context, status domain.SubmissionStatus, page, limit int) (*dto.SubmissionListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	submissions, total, err := s.submissionRepo.FindByStatus(ctx, status, page, limit)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "설문 목록 조회에 실패했습니다", err.Error())
	}

	resp := &dto.SubmissionListResponse{
		Submissions: make([]*dto.SubmissionResponse, 0, len(submissions)),
		Total:       total,
		Page:        page,
		Limit:       limit,
	}
	for _, sub := range submissions {
		resp.Submissions = append(resp.Submissions, dto.ToSubmissionResponse(sub))
	}
	return resp, nil
}

// Submit moves a complete draft into the review queue
func (s *submissionServiceImpl) Submit(ctx context.Context, id uuid.UUID) (*dto.SubmissionResponse, error) {
	submission, err := s.findSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if !submission.Status.CanTransition(domain.SubmissionStatusSubmitted) {
		return nil, invalidSubmissionTransition(submission.Status, domain.SubmissionStatusSubmitted)
	}
	if !submission.IsComplete {
		return nil, response.NewAppError(response.ErrCodeValidation, "설문이 아직 완성되지 않았습니다", "")
	}

	submission.Status = domain.SubmissionStatusSubmitted
	if err := s.submissionRepo.Update(ctx, submission); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "설문 제출에 실패했습니다", err.Error())
	}
	return dto.ToSubmissionResponse(submission), nil
}

// StartReview marks the submission as being reviewed by an admin
func (s *submissionServiceImpl) StartReview(ctx context.Context, id, adminID uuid.UUID) (*dto.SubmissionResponse, error) {
	submission, err := s.findSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if !submission.Status.CanTransition(domain.SubmissionStatusInReview) {
		return nil, invalidSubmissionTransition(submission.Status, domain.SubmissionStatusInReview)
	}

	submission.Status = domain.SubmissionStatusInReview
	submission.ReviewedBy = &adminID
	if err := s.submissionRepo.Update(ctx, submission); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "검토 시작에 실패했습니다", err.Error())
	}
	return dto.ToSubmissionResponse(submission), nil
}

// Approve accepts the submission and provisions the default workflow set.
// Workflow creation is idempotent per (user, type): types the user already
// owns are skipped, so a retried approval never duplicates workflows.
func (s *submissionServiceImpl) Approve(ctx context.Context, id, adminID uuid.UUID) ([]*dto.WorkflowResponse, error) {
	submission, err := s.findSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if !submission.Status.IsReviewable() {
		return nil, response.NewAppError(response.ErrCodeInvalidState,
			fmt.Sprintf("현재 상태(%s)에서는 승인할 수 없습니다", submission.Status), "")
	}

	now := time.Now()
	submission.Status = domain.SubmissionStatusApproved
	submission.ReviewedAt = &now
	submission.ReviewedBy = &adminID
	if err := s.submissionRepo.Update(ctx, submission); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "설문 승인에 실패했습니다", err.Error())
	}

	existing, err := s.workflowRepo.FindTypesByUserID(ctx, submission.UserID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "워크플로우 조회에 실패했습니다", err.Error())
	}

	created := make([]*dto.WorkflowResponse, 0, len(domain.DefaultWorkflowTypes))
	for _, wfType := range domain.DefaultWorkflowTypes {
		if existing[wfType] {
			continue
		}
		workflow := &domain.Workflow{
			UserID: submission.UserID,
			Type:   wfType,
			Status: domain.WorkflowStatusPending,
		}
		log := &domain.WorkflowLog{
			ToStatus:  domain.WorkflowStatusPending,
			ChangedBy: adminID,
			Note:      "설문 승인으로 자동 생성",
		}
		if err := s.workflowRepo.Create(ctx, workflow, log); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal,
				fmt.Sprintf("워크플로우(%s) 생성에 실패했습니다", wfType), err.Error())
		}
		if s.metrics != nil {
			s.metrics.IncrementWorkflowCreated()
		}
		created = append(created, dto.ToWorkflowResponse(workflow))
	}

	s.logger.Info("Submission approved",
		zap.String("submission_id", id.String()),
		zap.String("user_id", submission.UserID.String()),
		zap.Int("workflows_created", len(created)))

	s.notifier.Notify(ctx, &domain.Notification{
		TargetUserID: submission.UserID,
		Type:         domain.NotificationWelcome,
		Title:        "폴라라드에 오신 것을 환영합니다",
		Body:         fmt.Sprintf("%s 브랜드의 제작이 시작되었습니다.", submission.BrandName),
		ResourceType: "submission",
		ResourceID:   &submission.ID,
	}, client.OutboundMessage{
		Title: "폴라라드에 오신 것을 환영합니다",
		Body:  fmt.Sprintf("%s 브랜드의 제작이 시작되었습니다.", submission.BrandName),
		Email: submission.Email,
		Phone: submission.Phone,
	})

	return created, nil
}

// Reject declines the submission with a mandatory reason. REJECTED is terminal.
func (s *submissionServiceImpl) Reject(ctx context.Context, id, adminID uuid.UUID, reason string) (*dto.SubmissionResponse, error) {
	submission, err := s.findSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if !submission.Status.IsReviewable() {
		return nil, response.NewAppError(response.ErrCodeInvalidState,
			fmt.Sprintf("현재 상태(%s)에서는 반려할 수 없습니다", submission.Status), "")
	}

	now := time.Now()
	submission.Status = domain.SubmissionStatusRejected
	submission.RejectionReason = reason
	submission.ReviewedAt = &now
	submission.ReviewedBy = &adminID
	if err := s.submissionRepo.Update(ctx, submission); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "설문 반려에 실패했습니다", err.Error())
	}
	return dto.ToSubmissionResponse(submission), nil
}

func (s *submissionServiceImpl) findSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	submission, err := s.submissionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "설문을 찾을 수 없습니다", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "설문 조회에 실패했습니다", err.Error())
	}
	return submission, nil
}

func invalidSubmissionTransition(from, to domain.SubmissionStatus) error {
	return response.NewAppError(response.ErrCodeInvalidState,
		fmt.Sprintf("설문 상태를 %s에서 %s(으)로 변경할 수 없습니다", from, to), "")
}
