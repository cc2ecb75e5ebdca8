package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"polarad-admin-api/internal/client"
	"polarad-admin-api/internal/domain"
	"polarad-admin-api/internal/dto"
	"polarad-admin-api/internal/metrics"
	"polarad-admin-api/internal/repository"
	"polarad-admin-api/internal/response"
)

// WorkflowService defines the interface for production workflow management
type WorkflowService interface {
	GetWorkflow(ctx context.Context, id uuid.UUID) (*dto.WorkflowResponse, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.WorkflowResponse, error)
	ListByStatus(ctx context.Context, status domain.WorkflowStatus, page, limit int) (*dto.WorkflowListResponse, error)
	SetStatus(ctx context.Context, id, changedBy uuid.UUID, req *dto.UpdateWorkflowStatusRequest) (*dto.WorkflowResponse, error)
}

// workflowServiceImpl is the implementation of WorkflowService
type workflowServiceImpl struct {
	workflowRepo repository.WorkflowRepository
	notifier     NotificationService
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewWorkflowService creates a new instance of WorkflowService
func NewWorkflowService(
	workflowRepo repository.WorkflowRepository,
	notifier NotificationService,
	m *metrics.Metrics,
	logger *zap.Logger,
) WorkflowService {
	return &workflowServiceImpl{
		workflowRepo: workflowRepo,
		notifier:     notifier,
		metrics:      m,
		logger:       logger,
	}
}

// GetWorkflow returns one workflow with its full status history
func (s *workflowServiceImpl) GetWorkflow(ctx context.Context, id uuid.UUID) (*dto.WorkflowResponse, error) {
	workflow, err := s.workflowRepo.FindByIDWithLogs(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "워크플로우를 찾을 수 없습니다", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "워크플로우 조회에 실패했습니다", err.Error())
	}
	return dto.ToWorkflowResponse(workflow), nil
}

// ListByUser returns all workflows owned by a user
func (s *workflowServiceImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.WorkflowResponse, error) {
	workflows, err := s.workflowRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "워크플로우 목록 조회에 실패했습니다", err.Error())
	}
	resp := make([]*dto.WorkflowResponse, 0, len(workflows))
	for _, w := range workflows {
		resp = append(resp, dto.ToWorkflowResponse(w))
	}
	return resp, nil
}

// ListByStatus returns workflows in one status with pagination
func (s *workflowServiceImpl) ListByStatus(ctx context.Context, status domain.WorkflowStatus, page, limit int) (*dto.WorkflowListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	workflows, total, err := s.workflowRepo.FindByStatus(ctx, status, page, limit)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "워크플로우 목록 조회에 실패했습니다", err.Error())
	}

	resp := &dto.WorkflowListResponse{
		Workflows: make([]*dto.WorkflowResponse, 0, len(workflows)),
		Total:     total,
		Page:      page,
		Limit:     limit,
	}
	for _, w := range workflows {
		resp.Workflows = append(resp.Workflows, dto.ToWorkflowResponse(w))
	}
	return resp, nil
}

// SetStatus transitions a workflow along a declared edge. Delivery/URL fields
// ride the same transaction as the status change and the history row, so a
// crash never leaves a status without its log.
func (s *workflowServiceImpl) SetStatus(ctx context.Context, id, changedBy uuid.UUID, req *dto.UpdateWorkflowStatusRequest) (*dto.WorkflowResponse, error) {
	if !domain.ValidWorkflowStatus(req.Status) {
		return nil, response.NewAppError(response.ErrCodeValidation,
			fmt.Sprintf("알 수 없는 워크플로우 상태입니다: %s", req.Status), "")
	}

	workflow, err := s.workflowRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "워크플로우를 찾을 수 없습니다", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "워크플로우 조회에 실패했습니다", err.Error())
	}

	if !workflow.Status.CanTransition(req.Status) {
		return nil, response.NewAppError(response.ErrCodeInvalidState,
			fmt.Sprintf("워크플로우 상태를 %s에서 %s(으)로 변경할 수 없습니다", workflow.Status, req.Status), "")
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.DesignURL != nil {
		updates["design_url"] = *req.DesignURL
	}
	if req.FinalURL != nil {
		updates["final_url"] = *req.FinalURL
	}
	if req.Courier != nil {
		updates["courier"] = *req.Courier
	}
	if req.TrackingNumber != nil {
		updates["tracking_number"] = *req.TrackingNumber
	}
	if req.AdminNote != nil {
		updates["admin_note"] = *req.AdminNote
	}
	// 수정 요청으로 되돌아가는 경우 수정 횟수 증가
	if workflow.Status == domain.WorkflowStatusDesignUploaded && req.Status == domain.WorkflowStatusInProgress {
		updates["revision_count"] = workflow.RevisionCount + 1
	}

	from := workflow.Status
	log := &domain.WorkflowLog{
		WorkflowID: workflow.ID,
		FromStatus: &from,
		ToStatus:   req.Status,
		ChangedBy:  changedBy,
		Note:       req.Note,
	}
	if err := s.workflowRepo.UpdateStatusWithLog(ctx, workflow.ID, updates, log); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "워크플로우 상태 변경에 실패했습니다", err.Error())
	}

	if s.metrics != nil {
		s.metrics.RecordStatusTransition("workflow", string(req.Status))
	}

	if req.Status == domain.WorkflowStatusShipped {
		s.notifyShipping(ctx, workflow, req)
	}

	updated, err := s.workflowRepo.FindByIDWithLogs(ctx, id)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "워크플로우 조회에 실패했습니다", err.Error())
	}
	return dto.ToWorkflowResponse(updated), nil
}

func (s *workflowServiceImpl) notifyShipping(ctx context.Context, workflow *domain.Workflow, req *dto.UpdateWorkflowStatusRequest) {
	courier := workflow.Courier
	if req.Courier != nil {
		courier = *req.Courier
	}
	tracking := workflow.TrackingNumber
	if req.TrackingNumber != nil {
		tracking = *req.TrackingNumber
	}
	body := fmt.Sprintf("%s 제작물이 발송되었습니다. (%s %s)", workflow.Type, courier, tracking)

	s.notifier.Notify(ctx, &domain.Notification{
		TargetUserID: workflow.UserID,
		Type:         domain.NotificationShipping,
		Title:        "배송이 시작되었습니다",
		Body:         body,
		ResourceType: "workflow",
		ResourceID:   &workflow.ID,
	}, client.OutboundMessage{
		Title: "배송이 시작되었습니다",
		Body:  body,
	})
}
