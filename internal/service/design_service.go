package service

import (
	"context"
	"errors"
	"fmt"
	"time"

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

// DesignService defines the interface for the design review cycle
type DesignService interface {
	// GetOrCreate returns the workflow's design, creating the 1:1 row lazily
	GetOrCreate(ctx context.Context, workflowID uuid.UUID) (*dto.DesignResponse, error)
	GetDesign(ctx context.Context, id uuid.UUID) (*dto.DesignResponse, error)
	UploadVersion(ctx context.Context, designID uuid.UUID, req *dto.UploadDesignVersionRequest) (*dto.DesignResponse, error)
	RequestReview(ctx context.Context, designID, actorID uuid.UUID, notify bool) (*dto.DesignResponse, error)
	RequestRevision(ctx context.Context, designID, actorID uuid.UUID, note string) (*dto.DesignResponse, error)
	ResetToDraft(ctx context.Context, designID, actorID uuid.UUID) (*dto.DesignResponse, error)
	RecordFeedback(ctx context.Context, req *dto.DesignFeedbackRequest) (*dto.DesignFeedbackResponse, error)
	Approve(ctx context.Context, designID, actorID uuid.UUID) (*dto.DesignResponse, error)
}

// designServiceImpl is the implementation of DesignService
type designServiceImpl struct {
	designRepo   repository.DesignRepository
	workflowRepo repository.WorkflowRepository
	reconciler   WorkflowReconciler
	notifier     NotificationService
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewDesignService creates a new instance of DesignService
func NewDesignService(
	designRepo repository.DesignRepository,
	workflowRepo repository.WorkflowRepository,
	reconciler WorkflowReconciler,
	notifier NotificationService,
	m *metrics.Metrics,
	logger *zap.Logger,
) DesignService {
	return &designServiceImpl{
		designRepo:   designRepo,
		workflowRepo: workflowRepo,
		reconciler:   reconciler,
		notifier:     notifier,
		metrics:      m,
		logger:       logger,
	}
}

// GetOrCreate returns the design attached to a workflow, creating it on first
// access
func (s *designServiceImpl) GetOrCreate(ctx context.Context, workflowID uuid.UUID) (*dto.DesignResponse, error) {
	if _, err := s.workflowRepo.FindByID(ctx, workflowID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "워크플로우를 찾을 수 없습니다", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "워크플로우 조회에 실패했습니다", err.Error())
	}

	design, err := s.designRepo.FindByWorkflowID(ctx, workflowID)
	if err == nil {
		return s.loadFull(ctx, design.ID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewAppError(response.ErrCodeInternal, "디자인 조회에 실패했습니다", err.Error())
	}

	design = &domain.Design{
		WorkflowID: workflowID,
		Status:     domain.DesignStatusDraft,
	}
	if err := s.designRepo.Create(ctx, design); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "디자인 생성에 실패했습니다", err.Error())
	}
	return dto.ToDesignResponse(design), nil
}

// GetDesign returns one design with all versions and feedback
func (s *designServiceImpl) GetDesign(ctx context.Context, id uuid.UUID) (*dto.DesignResponse, error) {
	return s.loadFull(ctx, id)
}

// UploadVersion appends a new artifact version. The design status is not
// touched: review starts only on an explicit request.
func (s *designServiceImpl) UploadVersion(ctx context.Context, designID uuid.UUID, req *dto.UploadDesignVersionRequest) (*dto.DesignResponse, error) {
	design, err := s.findDesign(ctx, designID)
	if err != nil {
		return nil, err
	}
	if design.Status.IsTerminal() {
		return nil, response.NewAppError(response.ErrCodeInvalidState, "승인 완료된 디자인에는 버전을 추가할 수 없습니다", "")
	}

	version := &domain.DesignVersion{
		URL:  req.URL,
		Note: req.Note,
	}
	if err := s.designRepo.AppendVersion(ctx, designID, version); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "디자인 버전 업로드에 실패했습니다", err.Error())
	}
	return s.loadFull(ctx, designID)
}

// RequestReview asks the customer to review the latest version
func (s *designServiceImpl) RequestReview(ctx context.Context, designID, actorID uuid.UUID, notify bool) (*dto.DesignResponse, error) {
	design, err := s.transition(ctx, designID, actorID, domain.DesignStatusPendingReview)
	if err != nil {
		return nil, err
	}

	if notify {
		workflow, wErr := s.workflowRepo.FindByID(ctx, design.WorkflowID)
		if wErr != nil {
			s.logger.Warn("Failed to load workflow for review notification", zap.Error(wErr))
		} else {
			body := fmt.Sprintf("%s 디자인 v%d 검토를 요청드립니다.", workflow.Type, design.CurrentVersion)
			s.notifier.Notify(ctx, &domain.Notification{
				TargetUserID: workflow.UserID,
				Type:         domain.NotificationDesignReview,
				Title:        "디자인 검토 요청",
				Body:         body,
				ResourceType: "design",
				ResourceID:   &design.ID,
			}, client.OutboundMessage{
				Title: "디자인 검토 요청",
				Body:  body,
			})
		}
	}
	return dto.ToDesignResponse(design), nil
}

// RequestRevision sends the design back to work with the customer's note
func (s *designServiceImpl) RequestRevision(ctx context.Context, designID, actorID uuid.UUID, note string) (*dto.DesignResponse, error) {
	design, err := s.transition(ctx, designID, actorID, domain.DesignStatusRevisionRequested)
	if err != nil {
		return nil, err
	}

	if note != "" && design.CurrentVersion > 0 {
		// 수정 요청 사유는 최신 버전 피드백으로 남긴다
		if vErr := s.appendLatestVersionFeedback(ctx, design, note); vErr != nil {
			s.logger.Warn("Failed to record revision note as feedback", zap.Error(vErr))
		}
	}
	return dto.ToDesignResponse(design), nil
}

// ResetToDraft pulls a design out of the review loop
func (s *designServiceImpl) ResetToDraft(ctx context.Context, designID, actorID uuid.UUID) (*dto.DesignResponse, error) {
	design, err := s.transition(ctx, designID, actorID, domain.DesignStatusDraft)
	if err != nil {
		return nil, err
	}
	return dto.ToDesignResponse(design), nil
}

// RecordFeedback appends one feedback entry to a specific version
func (s *designServiceImpl) RecordFeedback(ctx context.Context, req *dto.DesignFeedbackRequest) (*dto.DesignFeedbackResponse, error) {
	if _, err := s.designRepo.FindVersionByID(ctx, req.VersionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "디자인 버전을 찾을 수 없습니다", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "디자인 버전 조회에 실패했습니다", err.Error())
	}

	feedback := &domain.DesignFeedback{
		VersionID:  req.VersionID,
		AuthorType: req.AuthorType,
		AuthorName: req.AuthorName,
		Content:    req.Content,
	}
	if err := s.designRepo.AppendFeedback(ctx, feedback); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "피드백 저장에 실패했습니다", err.Error())
	}
	return &dto.DesignFeedbackResponse{
		ID:         feedback.ID,
		AuthorType: feedback.AuthorType,
		AuthorName: feedback.AuthorName,
		Content:    feedback.Content,
		CreatedAt:  feedback.CreatedAt,
	}, nil
}

// Approve finalizes the design, freezing the approved version at the current
// one. Uploads after approval are rejected, so approvedVersion never moves.
func (s *designServiceImpl) Approve(ctx context.Context, designID, actorID uuid.UUID) (*dto.DesignResponse, error) {
	design, err := s.findDesign(ctx, designID)
	if err != nil {
		return nil, err
	}
	if !design.Status.CanTransition(domain.DesignStatusApproved) {
		return nil, invalidDesignTransition(design.Status, domain.DesignStatusApproved)
	}
	if design.CurrentVersion == 0 {
		return nil, response.NewAppError(response.ErrCodeInvalidState, "업로드된 버전이 없는 디자인은 승인할 수 없습니다", "")
	}

	now := time.Now()
	approvedVersion := design.CurrentVersion
	design.Status = domain.DesignStatusApproved
	design.ApprovedVersion = &approvedVersion
	design.ApprovedAt = &now
	if err := s.designRepo.Update(ctx, design); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "디자인 승인에 실패했습니다", err.Error())
	}

	if s.metrics != nil {
		s.metrics.RecordStatusTransition("design", string(domain.DesignStatusApproved))
	}
	s.emitReconcile(ctx, design, actorID)

	if workflow, wErr := s.workflowRepo.FindByID(ctx, design.WorkflowID); wErr == nil {
		body := fmt.Sprintf("%s 디자인 v%d이 승인되었습니다.", workflow.Type, approvedVersion)
		s.notifier.Notify(ctx, &domain.Notification{
			TargetUserID: workflow.UserID,
			Type:         domain.NotificationDesignApproved,
			Title:        "디자인 승인 완료",
			Body:         body,
			ResourceType: "design",
			ResourceID:   &design.ID,
		}, client.OutboundMessage{
			Title: "디자인 승인 완료",
			Body:  body,
		})
	}

	return dto.ToDesignResponse(design), nil
}

// transition applies a declared design status edge and notifies the reconciler
func (s *designServiceImpl) transition(ctx context.Context, designID, actorID uuid.UUID, to domain.DesignStatus) (*domain.Design, error) {
	design, err := s.findDesign(ctx, designID)
	if err != nil {
		return nil, err
	}
	if !design.Status.CanTransition(to) {
		return nil, invalidDesignTransition(design.Status, to)
	}

	design.Status = to
	if err := s.designRepo.Update(ctx, design); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "디자인 상태 변경에 실패했습니다", err.Error())
	}

	if s.metrics != nil {
		s.metrics.RecordStatusTransition("design", string(to))
	}
	s.emitReconcile(ctx, design, actorID)
	return design, nil
}

// emitReconcile forwards the status change to the workflow reconciler.
// 워크플로우 반영 실패는 디자인 변경을 되돌리지 않는다.
func (s *designServiceImpl) emitReconcile(ctx context.Context, design *domain.Design, actorID uuid.UUID) {
	ev := DesignStatusEvent{
		WorkflowID: design.WorkflowID,
		To:         design.Status,
		ActorID:    actorID,
	}
	if err := s.reconciler.OnDesignStatusChanged(ctx, ev); err != nil {
		s.logger.Error("Workflow reconciliation failed",
			zap.String("design_id", design.ID.String()),
			zap.String("workflow_id", design.WorkflowID.String()),
			zap.Error(err))
	}
}

func (s *designServiceImpl) appendLatestVersionFeedback(ctx context.Context, design *domain.Design, note string) error {
	full, err := s.designRepo.FindByIDWithVersions(ctx, design.ID)
	if err != nil {
		return err
	}
	for i := range full.Versions {
		v := &full.Versions[i]
		if v.Version == full.CurrentVersion {
			return s.designRepo.AppendFeedback(ctx, &domain.DesignFeedback{
				VersionID:  v.ID,
				AuthorType: domain.FeedbackAuthorUser,
				AuthorName: "고객",
				Content:    note,
			})
		}
	}
	return fmt.Errorf("current version %d not found", full.CurrentVersion)
}

func (s *designServiceImpl) loadFull(ctx context.Context, id uuid.UUID) (*dto.DesignResponse, error) {
	design, err := s.designRepo.FindByIDWithVersions(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "디자인을 찾을 수 없습니다", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "디자인 조회에 실패했습니다", err.Error())
	}
	return dto.ToDesignResponse(design), nil
}

func (s *designServiceImpl) findDesign(ctx context.Context, id uuid.UUID) (*domain.Design, error) {
	design, err := s.designRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "디자인을 찾을 수 없습니다", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "디자인 조회에 실패했습니다", err.Error())
	}
	return design, nil
}

func invalidDesignTransition(from, to domain.DesignStatus) error {
	return response.NewAppError(response.ErrCodeInvalidState,
		fmt.Sprintf("디자인 상태를 %s에서 %s(으)로 변경할 수 없습니다", from, to), "")
}
