package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"polarad-admin-api/internal/client"
	"polarad-admin-api/internal/domain"
	"polarad-admin-api/internal/dto"
	"polarad-admin-api/internal/response"
)

func TestDesignService_GetOrCreate(t *testing.T) {
	workflowID := uuid.New()

	t.Run("첫 조회 시 DRAFT 디자인 생성", func(t *testing.T) {
		// Given
		mockWorkflowRepo := &MockWorkflowRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Workflow, error) {
				return &domain.Workflow{BaseModel: domain.BaseModel{ID: workflowID}}, nil
			},
		}
		var created *domain.Design
		mockDesignRepo := &MockDesignRepository{
			FindByWorkflowIDFunc: func(ctx context.Context, wid uuid.UUID) (*domain.Design, error) {
				return nil, gorm.ErrRecordNotFound
			},
			CreateFunc: func(ctx context.Context, design *domain.Design) error {
				design.ID = uuid.New()
				created = design
				return nil
			},
		}
		logger, _ := zap.NewDevelopment()
		service := NewDesignService(mockDesignRepo, mockWorkflowRepo, &MockReconciler{}, &MockNotifier{}, nil, logger)

		// When
		got, err := service.GetOrCreate(context.Background(), workflowID)

		// Then
		if err != nil {
			t.Fatalf("GetOrCreate() unexpected error = %v", err)
		}
		if created == nil {
			t.Fatal("expected a design to be created")
		}
		if created.Status != domain.DesignStatusDraft {
			t.Errorf("created status = %v, want DRAFT", created.Status)
		}
		if got.WorkflowID != workflowID {
			t.Errorf("response workflow ID = %v, want %v", got.WorkflowID, workflowID)
		}
	})

	t.Run("실패: 워크플로우 없음", func(t *testing.T) {
		// Given
		mockWorkflowRepo := &MockWorkflowRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Workflow, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		logger, _ := zap.NewDevelopment()
		service := NewDesignService(&MockDesignRepository{}, mockWorkflowRepo, &MockReconciler{}, &MockNotifier{}, nil, logger)

		// When
		_, err := service.GetOrCreate(context.Background(), workflowID)

		// Then
		if err == nil {
			t.Fatal("GetOrCreate() error = nil, want error")
		}
		if appErr, ok := err.(*response.AppError); ok {
			if appErr.Code != response.ErrCodeNotFound {
				t.Errorf("GetOrCreate() error code = %v, want NOT_FOUND", appErr.Code)
			}
		}
	})
}

func TestDesignService_UploadVersion(t *testing.T) {
	designID := uuid.New()

	t.Run("실패: 승인 완료된 디자인에는 업로드 불가", func(t *testing.T) {
		// Given
		approvedVersion := 3
		mockDesignRepo := &MockDesignRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Design, error) {
				return &domain.Design{
					BaseModel:       domain.BaseModel{ID: designID},
					Status:          domain.DesignStatusApproved,
					CurrentVersion:  3,
					ApprovedVersion: &approvedVersion,
				}, nil
			},
		}
		logger, _ := zap.NewDevelopment()
		service := NewDesignService(mockDesignRepo, &MockWorkflowRepository{}, &MockReconciler{}, &MockNotifier{}, nil, logger)

		// When
		_, err := service.UploadVersion(context.Background(), designID, &dto.UploadDesignVersionRequest{URL: "https://cdn.example.com/v4.pdf"})

		// Then
		if err == nil {
			t.Fatal("UploadVersion() error = nil, want error")
		}
		if appErr, ok := err.(*response.AppError); ok {
			if appErr.Code != response.ErrCodeInvalidState {
				t.Errorf("UploadVersion() error code = %v, want INVALID_STATE", appErr.Code)
			}
		}
	})

	t.Run("성공: 검토 중에도 새 버전 추가 가능", func(t *testing.T) {
		// Given
		design := &domain.Design{
			BaseModel:      domain.BaseModel{ID: designID},
			Status:         domain.DesignStatusPendingReview,
			CurrentVersion: 1,
		}
		appended := false
		mockDesignRepo := &MockDesignRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Design, error) {
				return design, nil
			},
			FindByIDWithVersionsFunc: func(ctx context.Context, id uuid.UUID) (*domain.Design, error) {
				return design, nil
			},
			AppendVersionFunc: func(ctx context.Context, did uuid.UUID, version *domain.DesignVersion) error {
				appended = true
				if version.URL != "https://cdn.example.com/v2.pdf" {
					t.Errorf("version URL = %q", version.URL)
				}
				return nil
			},
		}
		logger, _ := zap.NewDevelopment()
		service := NewDesignService(mockDesignRepo, &MockWorkflowRepository{}, &MockReconciler{}, &MockNotifier{}, nil, logger)

		// When
		_, err := service.UploadVersion(context.Background(), designID, &dto.UploadDesignVersionRequest{URL: "https://cdn.example.com/v2.pdf"})

		// Then
		if err != nil {
			t.Fatalf("UploadVersion() unexpected error = %v", err)
		}
		if !appended {
			t.Error("expected a version to be appended")
		}
	})
}

func TestDesignService_Approve(t *testing.T) {
	designID := uuid.New()
	workflowID := uuid.New()
	actorID := uuid.New()

	t.Run("승인 시 현재 버전이 승인 버전으로 고정", func(t *testing.T) {
		// Given
		design := &domain.Design{
			BaseModel:      domain.BaseModel{ID: designID},
			WorkflowID:     workflowID,
			Status:         domain.DesignStatusPendingReview,
			CurrentVersion: 4,
		}
		var saved *domain.Design
		mockDesignRepo := &MockDesignRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Design, error) {
				return design, nil
			},
			UpdateFunc: func(ctx context.Context, d *domain.Design) error {
				saved = d
				return nil
			},
		}
		mockWorkflowRepo := &MockWorkflowRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Workflow, error) {
				return &domain.Workflow{
					BaseModel: domain.BaseModel{ID: workflowID},
					UserID:    uuid.New(),
					Type:      domain.WorkflowTypeNamecard,
					Status:    domain.WorkflowStatusDesignUploaded,
				}, nil
			},
		}
		var reconciled *DesignStatusEvent
		mockReconciler := &MockReconciler{
			OnDesignStatusChangedFunc: func(ctx context.Context, ev DesignStatusEvent) error {
				reconciled = &ev
				return nil
			},
		}
		var notified *domain.Notification
		mockNotifier := &MockNotifier{
			NotifyFunc: func(ctx context.Context, n *domain.Notification, msg client.OutboundMessage) {
				notified = n
			},
		}
		logger, _ := zap.NewDevelopment()
		service := NewDesignService(mockDesignRepo, mockWorkflowRepo, mockReconciler, mockNotifier, nil, logger)

		// When
		got, err := service.Approve(context.Background(), designID, actorID)

		// Then
		if err != nil {
			t.Fatalf("Approve() unexpected error = %v", err)
		}
		if saved == nil {
			t.Fatal("expected design to be saved")
		}
		if saved.ApprovedVersion == nil || *saved.ApprovedVersion != 4 {
			t.Errorf("approved version = %v, want 4", saved.ApprovedVersion)
		}
		if saved.ApprovedAt == nil {
			t.Error("expected ApprovedAt to be set")
		}
		if got.Status != domain.DesignStatusApproved {
			t.Errorf("Approve() status = %v, want APPROVED", got.Status)
		}
		if reconciled == nil {
			t.Fatal("expected a reconcile event")
		}
		if reconciled.WorkflowID != workflowID || reconciled.To != domain.DesignStatusApproved {
			t.Errorf("reconcile event = %+v", reconciled)
		}
		if reconciled.ActorID != actorID {
			t.Errorf("reconcile actor = %v, want %v", reconciled.ActorID, actorID)
		}
		if notified == nil || notified.Type != domain.NotificationDesignApproved {
			t.Error("expected a design approved notification")
		}
	})

	t.Run("실패: 버전 없는 디자인 승인 불가", func(t *testing.T) {
		// Given
		mockDesignRepo := &MockDesignRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Design, error) {
				return &domain.Design{
					BaseModel:      domain.BaseModel{ID: designID},
					Status:         domain.DesignStatusDraft,
					CurrentVersion: 0,
				}, nil
			},
		}
		logger, _ := zap.NewDevelopment()
		service := NewDesignService(mockDesignRepo, &MockWorkflowRepository{}, &MockReconciler{}, &MockNotifier{}, nil, logger)

		// When
		_, err := service.Approve(context.Background(), designID, actorID)

		// Then
		if err == nil {
			t.Fatal("Approve() error = nil, want error")
		}
		if appErr, ok := err.(*response.AppError); ok {
			if appErr.Code != response.ErrCodeInvalidState {
				t.Errorf("Approve() error code = %v, want INVALID_STATE", appErr.Code)
			}
		}
	})

	t.Run("실패: 이미 승인된 디자인 재승인 불가", func(t *testing.T) {
		// Given
		mockDesignRepo := &MockDesignRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Design, error) {
				return &domain.Design{
					BaseModel:      domain.BaseModel{ID: designID},
					Status:         domain.DesignStatusApproved,
					CurrentVersion: 2,
				}, nil
			},
		}
		logger, _ := zap.NewDevelopment()
		service := NewDesignService(mockDesignRepo, &MockWorkflowRepository{}, &MockReconciler{}, &MockNotifier{}, nil, logger)

		// When
		_, err := service.Approve(context.Background(), designID, actorID)

		// Then
		if err == nil {
			t.Fatal("Approve() error = nil, want error")
		}
	})

	t.Run("워크플로우 반영 실패는 승인을 되돌리지 않음", func(t *testing.T) {
		// Given
		design := &domain.Design{
			BaseModel:      domain.BaseModel{ID: designID},
			WorkflowID:     workflowID,
			Status:         domain.DesignStatusPendingReview,
			CurrentVersion: 1,
		}
		mockDesignRepo := &MockDesignRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Design, error) {
				return design, nil
			},
		}
		mockReconciler := &MockReconciler{
			OnDesignStatusChangedFunc: func(ctx context.Context, ev DesignStatusEvent) error {
				return errors.New("workflow update failed")
			},
		}
		mockWorkflowRepo := &MockWorkflowRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Workflow, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		logger, _ := zap.NewDevelopment()
		service := NewDesignService(mockDesignRepo, mockWorkflowRepo, mockReconciler, &MockNotifier{}, nil, logger)

		// When
		got, err := service.Approve(context.Background(), designID, actorID)

		// Then
		if err != nil {
			t.Fatalf("Approve() unexpected error = %v", err)
		}
		if got.Status != domain.DesignStatusApproved {
			t.Errorf("Approve() status = %v, want APPROVED", got.Status)
		}
	})
}

func TestDesignService_RequestRevision(t *testing.T) {
	designID := uuid.New()
	versionID := uuid.New()

	t.Run("수정 요청 사유는 최신 버전 피드백으로 기록", func(t *testing.T) {
		// Given
		design := &domain.Design{
			BaseModel:      domain.BaseModel{ID: designID},
			WorkflowID:     uuid.New(),
			Status:         domain.DesignStatusPendingReview,
			CurrentVersion: 2,
		}
		var feedback *domain.DesignFeedback
		mockDesignRepo := &MockDesignRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Design, error) {
				return design, nil
			},
			FindByIDWithVersionsFunc: func(ctx context.Context, id uuid.UUID) (*domain.Design, error) {
				full := *design
				full.Versions = []domain.DesignVersion{
					{ID: uuid.New(), Version: 1},
					{ID: versionID, Version: 2},
				}
				return &full, nil
			},
			AppendFeedbackFunc: func(ctx context.Context, fb *domain.DesignFeedback) error {
				feedback = fb
				return nil
			},
		}
		logger, _ := zap.NewDevelopment()
		service := NewDesignService(mockDesignRepo, &MockWorkflowRepository{}, &MockReconciler{}, &MockNotifier{}, nil, logger)

		// When
		got, err := service.RequestRevision(context.Background(), designID, uuid.New(), "로고를 좀 더 크게 해주세요")

		// Then
		if err != nil {
			t.Fatalf("RequestRevision() unexpected error = %v", err)
		}
		if got.Status != domain.DesignStatusRevisionRequested {
			t.Errorf("RequestRevision() status = %v, want REVISION_REQUESTED", got.Status)
		}
		if feedback == nil {
			t.Fatal("expected feedback to be recorded")
		}
		if feedback.VersionID != versionID {
			t.Errorf("feedback version = %v, want current version %v", feedback.VersionID, versionID)
		}
		if feedback.AuthorType != domain.FeedbackAuthorUser {
			t.Errorf("feedback author type = %v, want user", feedback.AuthorType)
		}
		if feedback.Content != "로고를 좀 더 크게 해주세요" {
			t.Errorf("feedback content = %q", feedback.Content)
		}
	})

	t.Run("실패: DRAFT 상태에서는 수정 요청 불가", func(t *testing.T) {
		// Given
		mockDesignRepo := &MockDesignRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Design, error) {
				return &domain.Design{
					BaseModel: domain.BaseModel{ID: designID},
					Status:    domain.DesignStatusDraft,
				}, nil
			},
		}
		logger, _ := zap.NewDevelopment()
		service := NewDesignService(mockDesignRepo, &MockWorkflowRepository{}, &MockReconciler{}, &MockNotifier{}, nil, logger)

		// When
		_, err := service.RequestRevision(context.Background(), designID, uuid.New(), "note")

		// Then
		if err == nil {
			t.Fatal("RequestRevision() error = nil, want error")
		}
		if appErr, ok := err.(*response.AppError); ok {
			if appErr.Code != response.ErrCodeInvalidState {
				t.Errorf("RequestRevision() error code = %v, want INVALID_STATE", appErr.Code)
			}
		}
	})
}

func TestWorkflowReconciler_OnDesignStatusChanged(t *testing.T) {
	workflowID := uuid.New()
	actorID := uuid.New()

	tests := []struct {
		name         string
		workflow     domain.WorkflowStatus
		design       domain.DesignStatus
		wantTarget   domain.WorkflowStatus
		wantNoUpdate bool
	}{
		{
			name:       "PENDING_REVIEW → 워크플로우 DESIGN_UPLOADED",
			workflow:   domain.WorkflowStatusInProgress,
			design:     domain.DesignStatusPendingReview,
			wantTarget: domain.WorkflowStatusDesignUploaded,
		},
		{
			name:       "REVISION_REQUESTED → 워크플로우 IN_PROGRESS",
			workflow:   domain.WorkflowStatusDesignUploaded,
			design:     domain.DesignStatusRevisionRequested,
			wantTarget: domain.WorkflowStatusInProgress,
		},
		{
			name:       "APPROVED → 워크플로우 ORDER_REQUESTED",
			workflow:   domain.WorkflowStatusDesignUploaded,
			design:     domain.DesignStatusApproved,
			wantTarget: domain.WorkflowStatusOrderRequested,
		},
		{
			name:         "DRAFT 는 워크플로우에 반영하지 않음",
			workflow:     domain.WorkflowStatusInProgress,
			design:       domain.DesignStatusDraft,
			wantNoUpdate: true,
		},
		{
			name:         "이미 목표 상태면 건너뜀 (멱등)",
			workflow:     domain.WorkflowStatusDesignUploaded,
			design:       domain.DesignStatusPendingReview,
			wantNoUpdate: true,
		},
		{
			name:         "전환 불가 상태면 건너뜀",
			workflow:     domain.WorkflowStatusShipped,
			design:       domain.DesignStatusApproved,
			wantNoUpdate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			var applied map[string]interface{}
			var appliedLog *domain.WorkflowLog
			mockWorkflowRepo := &MockWorkflowRepository{
				FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Workflow, error) {
					return &domain.Workflow{
						BaseModel: domain.BaseModel{ID: workflowID},
						Status:    tt.workflow,
					}, nil
				},
				UpdateStatusWithLogFunc: func(ctx context.Context, id uuid.UUID, updates map[string]interface{}, log *domain.WorkflowLog) error {
					applied = updates
					appliedLog = log
					return nil
				},
			}
			logger, _ := zap.NewDevelopment()
			reconciler := NewWorkflowReconciler(mockWorkflowRepo, nil, logger)

			// When
			err := reconciler.OnDesignStatusChanged(context.Background(), DesignStatusEvent{
				WorkflowID: workflowID,
				To:         tt.design,
				ActorID:    actorID,
			})

			// Then
			if err != nil {
				t.Fatalf("OnDesignStatusChanged() unexpected error = %v", err)
			}
			if tt.wantNoUpdate {
				if applied != nil {
					t.Errorf("expected no workflow update, got %v", applied)
				}
				return
			}
			if applied == nil {
				t.Fatal("expected a workflow update")
			}
			if applied["status"] != tt.wantTarget {
				t.Errorf("workflow status update = %v, want %v", applied["status"], tt.wantTarget)
			}
			if appliedLog.ChangedBy != actorID {
				t.Errorf("log changed by = %v, want %v", appliedLog.ChangedBy, actorID)
			}
		})
	}
}

func TestWorkflowReconciler_RevisionLoopIncrement(t *testing.T) {
	workflowID := uuid.New()

	// Given: 디자인 업로드됨 상태에서 수정 요청이 들어옴
	var applied map[string]interface{}
	mockWorkflowRepo := &MockWorkflowRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Workflow, error) {
			return &domain.Workflow{
				BaseModel:     domain.BaseModel{ID: workflowID},
				Status:        domain.WorkflowStatusDesignUploaded,
				RevisionCount: 1,
			}, nil
		},
		UpdateStatusWithLogFunc: func(ctx context.Context, id uuid.UUID, updates map[string]interface{}, log *domain.WorkflowLog) error {
			applied = updates
			return nil
		},
	}
	logger, _ := zap.NewDevelopment()
	reconciler := NewWorkflowReconciler(mockWorkflowRepo, nil, logger)

	// When
	err := reconciler.OnDesignStatusChanged(context.Background(), DesignStatusEvent{
		WorkflowID: workflowID,
		To:         domain.DesignStatusRevisionRequested,
		ActorID:    uuid.New(),
	})

	// Then
	if err != nil {
		t.Fatalf("OnDesignStatusChanged() unexpected error = %v", err)
	}
	if applied["revision_count"] != 2 {
		t.Errorf("revision_count update = %v, want 2", applied["revision_count"])
	}
}
