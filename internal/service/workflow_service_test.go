package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"polarad-admin-api/internal/client"
	"polarad-admin-api/internal/domain"
	"polarad-admin-api/internal/dto"
	"polarad-admin-api/internal/response"
)

func workflowFinder(workflow *domain.Workflow) func(ctx context.Context, id uuid.UUID) (*domain.Workflow, error) {
	return func(ctx context.Context, id uuid.UUID) (*domain.Workflow, error) {
		return workflow, nil
	}
}

func TestWorkflowService_SetStatus(t *testing.T) {
	workflowID := uuid.New()
	adminID := uuid.New()

	tests := []struct {
		name        string
		current     domain.WorkflowStatus
		req         *dto.UpdateWorkflowStatusRequest
		wantErr     bool
		wantErrCode string
	}{
		{
			name:    "성공: PENDING → SUBMITTED",
			current: domain.WorkflowStatusPending,
			req:     &dto.UpdateWorkflowStatusRequest{Status: domain.WorkflowStatusSubmitted},
		},
		{
			name:    "성공: 종료 전 상태에서 취소",
			current: domain.WorkflowStatusOrderApproved,
			req:     &dto.UpdateWorkflowStatusRequest{Status: domain.WorkflowStatusCancelled},
		},
		{
			name:        "실패: 단계를 건너뛰는 전환",
			current:     domain.WorkflowStatusPending,
			req:         &dto.UpdateWorkflowStatusRequest{Status: domain.WorkflowStatusCompleted},
			wantErr:     true,
			wantErrCode: response.ErrCodeInvalidState,
		},
		{
			name:        "실패: 종료 상태에서의 전환",
			current:     domain.WorkflowStatusShipped,
			req:         &dto.UpdateWorkflowStatusRequest{Status: domain.WorkflowStatusCompleted},
			wantErr:     true,
			wantErrCode: response.ErrCodeInvalidState,
		},
		{
			name:        "실패: 정의되지 않은 상태 값",
			current:     domain.WorkflowStatusPending,
			req:         &dto.UpdateWorkflowStatusRequest{Status: "SHIPPING"},
			wantErr:     true,
			wantErrCode: response.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			workflow := &domain.Workflow{
				BaseModel: domain.BaseModel{ID: workflowID},
				UserID:    uuid.New(),
				Type:      domain.WorkflowTypeNamecard,
				Status:    tt.current,
			}
			var appliedLog *domain.WorkflowLog
			mockWorkflowRepo := &MockWorkflowRepository{
				FindByIDFunc:         workflowFinder(workflow),
				FindByIDWithLogsFunc: workflowFinder(workflow),
				UpdateStatusWithLogFunc: func(ctx context.Context, id uuid.UUID, updates map[string]interface{}, log *domain.WorkflowLog) error {
					appliedLog = log
					workflow.Status = updates["status"].(domain.WorkflowStatus)
					return nil
				},
			}
			logger, _ := zap.NewDevelopment()
			service := NewWorkflowService(mockWorkflowRepo, &MockNotifier{}, nil, logger)

			// When
			got, err := service.SetStatus(context.Background(), workflowID, adminID, tt.req)

			// Then
			if tt.wantErr {
				if err == nil {
					t.Fatal("SetStatus() error = nil, want error")
				}
				if appErr, ok := err.(*response.AppError); ok {
					if appErr.Code != tt.wantErrCode {
						t.Errorf("SetStatus() error code = %v, want %v", appErr.Code, tt.wantErrCode)
					}
				}
				if appliedLog != nil {
					t.Error("no log must be written when the transition is rejected")
				}
				return
			}
			if err != nil {
				t.Fatalf("SetStatus() unexpected error = %v", err)
			}
			if got.Status != tt.req.Status {
				t.Errorf("SetStatus() status = %v, want %v", got.Status, tt.req.Status)
			}
			if appliedLog == nil {
				t.Fatal("expected a status log to be written")
			}
			if appliedLog.FromStatus == nil || *appliedLog.FromStatus != tt.current {
				t.Errorf("log from status = %v, want %v", appliedLog.FromStatus, tt.current)
			}
			if appliedLog.ToStatus != tt.req.Status {
				t.Errorf("log to status = %v, want %v", appliedLog.ToStatus, tt.req.Status)
			}
			if appliedLog.ChangedBy != adminID {
				t.Errorf("log changed by = %v, want %v", appliedLog.ChangedBy, adminID)
			}
		})
	}
}

func TestWorkflowService_SetStatus_RevisionCount(t *testing.T) {
	workflowID := uuid.New()

	// Given: 디자인 업로드 상태에서 수정 요청으로 되돌아감
	workflow := &domain.Workflow{
		BaseModel:     domain.BaseModel{ID: workflowID},
		Type:          domain.WorkflowTypeNametag,
		Status:        domain.WorkflowStatusDesignUploaded,
		RevisionCount: 2,
	}
	var applied map[string]interface{}
	mockWorkflowRepo := &MockWorkflowRepository{
		FindByIDFunc:         workflowFinder(workflow),
		FindByIDWithLogsFunc: workflowFinder(workflow),
		UpdateStatusWithLogFunc: func(ctx context.Context, id uuid.UUID, updates map[string]interface{}, log *domain.WorkflowLog) error {
			applied = updates
			return nil
		},
	}
	logger, _ := zap.NewDevelopment()
	service := NewWorkflowService(mockWorkflowRepo, &MockNotifier{}, nil, logger)

	// When
	_, err := service.SetStatus(context.Background(), workflowID, uuid.New(),
		&dto.UpdateWorkflowStatusRequest{Status: domain.WorkflowStatusInProgress, Note: "로고 색상 수정"})

	// Then
	if err != nil {
		t.Fatalf("SetStatus() unexpected error = %v", err)
	}
	if applied["revision_count"] != 3 {
		t.Errorf("revision_count update = %v, want 3", applied["revision_count"])
	}
}

func TestWorkflowService_SetStatus_FieldMerge(t *testing.T) {
	workflowID := uuid.New()

	// Given: 발송 처리와 함께 운송장 정보 기록
	workflow := &domain.Workflow{
		BaseModel: domain.BaseModel{ID: workflowID},
		UserID:    uuid.New(),
		Type:      domain.WorkflowTypeNamecard,
		Status:    domain.WorkflowStatusCompleted,
	}
	var applied map[string]interface{}
	mockWorkflowRepo := &MockWorkflowRepository{
		FindByIDFunc:         workflowFinder(workflow),
		FindByIDWithLogsFunc: workflowFinder(workflow),
		UpdateStatusWithLogFunc: func(ctx context.Context, id uuid.UUID, updates map[string]interface{}, log *domain.WorkflowLog) error {
			applied = updates
			return nil
		},
	}

	var sent *domain.Notification
	mockNotifier := &MockNotifier{
		NotifyFunc: func(ctx context.Context, n *domain.Notification, msg client.OutboundMessage) {
			sent = n
		},
	}
	logger, _ := zap.NewDevelopment()
	service := NewWorkflowService(mockWorkflowRepo, mockNotifier, nil, logger)

	courier := "CJ대한통운"
	tracking := "1234567890"

	// When
	_, err := service.SetStatus(context.Background(), workflowID, uuid.New(),
		&dto.UpdateWorkflowStatusRequest{
			Status:         domain.WorkflowStatusShipped,
			Courier:        &courier,
			TrackingNumber: &tracking,
		})

	// Then
	if err != nil {
		t.Fatalf("SetStatus() unexpected error = %v", err)
	}
	if applied["courier"] != courier {
		t.Errorf("courier update = %v, want %v", applied["courier"], courier)
	}
	if applied["tracking_number"] != tracking {
		t.Errorf("tracking_number update = %v, want %v", applied["tracking_number"], tracking)
	}
	if _, ok := applied["design_url"]; ok {
		t.Error("unset fields must not appear in the update map")
	}
	if sent == nil {
		t.Fatal("expected a shipping notification")
	}
	if sent.Type != domain.NotificationShipping {
		t.Errorf("notification type = %v, want SHIPPING_STARTED", sent.Type)
	}
}

func TestWorkflowService_GetWorkflow_NotFound(t *testing.T) {
	// Given
	mockWorkflowRepo := &MockWorkflowRepository{
		FindByIDWithLogsFunc: func(ctx context.Context, id uuid.UUID) (*domain.Workflow, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	logger, _ := zap.NewDevelopment()
	service := NewWorkflowService(mockWorkflowRepo, &MockNotifier{}, nil, logger)

	// When
	_, err := service.GetWorkflow(context.Background(), uuid.New())

	// Then
	if err == nil {
		t.Fatal("GetWorkflow() error = nil, want error")
	}
	if appErr, ok := err.(*response.AppError); ok {
		if appErr.Code != response.ErrCodeNotFound {
			t.Errorf("GetWorkflow() error code = %v, want NOT_FOUND", appErr.Code)
		}
	}
}
