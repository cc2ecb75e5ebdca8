package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"polarad-admin-api/internal/domain"
	"polarad-admin-api/internal/metrics"
	"polarad-admin-api/internal/repository"
)

// DesignStatusEvent describes a design status change that may need to be
// reflected on the owning workflow
type DesignStatusEvent struct {
	WorkflowID uuid.UUID
	To         domain.DesignStatus
	ActorID    uuid.UUID
}

// WorkflowReconciler maps design status changes onto the owning workflow.
// The coupling is explicit: design services emit events, nothing mutates
// workflow rows as a side effect of a design update query.
type WorkflowReconciler interface {
	OnDesignStatusChanged(ctx context.Context, ev DesignStatusEvent) error
}

// workflowReconcilerImpl is the implementation of WorkflowReconciler
type workflowReconcilerImpl struct {
	workflowRepo repository.WorkflowRepository
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewWorkflowReconciler creates a new instance of WorkflowReconciler
func NewWorkflowReconciler(
	workflowRepo repository.WorkflowRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) WorkflowReconciler {
	return &workflowReconcilerImpl{
		workflowRepo: workflowRepo,
		metrics:      m,
		logger:       logger,
	}
}

// workflowTargetFor maps a design status to the workflow status it implies.
// Upload/draft states imply nothing.
func workflowTargetFor(to domain.DesignStatus) (domain.WorkflowStatus, bool) {
	switch to {
	case domain.DesignStatusPendingReview:
		return domain.WorkflowStatusDesignUploaded, true
	case domain.DesignStatusRevisionRequested:
		return domain.WorkflowStatusInProgress, true
	case domain.DesignStatusApproved:
		return domain.WorkflowStatusOrderRequested, true
	}
	return "", false
}

// OnDesignStatusChanged advances the owning workflow along its declared edges.
// 전환 불가 상태면 건너뛴다 (이미 반영된 경우 등).
func (r *workflowReconcilerImpl) OnDesignStatusChanged(ctx context.Context, ev DesignStatusEvent) error {
	target, ok := workflowTargetFor(ev.To)
	if !ok {
		return nil
	}

	workflow, err := r.workflowRepo.FindByID(ctx, ev.WorkflowID)
	if err != nil {
		return fmt.Errorf("failed to load workflow %s: %w", ev.WorkflowID, err)
	}

	if workflow.Status == target {
		return nil
	}
	if !workflow.Status.CanTransition(target) {
		r.logger.Warn("Skipping workflow reconciliation, transition not allowed",
			zap.String("workflow_id", ev.WorkflowID.String()),
			zap.String("from", string(workflow.Status)),
			zap.String("to", string(target)))
		return nil
	}

	updates := map[string]interface{}{"status": target}
	if target == domain.WorkflowStatusInProgress && workflow.Status == domain.WorkflowStatusDesignUploaded {
		// 수정 요청 루프: 되돌아갈 때마다 수정 횟수 증가
		updates["revision_count"] = workflow.RevisionCount + 1
	}

	from := workflow.Status
	log := &domain.WorkflowLog{
		WorkflowID: workflow.ID,
		FromStatus: &from,
		ToStatus:   target,
		ChangedBy:  ev.ActorID,
		Note:       fmt.Sprintf("디자인 상태 변경(%s)에 따른 자동 전환", ev.To),
	}
	if err := r.workflowRepo.UpdateStatusWithLog(ctx, workflow.ID, updates, log); err != nil {
		return fmt.Errorf("failed to reconcile workflow %s: %w", ev.WorkflowID, err)
	}

	if r.metrics != nil {
		r.metrics.RecordStatusTransition("workflow", string(target))
	}
	r.logger.Info("Workflow reconciled from design status change",
		zap.String("workflow_id", ev.WorkflowID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(target)))
	return nil
}
