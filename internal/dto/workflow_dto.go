package dto

import (
	"time"

	"github.com/google/uuid"

	"polarad-admin-api/internal/domain"
)

// UpdateWorkflowStatusRequest is the payload for a workflow status transition.
// Field updates ride along with the transition and are applied atomically.
type UpdateWorkflowStatusRequest struct {
	Status         domain.WorkflowStatus `json:"status" binding:"required"`
	DesignURL      *string               `json:"design_url,omitempty"`
	FinalURL       *string               `json:"final_url,omitempty"`
	Courier        *string               `json:"courier,omitempty"`
	TrackingNumber *string               `json:"tracking_number,omitempty"`
	AdminNote      *string               `json:"admin_note,omitempty"`
	Note           string                `json:"note,omitempty"`
}

// WorkflowResponse is the API representation of a workflow
type WorkflowResponse struct {
	ID             uuid.UUID              `json:"id"`
	UserID         uuid.UUID              `json:"user_id"`
	Type           domain.WorkflowType    `json:"type"`
	Status         domain.WorkflowStatus  `json:"status"`
	DesignURL      string                 `json:"design_url,omitempty"`
	FinalURL       string                 `json:"final_url,omitempty"`
	Courier        string                 `json:"courier,omitempty"`
	TrackingNumber string                 `json:"tracking_number,omitempty"`
	AdminNote      string                 `json:"admin_note,omitempty"`
	RevisionCount  int                    `json:"revision_count"`
	Logs           []*WorkflowLogResponse `json:"logs,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// WorkflowLogResponse is one entry of the status change history
type WorkflowLogResponse struct {
	ID         uuid.UUID              `json:"id"`
	FromStatus *domain.WorkflowStatus `json:"from_status"`
	ToStatus   domain.WorkflowStatus  `json:"to_status"`
	ChangedBy  uuid.UUID              `json:"changed_by"`
	Note       string                 `json:"note,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// ToWorkflowResponse converts a domain model to its API representation
func ToWorkflowResponse(w *domain.Workflow) *WorkflowResponse {
	resp := &WorkflowResponse{
		ID:             w.ID,
		UserID:         w.UserID,
		Type:           w.Type,
		Status:         w.Status,
		DesignURL:      w.DesignURL,
		FinalURL:       w.FinalURL,
		Courier:        w.Courier,
		TrackingNumber: w.TrackingNumber,
		AdminNote:      w.AdminNote,
		RevisionCount:  w.RevisionCount,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
	for i := range w.Logs {
		l := &w.Logs[i]
		resp.Logs = append(resp.Logs, &WorkflowLogResponse{
			ID:         l.ID,
			FromStatus: l.FromStatus,
			ToStatus:   l.ToStatus,
			ChangedBy:  l.ChangedBy,
			Note:       l.Note,
			CreatedAt:  l.CreatedAt,
		})
	}
	return resp
}

// WorkflowListResponse is a paginated workflow list
type WorkflowListResponse struct {
	Workflows []*WorkflowResponse `json:"workflows"`
	Total     int64               `json:"total"`
	Page      int                 `json:"page"`
	Limit     int                 `json:"limit"`
}
