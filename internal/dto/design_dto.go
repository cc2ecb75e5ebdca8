package dto

import (
	"time"

	"github.com/google/uuid"

	"polarad-admin-api/internal/domain"
)

// UploadDesignVersionRequest is the payload for uploading a new design version
type UploadDesignVersionRequest struct {
	URL  string `json:"url" binding:"required,max=1000"`
	Note string `json:"note"`
}

// DesignFeedbackRequest is the payload for recording feedback on a version
type DesignFeedbackRequest struct {
	VersionID  uuid.UUID                 `json:"version_id" binding:"required"`
	AuthorType domain.FeedbackAuthorType `json:"author_type" binding:"required,oneof=user admin"`
	AuthorName string                    `json:"author_name" binding:"required,max=100"`
	Content    string                    `json:"content" binding:"required"`
}

// DesignResponse is the API representation of a design
type DesignResponse struct {
	ID              uuid.UUID                `json:"id"`
	WorkflowID      uuid.UUID                `json:"workflow_id"`
	Status          domain.DesignStatus      `json:"status"`
	CurrentVersion  int                      `json:"current_version"`
	ApprovedVersion *int                     `json:"approved_version,omitempty"`
	ApprovedAt      *time.Time               `json:"approved_at,omitempty"`
	Versions        []*DesignVersionResponse `json:"versions,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// DesignVersionResponse is one uploaded version with its feedback
type DesignVersionResponse struct {
	ID        uuid.UUID                 `json:"id"`
	Version   int                       `json:"version"`
	URL       string                    `json:"url"`
	Note      string                    `json:"note,omitempty"`
	Feedbacks []*DesignFeedbackResponse `json:"feedbacks,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
}

// DesignFeedbackResponse is one feedback entry
type DesignFeedbackResponse struct {
	ID         uuid.UUID                 `json:"id"`
	AuthorType domain.FeedbackAuthorType `json:"author_type"`
	AuthorName string                    `json:"author_name"`
	Content    string                    `json:"content"`
	CreatedAt  time.Time                 `json:"created_at"`
}

// ToDesignResponse converts a domain model to its API representation
func ToDesignResponse(d *domain.Design) *DesignResponse {
	resp := &DesignResponse{
		ID:              d.ID,
		WorkflowID:      d.WorkflowID,
		Status:          d.Status,
		CurrentVersion:  d.CurrentVersion,
		ApprovedVersion: d.ApprovedVersion,
		ApprovedAt:      d.ApprovedAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	for i := range d.Versions {
		v := &d.Versions[i]
		vResp := &DesignVersionResponse{
			ID:        v.ID,
			Version:   v.Version,
			URL:       v.URL,
			Note:      v.Note,
			CreatedAt: v.CreatedAt,
		}
		for j := range v.Feedbacks {
			f := &v.Feedbacks[j]
			vResp.Feedbacks = append(vResp.Feedbacks, &DesignFeedbackResponse{
				ID:         f.ID,
				AuthorType: f.AuthorType,
				AuthorName: f.AuthorName,
				Content:    f.Content,
				CreatedAt:  f.CreatedAt,
			})
		}
		resp.Versions = append(resp.Versions, vResp)
	}
	return resp
}
