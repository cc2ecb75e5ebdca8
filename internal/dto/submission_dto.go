package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"polarad-admin-api/internal/domain"
)

// CreateSubmissionRequest is the payload for creating an onboarding submission
type CreateSubmissionRequest struct {
	UserID           uuid.UUID              `json:"user_id" binding:"required"`
	BrandName        string                 `json:"brand_name" binding:"required,max=255"`
	ContactName      string                 `json:"contact_name" binding:"max=100"`
	Phone            string                 `json:"phone" binding:"max=30"`
	Email            string                 `json:"email" binding:"omitempty,email"`
	Address          string                 `json:"address" binding:"max=500"`
	AddressDetail    string                 `json:"address_detail" binding:"max=255"`
	StylePreferences map[string]interface{} `json:"style_preferences"`
	IsComplete       bool                   `json:"is_complete"`
}

// RejectSubmissionRequest carries the mandatory rejection reason
type RejectSubmissionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// SubmissionResponse is the API representation of a submission
type SubmissionResponse struct {
	ID               uuid.UUID               `json:"id"`
	UserID           uuid.UUID               `json:"user_id"`
	BrandName        string                  `json:"brand_name"`
	ContactName      string                  `json:"contact_name,omitempty"`
	Phone            string                  `json:"phone,omitempty"`
	Email            string                  `json:"email,omitempty"`
	Address          string                  `json:"address,omitempty"`
	AddressDetail    string                  `json:"address_detail,omitempty"`
	StylePreferences datatypes.JSON          `json:"style_preferences,omitempty"`
	IsComplete       bool                    `json:"is_complete"`
	Status           domain.SubmissionStatus `json:"status"`
	RejectionReason  string                  `json:"rejection_reason,omitempty"`
	ReviewedAt       *time.Time              `json:"reviewed_at,omitempty"`
	ReviewedBy       *uuid.UUID              `json:"reviewed_by,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// ToSubmissionResponse converts a domain model to its API representation
func ToSubmissionResponse(s *domain.Submission) *SubmissionResponse {
	return &SubmissionResponse{
		ID:               s.ID,
		UserID:           s.UserID,
		BrandName:        s.BrandName,
		ContactName:      s.ContactName,
		Phone:            s.Phone,
		Email:            s.Email,
		Address:          s.Address,
		AddressDetail:    s.AddressDetail,
		StylePreferences: s.StylePreferences,
		IsComplete:       s.IsComplete,
		Status:           s.Status,
		RejectionReason:  s.RejectionReason,
		ReviewedAt:       s.ReviewedAt,
		ReviewedBy:       s.ReviewedBy,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

// SubmissionListResponse is a paginated submission list
type SubmissionListResponse struct {
	Submissions []*SubmissionResponse `json:"submissions"`
	Total       int64                 `json:"total"`
	Page        int                   `json:"page"`
	Limit       int                   `json:"limit"`
}
