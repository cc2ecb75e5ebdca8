package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SubmissionStatus represents the review status of an onboarding submission
type SubmissionStatus string

const (
	SubmissionStatusDraft     SubmissionStatus = "DRAFT"
	SubmissionStatusSubmitted SubmissionStatus = "SUBMITTED"
	SubmissionStatusInReview  SubmissionStatus = "IN_REVIEW"
	SubmissionStatusApproved  SubmissionStatus = "APPROVED"
	SubmissionStatusRejected  SubmissionStatus = "REJECTED"
)

// submissionTransitions defines the legal status moves for a submission.
// APPROVED/REJECTED 는 종료 상태 (REJECTED 는 되살릴 수 없음)
var submissionTransitions = map[SubmissionStatus][]SubmissionStatus{
	SubmissionStatusDraft:     {SubmissionStatusSubmitted},
	SubmissionStatusSubmitted: {SubmissionStatusInReview, SubmissionStatusApproved, SubmissionStatusRejected},
	SubmissionStatusInReview:  {SubmissionStatusApproved, SubmissionStatusRejected},
}

// CanTransition reports whether a submission may move from one status to another
func (s SubmissionStatus) CanTransition(to SubmissionStatus) bool {
	for _, next := range submissionTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsReviewable reports whether the submission is in a state an admin can decide on
func (s SubmissionStatus) IsReviewable() bool {
	return s == SubmissionStatusSubmitted || s == SubmissionStatusInReview
}

// Submission represents a client's onboarding questionnaire
type Submission struct {
	BaseModel
	UserID           uuid.UUID        `gorm:"type:uuid;not null;index:idx_submissions_user_id" json:"user_id"`
	BrandName        string           `gorm:"type:varchar(255);not null" json:"brand_name"`
	ContactName      string           `gorm:"type:varchar(100)" json:"contact_name"`
	Phone            string           `gorm:"type:varchar(30)" json:"phone"`
	Email            string           `gorm:"type:varchar(255)" json:"email"`
	Address          string           `gorm:"type:varchar(500)" json:"address"`
	AddressDetail    string           `gorm:"type:varchar(255)" json:"address_detail"`
	StylePreferences datatypes.JSON   `gorm:"type:jsonb" json:"style_preferences"`
	IsComplete       bool             `gorm:"default:false" json:"is_complete"`
	Status           SubmissionStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index:idx_submissions_status" json:"status"`
	RejectionReason  string           `gorm:"type:text" json:"rejection_reason,omitempty"`
	ReviewedAt       *time.Time       `gorm:"type:timestamp" json:"reviewed_at,omitempty"`
	ReviewedBy       *uuid.UUID       `gorm:"type:uuid" json:"reviewed_by,omitempty"`
}

// TableName specifies the table name for Submission
func (Submission) TableName() string {
	return "submissions"
}
