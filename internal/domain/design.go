package domain

import (
	"time"

	"github.com/google/uuid"
)

// DesignStatus represents the review status of a design
type DesignStatus string

const (
	DesignStatusDraft             DesignStatus = "DRAFT"
	DesignStatusPendingReview     DesignStatus = "PENDING_REVIEW"
	DesignStatusRevisionRequested DesignStatus = "REVISION_REQUESTED"
	DesignStatusApproved          DesignStatus = "APPROVED"
)

// designTransitions: PENDING_REVIEW 와 REVISION_REQUESTED 는 관리자가 DRAFT 로 되돌릴 수 있음.
// APPROVED 는 종료 상태.
var designTransitions = map[DesignStatus][]DesignStatus{
	DesignStatusDraft:             {DesignStatusPendingReview, DesignStatusApproved},
	DesignStatusPendingReview:     {DesignStatusRevisionRequested, DesignStatusApproved, DesignStatusDraft},
	DesignStatusRevisionRequested: {DesignStatusPendingReview, DesignStatusApproved, DesignStatusDraft},
}

// CanTransition reports whether a design may move from one status to another
func (s DesignStatus) CanTransition(to DesignStatus) bool {
	for _, next := range designTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the design status is final
func (s DesignStatus) IsTerminal() bool {
	return s == DesignStatusApproved
}

// FeedbackAuthorType distinguishes customer and admin feedback
type FeedbackAuthorType string

const (
	FeedbackAuthorUser  FeedbackAuthorType = "user"
	FeedbackAuthorAdmin FeedbackAuthorType = "admin"
)

// Design is the versioned creative artifact attached 1:1 to a workflow
type Design struct {
	BaseModel
	WorkflowID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_designs_workflow_id" json:"workflow_id"`
	Status          DesignStatus    `gorm:"type:varchar(20);not null;default:'DRAFT';index:idx_designs_status" json:"status"`
	CurrentVersion  int             `gorm:"default:0" json:"current_version"`
	ApprovedVersion *int            `json:"approved_version,omitempty"`
	ApprovedAt      *time.Time      `gorm:"type:timestamp" json:"approved_at,omitempty"`
	Versions        []DesignVersion `gorm:"foreignKey:DesignID;constraint:OnDelete:CASCADE" json:"versions,omitempty"`
}

// DesignVersion is an append-only uploaded artifact revision
type DesignVersion struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DesignID  uuid.UUID        `gorm:"type:uuid;not null;index:idx_design_versions_design_id;uniqueIndex:uq_design_versions_design_version" json:"design_id"`
	Version   int              `gorm:"not null;uniqueIndex:uq_design_versions_design_version" json:"version"`
	URL       string           `gorm:"type:varchar(1000);not null" json:"url"`
	Note      string           `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time        `gorm:"type:timestamp;not null;default:now()" json:"created_at"`
	Feedbacks []DesignFeedback `gorm:"foreignKey:VersionID;constraint:OnDelete:CASCADE" json:"feedbacks,omitempty"`
}

// DesignFeedback is an append-only feedback entry on a specific version
type DesignFeedback struct {
	ID         uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	VersionID  uuid.UUID          `gorm:"type:uuid;not null;index:idx_design_feedbacks_version_id" json:"version_id"`
	AuthorType FeedbackAuthorType `gorm:"type:varchar(10);not null" json:"author_type"`
	AuthorName string             `gorm:"type:varchar(100);not null" json:"author_name"`
	Content    string             `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time          `gorm:"type:timestamp;not null;default:now()" json:"created_at"`
}

// TableName specifies the table name for Design
func (Design) TableName() string {
	return "designs"
}

// TableName specifies the table name for DesignVersion
func (DesignVersion) TableName() string {
	return "design_versions"
}

// TableName specifies the table name for DesignFeedback
func (DesignFeedback) TableName() string {
	return "design_feedbacks"
}
