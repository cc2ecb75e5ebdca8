package domain

import (
	"time"

	"github.com/google/uuid"
)

// WorkflowType represents a production deliverable type, fixed at creation
type WorkflowType string

const (
	WorkflowTypeNamecard WorkflowType = "NAMECARD"
	WorkflowTypeNametag  WorkflowType = "NAMETAG"
	WorkflowTypeContract WorkflowType = "CONTRACT"
	WorkflowTypeEnvelope WorkflowType = "ENVELOPE"
	WorkflowTypeWebsite  WorkflowType = "WEBSITE"
	WorkflowTypeBlog     WorkflowType = "BLOG"
	WorkflowTypeMetaAds  WorkflowType = "META_ADS"
	WorkflowTypeNaverAds WorkflowType = "NAVER_ADS"
)

// DefaultWorkflowTypes are the deliverables created when a submission is approved
var DefaultWorkflowTypes = []WorkflowType{
	WorkflowTypeNamecard,
	WorkflowTypeNametag,
	WorkflowTypeContract,
	WorkflowTypeEnvelope,
	WorkflowTypeWebsite,
	WorkflowTypeBlog,
	WorkflowTypeMetaAds,
	WorkflowTypeNaverAds,
}

// WorkflowStatus represents the production stage of a workflow
type WorkflowStatus string

const (
	WorkflowStatusPending        WorkflowStatus = "PENDING"
	WorkflowStatusSubmitted      WorkflowStatus = "SUBMITTED"
	WorkflowStatusInProgress     WorkflowStatus = "IN_PROGRESS"
	WorkflowStatusDesignUploaded WorkflowStatus = "DESIGN_UPLOADED"
	WorkflowStatusOrderRequested WorkflowStatus = "ORDER_REQUESTED"
	WorkflowStatusOrderApproved  WorkflowStatus = "ORDER_APPROVED"
	WorkflowStatusCompleted      WorkflowStatus = "COMPLETED"
	WorkflowStatusShipped        WorkflowStatus = "SHIPPED"
	WorkflowStatusCancelled      WorkflowStatus = "CANCELLED"
)

// workflowTransitions: forward edges plus the two admin backward edges used by the
// revision loop. CANCELLED 은 종료 전 모든 상태에서 가능.
var workflowTransitions = map[WorkflowStatus][]WorkflowStatus{
	WorkflowStatusPending:        {WorkflowStatusSubmitted},
	WorkflowStatusSubmitted:      {WorkflowStatusInProgress},
	WorkflowStatusInProgress:     {WorkflowStatusDesignUploaded},
	WorkflowStatusDesignUploaded: {WorkflowStatusOrderRequested, WorkflowStatusInProgress},
	WorkflowStatusOrderRequested: {WorkflowStatusOrderApproved, WorkflowStatusDesignUploaded},
	WorkflowStatusOrderApproved:  {WorkflowStatusCompleted},
	WorkflowStatusCompleted:      {WorkflowStatusShipped},
}

// IsTerminal reports whether the workflow status is final
func (s WorkflowStatus) IsTerminal() bool {
	return s == WorkflowStatusShipped || s == WorkflowStatusCancelled
}

// CanTransition reports whether a workflow may move from one status to another.
// Any non-terminal status may move to CANCELLED.
func (s WorkflowStatus) CanTransition(to WorkflowStatus) bool {
	if to == WorkflowStatusCancelled {
		return !s.IsTerminal()
	}
	for _, next := range workflowTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidWorkflowStatus reports whether the value is one of the nine enum values
func ValidWorkflowStatus(s WorkflowStatus) bool {
	switch s {
	case WorkflowStatusPending, WorkflowStatusSubmitted, WorkflowStatusInProgress,
		WorkflowStatusDesignUploaded, WorkflowStatusOrderRequested, WorkflowStatusOrderApproved,
		WorkflowStatusCompleted, WorkflowStatusShipped, WorkflowStatusCancelled:
		return true
	}
	return false
}

// Workflow represents one production deliverable for a client
type Workflow struct {
	BaseModel
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index:idx_workflows_user_id;uniqueIndex:uq_workflows_user_type" json:"user_id"`
	Type           WorkflowType   `gorm:"type:varchar(20);not null;uniqueIndex:uq_workflows_user_type" json:"type"`
	Status         WorkflowStatus `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_workflows_status" json:"status"`
	DesignURL      string         `gorm:"type:varchar(1000)" json:"design_url,omitempty"`
	FinalURL       string         `gorm:"type:varchar(1000)" json:"final_url,omitempty"`
	Courier        string         `gorm:"type:varchar(50)" json:"courier,omitempty"`
	TrackingNumber string         `gorm:"type:varchar(100)" json:"tracking_number,omitempty"`
	AdminNote      string         `gorm:"type:text" json:"admin_note,omitempty"`
	RevisionCount  int            `gorm:"default:0" json:"revision_count"`
	Logs           []WorkflowLog  `gorm:"foreignKey:WorkflowID;constraint:OnDelete:CASCADE" json:"logs,omitempty"`
}

// WorkflowLog records a single status change, append-only
type WorkflowLog struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	WorkflowID uuid.UUID       `gorm:"type:uuid;not null;index:idx_workflow_logs_workflow_id" json:"workflow_id"`
	FromStatus *WorkflowStatus `gorm:"type:varchar(20)" json:"from_status"`
	ToStatus   WorkflowStatus  `gorm:"type:varchar(20);not null" json:"to_status"`
	ChangedBy  uuid.UUID       `gorm:"type:uuid;not null" json:"changed_by"`
	Note       string          `gorm:"type:text" json:"note,omitempty"`
	CreatedAt  time.Time       `gorm:"type:timestamp;not null;default:now()" json:"created_at"`
}

// TableName specifies the table name for Workflow
func (Workflow) TableName() string {
	return "workflows"
}

// TableName specifies the table name for WorkflowLog
func (WorkflowLog) TableName() string {
	return "workflow_logs"
}
