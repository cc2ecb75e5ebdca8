package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType categorizes customer-facing notifications
type NotificationType string

const (
	NotificationWelcome          NotificationType = "WELCOME"
	NotificationDesignReview     NotificationType = "DESIGN_REVIEW_REQUESTED"
	NotificationDesignApproved   NotificationType = "DESIGN_APPROVED"
	NotificationContractApproved NotificationType = "CONTRACT_APPROVED"
	NotificationContractRejected NotificationType = "CONTRACT_REJECTED"
	NotificationBackfillDone     NotificationType = "BACKFILL_COMPLETED"
	NotificationBackfillFailed   NotificationType = "BACKFILL_FAILED"
	NotificationShipping         NotificationType = "SHIPPING_STARTED"
)

// Notification is a persisted record of a fan-out delivery attempt target
type Notification struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TargetUserID uuid.UUID        `gorm:"type:uuid;not null;index:idx_notifications_target_user_id" json:"target_user_id"`
	Type         NotificationType `gorm:"type:varchar(40);not null" json:"type"`
	Title        string           `gorm:"type:varchar(255);not null" json:"title"`
	Body         string           `gorm:"type:text" json:"body"`
	ResourceType string           `gorm:"type:varchar(40)" json:"resource_type,omitempty"`
	ResourceID   *uuid.UUID       `gorm:"type:uuid" json:"resource_id,omitempty"`
	IsRead       bool             `gorm:"default:false;index:idx_notifications_is_read" json:"is_read"`
	CreatedAt    time.Time        `gorm:"type:timestamp;not null;default:now()" json:"created_at"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
