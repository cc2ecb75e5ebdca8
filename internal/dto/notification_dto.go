package dto

import (
	"time"

	"github.com/google/uuid"

	"polarad-admin-api/internal/domain"
)

// NotificationResponse is the API representation of a notification
type NotificationResponse struct {
	ID           uuid.UUID               `json:"id"`
	Type         domain.NotificationType `json:"type"`
	Title        string                  `json:"title"`
	Body         string                  `json:"body,omitempty"`
	ResourceType string                  `json:"resource_type,omitempty"`
	ResourceID   *uuid.UUID              `json:"resource_id,omitempty"`
	IsRead       bool                    `json:"is_read"`
	CreatedAt    time.Time               `json:"created_at"`
}

// ToNotificationResponse converts a domain model to its API representation
func ToNotificationResponse(n *domain.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:           n.ID,
		Type:         n.Type,
		Title:        n.Title,
		Body:         n.Body,
		ResourceType: n.ResourceType,
		ResourceID:   n.ResourceID,
		IsRead:       n.IsRead,
		CreatedAt:    n.CreatedAt,
	}
}

// NotificationListResponse is a paginated notification list with unread count
type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	UnreadCount   int64                   `json:"unread_count"`
	Page          int                     `json:"page"`
	Limit         int                     `json:"limit"`
}
