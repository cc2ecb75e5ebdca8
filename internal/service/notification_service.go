package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"polarad-admin-api/internal/client"
	"polarad-admin-api/internal/database"
	"polarad-admin-api/internal/domain"
	"polarad-admin-api/internal/dto"
	"polarad-admin-api/internal/metrics"
	"polarad-admin-api/internal/repository"
	"polarad-admin-api/internal/response"
)

// sendTimeout bounds each outbound channel delivery independently of the
// originating request
const sendTimeout = 10 * time.Second

// NotificationService handles persistence, read APIs and best-effort fan-out
type NotificationService interface {
	// Notify persists the notification and fans it out to all enabled
	// channels. Channel failures are logged and counted, never returned.
	Notify(ctx context.Context, notification *domain.Notification, msg client.OutboundMessage)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int, unreadOnly bool) (*dto.NotificationListResponse, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
}

// notificationServiceImpl is the implementation of NotificationService
type notificationServiceImpl struct {
	notificationRepo repository.NotificationRepository
	channels         []client.Channel
	metrics          *metrics.Metrics
	logger           *zap.Logger
}

// NewNotificationService creates a new instance of NotificationService
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	channels []client.Channel,
	m *metrics.Metrics,
	logger *zap.Logger,
) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		channels:         channels,
		metrics:          m,
		logger:           logger,
	}
}

// Notify persists the notification row, invalidates the unread-count cache,
// publishes to Redis for live admin sessions, then fans out asynchronously.
// 알림 실패는 원래 작업을 절대 되돌리지 않는다.
func (s *notificationServiceImpl) Notify(ctx context.Context, notification *domain.Notification, msg client.OutboundMessage) {
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.Error("Failed to persist notification",
			zap.String("type", string(notification.Type)),
			zap.String("target_user_id", notification.TargetUserID.String()),
			zap.Error(err))
		// 저장 실패해도 채널 발송은 시도한다
	}

	s.invalidateUnreadCache(ctx, notification.TargetUserID)
	s.publish(ctx, notification)

	for _, ch := range s.channels {
		go s.sendOne(ch, msg)
	}
}

// sendOne delivers through a single channel with its own deadline
func (s *notificationServiceImpl) sendOne(ch client.Channel, msg client.OutboundMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := ch.Send(ctx, msg); err != nil {
		s.logger.Warn("Notification channel delivery failed",
			zap.String("channel", ch.Name()),
			zap.Error(err))
		if s.metrics != nil {
			s.metrics.RecordNotificationFailed(ch.Name())
		}
		return
	}
	if s.metrics != nil {
		s.metrics.RecordNotificationSent(ch.Name())
	}
}

// publish pushes the notification to the user's Redis channel so connected
// admin sessions see it without polling
func (s *notificationServiceImpl) publish(ctx context.Context, notification *domain.Notification) {
	rdb := database.GetRedis()
	if rdb == nil {
		return
	}
	payload, err := json.Marshal(dto.ToNotificationResponse(notification))
	if err != nil {
		return
	}
	channel := fmt.Sprintf("notifications:%s", notification.TargetUserID)
	if err := rdb.Publish(ctx, channel, payload).Err(); err != nil {
		s.logger.Warn("Failed to publish notification to redis",
			zap.String("channel", channel),
			zap.Error(err))
	}
}

func unreadCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("notifications:unread:%s", userID)
}

func (s *notificationServiceImpl) invalidateUnreadCache(ctx context.Context, userID uuid.UUID) {
	rdb := database.GetRedis()
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, unreadCacheKey(userID)).Err(); err != nil {
		s.logger.Warn("Failed to invalidate unread cache", zap.Error(err))
	}
}

// ListByUser returns the user's notifications with the unread count.
// 미읽음 카운트는 Redis 에 60초 캐시된다.
func (s *notificationServiceImpl) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int, unreadOnly bool) (*dto.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	notifications, total, err := s.notificationRepo.FindByUserID(ctx, userID, page, limit, unreadOnly)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "알림 목록 조회에 실패했습니다", err.Error())
	}

	unread, err := s.unreadCount(ctx, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "알림 목록 조회에 실패했습니다", err.Error())
	}

	resp := &dto.NotificationListResponse{
		Notifications: make([]*dto.NotificationResponse, 0, len(notifications)),
		Total:         total,
		UnreadCount:   unread,
		Page:          page,
		Limit:         limit,
	}
	for _, n := range notifications {
		resp.Notifications = append(resp.Notifications, dto.ToNotificationResponse(n))
	}
	return resp, nil
}

func (s *notificationServiceImpl) unreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	rdb := database.GetRedis()
	if rdb != nil {
		if cached, err := rdb.Get(ctx, unreadCacheKey(userID)).Int64(); err == nil {
			return cached, nil
		}
	}

	count, err := s.notificationRepo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, err
	}

	if rdb != nil {
		if err := rdb.Set(ctx, unreadCacheKey(userID), count, time.Minute).Err(); err != nil {
			s.logger.Warn("Failed to cache unread count", zap.Error(err))
		}
	}
	return count, nil
}

// MarkAsRead marks one notification read and drops the cached unread count
func (s *notificationServiceImpl) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.notificationRepo.MarkAsRead(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "알림을 찾을 수 없습니다", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "알림 읽음 처리에 실패했습니다", err.Error())
	}
	s.invalidateUnreadCache(ctx, userID)
	return nil
}
