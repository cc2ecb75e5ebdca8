package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"polarad-admin-api/internal/response"
	"polarad-admin-api/internal/service"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListByUser godoc
// @Summary      고객별 알림 목록
// @Description  미읽음 카운트를 포함해 페이지네이션으로 조회합니다
// @Tags         notifications
// @Produce      json
// @Param        userId path string true "User ID (UUID)"
// @Param        page query int false "페이지 (기본 1)"
// @Param        limit query int false "페이지 크기 (기본 20)"
// @Param        unread query bool false "미읽음만 조회"
// @Success      200 {object} response.SuccessResponse{data=dto.NotificationListResponse}
// @Router       /notifications/user/{userId} [get]
func (h *NotificationHandler) ListByUser(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))

	result, err := h.notificationService.ListByUser(c.Request.Context(), userID, page, limit, unreadOnly)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// MarkAsRead godoc
// @Summary      알림 읽음 처리
// @Tags         notifications
// @Produce      json
// @Param        userId path string true "User ID (UUID)"
// @Param        id path string true "Notification ID (UUID)"
// @Success      204 "처리 성공"
// @Failure      404 {object} response.ErrorResponse "알림을 찾을 수 없음"
// @Router       /notifications/user/{userId}/{id}/read [post]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkAsRead(c.Request.Context(), id, userID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
