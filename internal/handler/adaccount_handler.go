package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"polarad-admin-api/internal/database"
	"polarad-admin-api/internal/dto"
	"polarad-admin-api/internal/response"
	"polarad-admin-api/internal/service"
)

type AdAccountHandler struct {
	adAccountService service.AdAccountService
	backfillService  service.BackfillService
	logger           *zap.Logger
}

func NewAdAccountHandler(
	adAccountService service.AdAccountService,
	backfillService service.BackfillService,
	logger *zap.Logger,
) *AdAccountHandler {
	return &AdAccountHandler{
		adAccountService: adAccountService,
		backfillService:  backfillService,
		logger:           logger,
	}
}

// CreateAdAccount godoc
// @Summary      광고 계정 등록
// @Description  토큰 연결 전의 계정 껍데기를 등록합니다 (AUTH_REQUIRED)
// @Tags         ad-accounts
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateAdAccountRequest true "계정 등록 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.AdAccountResponse}
// @Router       /ad-accounts [post]
func (h *AdAccountHandler) CreateAdAccount(c *gin.Context) {
	var req dto.CreateAdAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "요청 형식이 올바르지 않습니다")
		return
	}

	result, err := h.adAccountService.CreateAdAccount(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, result)
}

// GetAdAccount godoc
// @Summary      광고 계정 단건 조회
// @Description  액세스 토큰은 응답에 포함되지 않습니다
// @Tags         ad-accounts
// @Produce      json
// @Param        id path string true "AdAccount ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.AdAccountResponse}
// @Failure      404 {object} response.ErrorResponse "계정을 찾을 수 없음"
// @Router       /ad-accounts/{id} [get]
func (h *AdAccountHandler) GetAdAccount(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.adAccountService.GetAdAccount(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// ListAdAccounts godoc
// @Summary      광고 계정 목록
// @Tags         ad-accounts
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]dto.AdAccountResponse}
// @Router       /ad-accounts [get]
func (h *AdAccountHandler) ListAdAccounts(c *gin.Context) {
	result, err := h.adAccountService.ListAdAccounts(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// Connect godoc
// @Summary      Meta 액세스 토큰 연결
// @Description  토큰을 Graph API로 검증한 뒤 암호화해 저장합니다
// @Tags         ad-accounts
// @Accept       json
// @Produce      json
// @Param        id path string true "AdAccount ID (UUID)"
// @Param        request body dto.ConnectAdAccountRequest true "액세스 토큰"
// @Success      200 {object} response.SuccessResponse{data=dto.AdAccountResponse}
// @Failure      400 {object} response.ErrorResponse "토큰 검증 실패"
// @Router       /ad-accounts/{id}/connect [post]
func (h *AdAccountHandler) Connect(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ConnectAdAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "액세스 토큰은 필수입니다")
		return
	}

	result, err := h.adAccountService.Connect(c.Request.Context(), id, req.AccessToken)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// ListRawData godoc
// @Summary      수집된 광고 데이터 조회
// @Tags         ad-accounts
// @Produce      json
// @Param        id path string true "AdAccount ID (UUID)"
// @Param        from query string true "조회 시작일 (YYYY-MM-DD)"
// @Param        to query string true "조회 종료일 (YYYY-MM-DD)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.RawDataResponse}
// @Router       /ad-accounts/{id}/raw-data [get]
func (h *AdAccountHandler) ListRawData(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "조회 시작일 형식이 올바르지 않습니다")
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "조회 종료일 형식이 올바르지 않습니다")
		return
	}

	result, err := h.adAccountService.ListRawData(c.Request.Context(), id, from, to)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// Backfill godoc
// @Summary      과거 광고 데이터 수집
// @Description  기간을 구간으로 나눠 순차 수집하며 진행 상황을 SSE로 스트리밍합니다. 이벤트: log, progress, complete, error
// @Tags         ad-accounts
// @Accept       json
// @Produce      text/event-stream
// @Param        id path string true "AdAccount ID (UUID)"
// @Param        request body dto.BackfillRequest true "수집 기간"
// @Success      200 "SSE 스트림"
// @Failure      400 {object} response.ErrorResponse "잘못된 기간 또는 계정 상태"
// @Router       /ad-accounts/{id}/backfill [post]
func (h *AdAccountHandler) Backfill(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	adminID, ok := requireAdminID(c)
	if !ok {
		return
	}

	var req dto.BackfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "수집 기간은 필수입니다")
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	events := make(chan service.BackfillEvent, 64)
	sink := service.BackfillSinkFunc(func(ev service.BackfillEvent) {
		h.publishEvent(ctx, id, ev)
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	})

	go func() {
		defer close(events)
		if err := h.backfillService.Backfill(ctx, id, adminID, req.Since, req.Until, sink); err != nil {
			// 스트림이 이미 시작되었으므로 실패도 이벤트로 내린다
			var msg string
			if appErr, ok := err.(*response.AppError); ok {
				msg = appErr.Message
			} else {
				msg = err.Error()
			}
			sink(service.BackfillEvent{Type: service.BackfillEventError, Message: msg})
		}
	}()

	c.Stream(func(w io.Writer) bool {
		ev, open := <-events
		if !open {
			return false
		}
		c.SSEvent(string(ev.Type), ev)
		return true
	})
}

// publishEvent mirrors progress events onto Redis so other admin sessions can
// follow a running backfill
func (h *AdAccountHandler) publishEvent(ctx context.Context, accountID uuid.UUID, ev service.BackfillEvent) {
	rdb := database.GetRedis()
	if rdb == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	channel := fmt.Sprintf("backfill:%s", accountID)
	if err := rdb.Publish(ctx, channel, payload).Err(); err != nil {
		h.logger.Warn("Failed to publish backfill event",
			zap.String("channel", channel),
			zap.Error(err))
	}
}
