package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"polarad-admin-api/internal/domain"
	"polarad-admin-api/internal/dto"
	"polarad-admin-api/internal/middleware"
	"polarad-admin-api/internal/response"
	"polarad-admin-api/internal/service"
)

type SubmissionHandler struct {
	submissionService service.SubmissionService
}

func NewSubmissionHandler(submissionService service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

// CreateSubmission godoc
// @Summary      온보딩 설문 등록
// @Description  신규 고객의 온보딩 설문을 DRAFT 상태로 등록합니다
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateSubmissionRequest true "설문 등록 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.SubmissionResponse}
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /submissions [post]
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	var req dto.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "요청 형식이 올바르지 않습니다")
		return
	}

	result, err := h.submissionService.CreateSubmission(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, result)
}

// GetSubmission godoc
// @Summary      설문 단건 조회
// @Tags         submissions
// @Produce      json
// @Param        id path string true "Submission ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.SubmissionResponse}
// @Failure      404 {object} response.ErrorResponse "설문을 찾을 수 없음"
// @Router       /submissions/{id} [get]
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.submissionService.GetSubmission(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// ListSubmissions godoc
// @Summary      설문 목록 조회
// @Description  상태 필터와 페이지네이션으로 설문을 조회합니다
// @Tags         submissions
// @Produce      json
// @Param        status query string false "상태 필터 (DRAFT|SUBMITTED|IN_REVIEW|APPROVED|REJECTED)"
// @Param        page query int false "페이지 (기본 1)"
// @Param        limit query int false "페이지 크기 (기본 20)"
// @Success      200 {object} response.SuccessResponse{data=dto.SubmissionListResponse}
// @Router       /submissions [get]
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	status := domain.SubmissionStatus(c.Query("status"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.submissionService.ListSubmissions(c.Request.Context(), status, page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// Submit godoc
// @Summary      설문 제출
// @Description  완성된 DRAFT 설문을 검토 대기열에 올립니다
// @Tags         submissions
// @Produce      json
// @Param        id path string true "Submission ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.SubmissionResponse}
// @Failure      400 {object} response.ErrorResponse "상태 전이 불가 또는 미완성 설문"
// @Router       /submissions/{id}/submit [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.submissionService.Submit(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// StartReview godoc
// @Summary      설문 검토 시작
// @Tags         submissions
// @Produce      json
// @Param        id path string true "Submission ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.SubmissionResponse}
// @Failure      400 {object} response.ErrorResponse "상태 전이 불가"
// @Router       /submissions/{id}/review [post]
func (h *SubmissionHandler) StartReview(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	adminID, ok := requireAdminID(c)
	if !ok {
		return
	}

	result, err := h.submissionService.StartReview(c.Request.Context(), id, adminID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// Approve godoc
// @Summary      설문 승인
// @Description  설문을 승인하고 기본 워크플로우 8종을 생성합니다. 이미 보유한 타입은 건너뜁니다.
// @Tags         submissions
// @Produce      json
// @Param        id path string true "Submission ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.WorkflowResponse} "생성된 워크플로우 목록"
// @Failure      400 {object} response.ErrorResponse "검토 가능한 상태가 아님"
// @Router       /submissions/{id}/approve [post]
func (h *SubmissionHandler) Approve(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	adminID, ok := requireAdminID(c)
	if !ok {
		return
	}

	created, err := h.submissionService.Approve(c.Request.Context(), id, adminID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, created)
}

// Reject godoc
// @Summary      설문 반려
// @Description  반려 사유와 함께 설문을 반려합니다. REJECTED는 종료 상태입니다.
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        id path string true "Submission ID (UUID)"
// @Param        request body dto.RejectSubmissionRequest true "반려 사유"
// @Success      200 {object} response.SuccessResponse{data=dto.SubmissionResponse}
// @Failure      400 {object} response.ErrorResponse "검토 가능한 상태가 아님"
// @Router       /submissions/{id}/reject [post]
func (h *SubmissionHandler) Reject(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	adminID, ok := requireAdminID(c)
	if !ok {
		return
	}

	var req dto.RejectSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "반려 사유는 필수입니다")
		return
	}

	result, err := h.submissionService.Reject(c.Request.Context(), id, adminID, req.Reason)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// parseUUIDParam parses a UUID path parameter, responding 400 on failure
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "ID 형식이 올바르지 않습니다")
		return uuid.Nil, false
	}
	return id, true
}

// requireAdminID pulls the authenticated admin from the context
func requireAdminID(c *gin.Context) (uuid.UUID, bool) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "인증 정보가 없습니다")
		return uuid.Nil, false
	}
	return adminID, true
}
