package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"polarad-admin-api/internal/dto"
	"polarad-admin-api/internal/response"
	"polarad-admin-api/internal/service"
)

type DesignHandler struct {
	designService service.DesignService
}

func NewDesignHandler(designService service.DesignService) *DesignHandler {
	return &DesignHandler{
		designService: designService,
	}
}

// GetOrCreateByWorkflow godoc
// @Summary      워크플로우의 디자인 조회 (없으면 생성)
// @Tags         designs
// @Produce      json
// @Param        workflowId path string true "Workflow ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.DesignResponse}
// @Failure      404 {object} response.ErrorResponse "워크플로우를 찾을 수 없음"
// @Router       /designs/workflow/{workflowId} [get]
func (h *DesignHandler) GetOrCreateByWorkflow(c *gin.Context) {
	workflowID, ok := parseUUIDParam(c, "workflowId")
	if !ok {
		return
	}

	result, err := h.designService.GetOrCreate(c.Request.Context(), workflowID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// GetDesign godoc
// @Summary      디자인 단건 조회
// @Description  전체 버전과 피드백을 포함해 조회합니다
// @Tags         designs
// @Produce      json
// @Param        id path string true "Design ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.DesignResponse}
// @Failure      404 {object} response.ErrorResponse "디자인을 찾을 수 없음"
// @Router       /designs/{id} [get]
func (h *DesignHandler) GetDesign(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.designService.GetDesign(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// UploadVersion godoc
// @Summary      디자인 버전 업로드
// @Description  새 버전을 추가합니다. 상태는 변하지 않으며 검토 요청은 별도입니다.
// @Tags         designs
// @Accept       json
// @Produce      json
// @Param        id path string true "Design ID (UUID)"
// @Param        request body dto.UploadDesignVersionRequest true "버전 업로드 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.DesignResponse}
// @Failure      400 {object} response.ErrorResponse "승인 완료된 디자인"
// @Router       /designs/{id}/versions [post]
func (h *DesignHandler) UploadVersion(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UploadDesignVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "요청 형식이 올바르지 않습니다")
		return
	}

	result, err := h.designService.UploadVersion(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, result)
}

// RequestReview godoc
// @Summary      디자인 검토 요청
// @Description  고객 검토를 요청합니다. notify=true면 고객 알림이 발송됩니다(실패해도 상태 변경은 유지).
// @Tags         designs
// @Produce      json
// @Param        id path string true "Design ID (UUID)"
// @Param        notify query bool false "고객 알림 발송 여부 (기본 true)"
// @Success      200 {object} response.SuccessResponse{data=dto.DesignResponse}
// @Failure      400 {object} response.ErrorResponse "허용되지 않는 상태 전이"
// @Router       /designs/{id}/request-review [post]
func (h *DesignHandler) RequestReview(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	adminID, ok := requireAdminID(c)
	if !ok {
		return
	}
	notify, err := strconv.ParseBool(c.DefaultQuery("notify", "true"))
	if err != nil {
		notify = true
	}

	result, err := h.designService.RequestReview(c.Request.Context(), id, adminID, notify)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// RequestRevision godoc
// @Summary      디자인 수정 요청
// @Tags         designs
// @Accept       json
// @Produce      json
// @Param        id path string true "Design ID (UUID)"
// @Param        request body object{note=string} false "수정 요청 메모"
// @Success      200 {object} response.SuccessResponse{data=dto.DesignResponse}
// @Failure      400 {object} response.ErrorResponse "허용되지 않는 상태 전이"
// @Router       /designs/{id}/request-revision [post]
func (h *DesignHandler) RequestRevision(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	adminID, ok := requireAdminID(c)
	if !ok {
		return
	}

	var req struct {
		Note string `json:"note"`
	}
	_ = c.ShouldBindJSON(&req)

	result, err := h.designService.RequestRevision(c.Request.Context(), id, adminID, req.Note)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// ResetToDraft godoc
// @Summary      디자인 초안으로 되돌리기
// @Tags         designs
// @Produce      json
// @Param        id path string true "Design ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.DesignResponse}
// @Failure      400 {object} response.ErrorResponse "허용되지 않는 상태 전이"
// @Router       /designs/{id}/reset [post]
func (h *DesignHandler) ResetToDraft(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	adminID, ok := requireAdminID(c)
	if !ok {
		return
	}

	result, err := h.designService.ResetToDraft(c.Request.Context(), id, adminID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// RecordFeedback godoc
// @Summary      디자인 피드백 등록
// @Description  특정 버전에 피드백을 추가합니다. 피드백은 수정/삭제할 수 없습니다.
// @Tags         designs
// @Accept       json
// @Produce      json
// @Param        request body dto.DesignFeedbackRequest true "피드백 등록 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.DesignFeedbackResponse}
// @Failure      404 {object} response.ErrorResponse "디자인 버전을 찾을 수 없음"
// @Router       /designs/feedbacks [post]
func (h *DesignHandler) RecordFeedback(c *gin.Context) {
	var req dto.DesignFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "요청 형식이 올바르지 않습니다")
		return
	}

	result, err := h.designService.RecordFeedback(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, result)
}

// Approve godoc
// @Summary      디자인 승인
// @Description  현재 버전을 승인 버전으로 고정합니다. 이후 업로드는 거부되며 승인 버전은 변하지 않습니다.
// @Tags         designs
// @Produce      json
// @Param        id path string true "Design ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.DesignResponse}
// @Failure      400 {object} response.ErrorResponse "승인 불가 상태 또는 버전 없음"
// @Router       /designs/{id}/approve [post]
func (h *DesignHandler) Approve(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	adminID, ok := requireAdminID(c)
	if !ok {
		return
	}

	result, err := h.designService.Approve(c.Request.Context(), id, adminID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}
