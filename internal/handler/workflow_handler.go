package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"polarad-admin-api/internal/domain"
	"polarad-admin-api/internal/dto"
	"polarad-admin-api/internal/response"
	"polarad-admin-api/internal/service"
)

type WorkflowHandler struct {
	workflowService service.WorkflowService
}

func NewWorkflowHandler(workflowService service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{
		workflowService: workflowService,
	}
}

// GetWorkflow godoc
// @Summary      워크플로우 단건 조회
// @Description  상태 변경 이력을 포함해 조회합니다
// @Tags         workflows
// @Produce      json
// @Param        id path string true "Workflow ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.WorkflowResponse}
// @Failure      404 {object} response.ErrorResponse "워크플로우를 찾을 수 없음"
// @Router       /workflows/{id} [get]
func (h *WorkflowHandler) GetWorkflow(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.workflowService.GetWorkflow(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// ListByUser godoc
// @Summary      고객별 워크플로우 목록
// @Tags         workflows
// @Produce      json
// @Param        userId path string true "User ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.WorkflowResponse}
// @Router       /workflows/user/{userId} [get]
func (h *WorkflowHandler) ListByUser(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return
	}

	result, err := h.workflowService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// ListByStatus godoc
// @Summary      상태별 워크플로우 목록
// @Tags         workflows
// @Produce      json
// @Param        status query string true "워크플로우 상태"
// @Param        page query int false "페이지 (기본 1)"
// @Param        limit query int false "페이지 크기 (기본 20)"
// @Success      200 {object} response.SuccessResponse{data=dto.WorkflowListResponse}
// @Failure      400 {object} response.ErrorResponse "알 수 없는 상태값"
// @Router       /workflows [get]
func (h *WorkflowHandler) ListByStatus(c *gin.Context) {
	status := domain.WorkflowStatus(c.Query("status"))
	if !domain.ValidWorkflowStatus(status) {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "알 수 없는 워크플로우 상태입니다")
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.workflowService.ListByStatus(c.Request.Context(), status, page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// SetStatus godoc
// @Summary      워크플로우 상태 변경
// @Description  선언된 전이 테이블을 따르는 상태 변경만 허용됩니다. 배송/URL 필드는 상태 변경과 같은 트랜잭션으로 반영됩니다.
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Param        id path string true "Workflow ID (UUID)"
// @Param        request body dto.UpdateWorkflowStatusRequest true "상태 변경 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.WorkflowResponse}
// @Failure      400 {object} response.ErrorResponse "허용되지 않는 상태 전이"
// @Failure      404 {object} response.ErrorResponse "워크플로우를 찾을 수 없음"
// @Router       /workflows/{id}/status [patch]
func (h *WorkflowHandler) SetStatus(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	adminID, ok := requireAdminID(c)
	if !ok {
		return
	}

	var req dto.UpdateWorkflowStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "요청 형식이 올바르지 않습니다")
		return
	}

	result, err := h.workflowService.SetStatus(c.Request.Context(), id, adminID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}
