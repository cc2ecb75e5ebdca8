package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"polarad-admin-api/internal/domain"
	"polarad-admin-api/internal/dto"
	"polarad-admin-api/internal/response"
	"polarad-admin-api/internal/service"
)

type ContractHandler struct {
	contractService service.ContractService
}

func NewContractHandler(contractService service.ContractService) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
	}
}

// CreateContract godoc
// @Summary      계약 생성
// @Description  패키지 기준으로 PENDING 계약을 생성합니다. 계약번호는 일련번호 시퀀스에서 발급되어 중복되지 않습니다.
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateContractRequest true "계약 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.ContractResponse}
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      409 {object} response.ErrorResponse "이미 진행 중인 계약 존재"
// @Router       /contracts [post]
func (h *ContractHandler) CreateContract(c *gin.Context) {
	adminID, ok := requireAdminID(c)
	if !ok {
		return
	}

	var req dto.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "요청 형식이 올바르지 않습니다")
		return
	}

	result, err := h.contractService.CreateContract(c.Request.Context(), adminID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, result)
}

// GetContract godoc
// @Summary      계약 단건 조회
// @Description  상태 변경 이력을 포함해 조회합니다
// @Tags         contracts
// @Produce      json
// @Param        id path string true "Contract ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.ContractResponse}
// @Failure      404 {object} response.ErrorResponse "계약을 찾을 수 없음"
// @Router       /contracts/{id} [get]
func (h *ContractHandler) GetContract(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.contractService.GetContract(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// ListByUser godoc
// @Summary      고객별 계약 목록
// @Tags         contracts
// @Produce      json
// @Param        userId path string true "User ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.ContractResponse}
// @Router       /contracts/user/{userId} [get]
func (h *ContractHandler) ListByUser(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return
	}

	result, err := h.contractService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// ListByStatus godoc
// @Summary      상태별 계약 목록
// @Tags         contracts
// @Produce      json
// @Param        status query string true "계약 상태"
// @Param        page query int false "페이지 (기본 1)"
// @Param        limit query int false "페이지 크기 (기본 20)"
// @Success      200 {object} response.SuccessResponse{data=dto.ContractListResponse}
// @Router       /contracts [get]
func (h *ContractHandler) ListByStatus(c *gin.Context) {
	status := domain.ContractStatus(c.Query("status"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.contractService.ListByStatus(c.Request.Context(), status, page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// Submit godoc
// @Summary      계약 제출
// @Tags         contracts
// @Produce      json
// @Param        id path string true "Contract ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.ContractResponse}
// @Failure      400 {object} response.ErrorResponse "허용되지 않는 상태 전이"
// @Router       /contracts/{id}/submit [post]
func (h *ContractHandler) Submit(c *gin.Context) {
	h.transition(c, h.contractService.Submit)
}

// Approve godoc
// @Summary      계약 승인
// @Description  제출된 계약을 승인하고 고객에게 알림을 발송합니다
// @Tags         contracts
// @Produce      json
// @Param        id path string true "Contract ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.ContractResponse}
// @Failure      400 {object} response.ErrorResponse "허용되지 않는 상태 전이"
// @Router       /contracts/{id}/approve [post]
func (h *ContractHandler) Approve(c *gin.Context) {
	h.transition(c, h.contractService.Approve)
}

// Reject godoc
// @Summary      계약 반려
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        id path string true "Contract ID (UUID)"
// @Param        request body dto.RejectContractRequest true "반려 사유"
// @Success      200 {object} response.SuccessResponse{data=dto.ContractResponse}
// @Failure      400 {object} response.ErrorResponse "허용되지 않는 상태 전이"
// @Router       /contracts/{id}/reject [post]
func (h *ContractHandler) Reject(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	adminID, ok := requireAdminID(c)
	if !ok {
		return
	}

	var req dto.RejectContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "반려 사유는 필수입니다")
		return
	}

	result, err := h.contractService.Reject(c.Request.Context(), id, adminID, req.Reason)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// Activate godoc
// @Summary      계약 활성화
// @Description  시작일을 지정해 계약을 활성화합니다. 종료일은 시작일+계약기간입니다.
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        id path string true "Contract ID (UUID)"
// @Param        request body dto.ActivateContractRequest true "시작일"
// @Success      200 {object} response.SuccessResponse{data=dto.ContractResponse}
// @Failure      400 {object} response.ErrorResponse "허용되지 않는 상태 전이"
// @Router       /contracts/{id}/activate [post]
func (h *ContractHandler) Activate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	adminID, ok := requireAdminID(c)
	if !ok {
		return
	}

	var req dto.ActivateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "시작일은 필수입니다")
		return
	}

	result, err := h.contractService.Activate(c.Request.Context(), id, adminID, req.StartDate)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// Cancel godoc
// @Summary      계약 취소
// @Description  종료 상태가 아닌 계약을 취소합니다
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        id path string true "Contract ID (UUID)"
// @Param        request body object{note=string} false "취소 메모"
// @Success      200 {object} response.SuccessResponse{data=dto.ContractResponse}
// @Failure      400 {object} response.ErrorResponse "이미 종료된 계약"
// @Router       /contracts/{id}/cancel [post]
func (h *ContractHandler) Cancel(c *gin.Context) {
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

	result, err := h.contractService.Cancel(c.Request.Context(), id, adminID, req.Note)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// DeleteContract godoc
// @Summary      계약 삭제
// @Description  계약과 이력을 함께 삭제합니다. ACTIVE 계약은 삭제할 수 없습니다.
// @Tags         contracts
// @Produce      json
// @Param        id path string true "Contract ID (UUID)"
// @Success      204 "삭제 성공"
// @Failure      400 {object} response.ErrorResponse "진행 중인 계약"
// @Router       /contracts/{id} [delete]
func (h *ContractHandler) DeleteContract(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.contractService.DeleteContract(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// transition handles the body-less status change endpoints
func (h *ContractHandler) transition(c *gin.Context, fn func(ctx context.Context, id, adminID uuid.UUID) (*dto.ContractResponse, error)) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	adminID, ok := requireAdminID(c)
	if !ok {
		return
	}

	result, err := fn(c.Request.Context(), id, adminID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}
