package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"polarad-admin-api/internal/dto"
	"polarad-admin-api/internal/response"
	"polarad-admin-api/internal/service"
)

type PackageHandler struct {
	packageService service.PackageService
}

func NewPackageHandler(packageService service.PackageService) *PackageHandler {
	return &PackageHandler{
		packageService: packageService,
	}
}

// CreatePackage godoc
// @Summary      패키지 등록
// @Tags         packages
// @Accept       json
// @Produce      json
// @Param        request body dto.CreatePackageRequest true "패키지 등록 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.PackageResponse}
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Router       /packages [post]
func (h *PackageHandler) CreatePackage(c *gin.Context) {
	var req dto.CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "요청 형식이 올바르지 않습니다")
		return
	}

	result, err := h.packageService.CreatePackage(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, result)
}

// GetPackage godoc
// @Summary      패키지 단건 조회
// @Tags         packages
// @Produce      json
// @Param        id path string true "Package ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.PackageResponse}
// @Failure      404 {object} response.ErrorResponse "패키지를 찾을 수 없음"
// @Router       /packages/{id} [get]
func (h *PackageHandler) GetPackage(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.packageService.GetPackage(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// ListPackages godoc
// @Summary      판매 중 패키지 목록
// @Tags         packages
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]dto.PackageResponse}
// @Router       /packages [get]
func (h *PackageHandler) ListPackages(c *gin.Context) {
	result, err := h.packageService.ListActive(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// UpdatePackage godoc
// @Summary      패키지 수정
// @Tags         packages
// @Accept       json
// @Produce      json
// @Param        id path string true "Package ID (UUID)"
// @Param        request body dto.UpdatePackageRequest true "패키지 수정 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.PackageResponse}
// @Failure      404 {object} response.ErrorResponse "패키지를 찾을 수 없음"
// @Router       /packages/{id} [patch]
func (h *PackageHandler) UpdatePackage(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "요청 형식이 올바르지 않습니다")
		return
	}

	result, err := h.packageService.UpdatePackage(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}
