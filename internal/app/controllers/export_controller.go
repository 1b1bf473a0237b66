package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/tam/internal/app/models/dto"
	"github.com/yigit/tam/internal/app/services"
	"github.com/yigit/tam/internal/middleware"
)

// ExportController serves the Excel exports
type ExportController struct {
	exportService *services.ExportService
}

// NewExportController creates a new ExportController
func NewExportController(exportService *services.ExportService) *ExportController {
	return &ExportController{
		exportService: exportService,
	}
}

// bindExportRequest accepts an empty body as "all events"
func bindExportRequest(ctx *gin.Context) (*dto.ExportRequest, bool) {
	var req dto.ExportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err != io.EOF {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return nil, false
	}
	return &req, true
}

// ExportRegistrations renders registrations as an xlsx workbook
// @Summary Export registrations
// @Tags admin-registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ExportRequest false "Optional event filter"
// @Success 200 {object} dto.ExportResponse "Base64 encoded workbook"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/registrations/export [post]
func (c *ExportController) ExportRegistrations(ctx *gin.Context) {
	req, ok := bindExportRequest(ctx)
	if !ok {
		return
	}

	resp, err := c.exportService.ExportRegistrations(ctx.Request.Context(), req.EventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ExportCheckins renders checkins as an xlsx workbook
// @Summary Export checkins
// @Tags admin-checkins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ExportRequest false "Optional event filter"
// @Success 200 {object} dto.ExportResponse "Base64 encoded workbook"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/checkins/export [post]
func (c *ExportController) ExportCheckins(ctx *gin.Context) {
	req, ok := bindExportRequest(ctx)
	if !ok {
		return
	}

	resp, err := c.exportService.ExportCheckins(ctx.Request.Context(), req.EventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
