package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/tam/internal/app/models"
	"github.com/yigit/tam/internal/app/models/dto"
	"github.com/yigit/tam/internal/app/repositories"
	"github.com/yigit/tam/internal/app/services"
	"github.com/yigit/tam/internal/middleware"
	"github.com/yigit/tam/internal/pkg/helpers"
)

// RegistrationController handles public registration and the admin registration views
type RegistrationController struct {
	registrationService *services.RegistrationService
}

// NewRegistrationController creates a new RegistrationController
func NewRegistrationController(registrationService *services.RegistrationService) *RegistrationController {
	return &RegistrationController{
		registrationService: registrationService,
	}
}

// Register creates a registration for an event
// @Summary Register for an event
// @Description Individual events take the top-level identity fields, team events take teamName and teamMembers.
// @Description Paid events need paymentMethod; cash registrations stay pending until an admin approves them.
// @Tags registrations
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param request body dto.RegisterRequest true "Registration form"
// @Success 201 {object} dto.StructuredResponse{data=models.Registration} "Registration created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid form or event closed"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Event is full"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id}/registrations [post]
func (c *RegistrationController) Register(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id", "Event")
	if !ok {
		return
	}

	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	reg, err := c.registrationService.Register(ctx.Request.Context(), eventID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := "Registration created successfully"
	if reg.IsPendingCash() {
		message = "Registration created, cash payment pending approval"
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(reg, message))
}

// GetRegistration retrieves a registration by ID
// @Summary Get registration by ID
// @Tags registrations
// @Produce json
// @Param id path int true "Registration ID"
// @Success 200 {object} dto.StructuredResponse{data=models.Registration} "Registration retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid registration ID"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Router /registrations/{id} [get]
func (c *RegistrationController) GetRegistration(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Registration")
	if !ok {
		return
	}

	reg, err := c.registrationService.GetRegistration(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(reg, "Registration retrieved successfully"))
}

// ListRegistrations returns one page of registrations
// @Summary List registrations
// @Tags admin-registrations
// @Produce json
// @Security BearerAuth
// @Param eventId query int false "Filter by event ID"
// @Param paymentMethod query string false "online or cash"
// @Param paymentStatus query string false "pending, approved or rejected"
// @Param checkedIn query bool false "Filter by check-in state"
// @Param sortBy query string false "createdAt or registrantName" default(createdAt)
// @Param sortOrder query string false "asc or desc" default(desc)
// @Param lastId query int false "ID of the last registration of the previous page"
// @Param pageSize query int false "Page size (max 100)" default(20)
// @Success 200 {object} dto.StructuredResponse{data=dto.CursorPage{items=[]models.Registration}} "Registrations retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /admin/registrations [get]
func (c *RegistrationController) ListRegistrations(ctx *gin.Context) {
	eventID, ok := optionalInt64Query(ctx, "eventId")
	if !ok {
		return
	}
	checkedIn, ok := optionalBoolQuery(ctx, "checkedIn")
	if !ok {
		return
	}
	lastID, pageSize := helpers.ParseCursorParams(ctx)

	params := repositories.ListRegistrationsParams{
		EventID:   eventID,
		CheckedIn: checkedIn,
		SortBy:    ctx.Query("sortBy"),
		Cursor: repositories.Cursor{
			LastID:   lastID,
			PageSize: pageSize,
			Desc:     !strings.EqualFold(ctx.Query("sortOrder"), "asc"),
		},
	}
	if method := ctx.Query("paymentMethod"); method != "" {
		m := models.PaymentMethod(method)
		params.PaymentMethod = &m
	}
	if status := ctx.Query("paymentStatus"); status != "" {
		s := models.PaymentStatus(status)
		params.PaymentStatus = &s
	}

	registrations, hasNext, err := c.registrationService.ListRegistrations(ctx.Request.Context(), params)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if registrations == nil {
		registrations = []*models.Registration{}
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.CursorPage{
		Items:      registrations,
		Pagination: helpers.NewCursorInfo(registrations, pageSize, hasNext, func(r *models.Registration) int64 { return r.ID }),
	}, "Registrations retrieved successfully"))
}

// ListPendingCash returns cash payments waiting for approval
// @Summary List pending cash payments
// @Tags admin-registrations
// @Produce json
// @Security BearerAuth
// @Param eventId query int false "Filter by event ID"
// @Success 200 {object} dto.StructuredResponse{data=[]models.Registration} "Pending payments retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /admin/registrations/pending-cash [get]
func (c *RegistrationController) ListPendingCash(ctx *gin.Context) {
	eventID, ok := optionalInt64Query(ctx, "eventId")
	if !ok {
		return
	}

	registrations, err := c.registrationService.ListPendingCash(ctx.Request.Context(), eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if registrations == nil {
		registrations = []*models.Registration{}
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(registrations, "Pending payments retrieved successfully"))
}

// UpdateRegistration edits contact and identity fields
// @Summary Update a registration
// @Description The check-in code, check-in state and payment cannot be changed here
// @Tags admin-registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Param request body dto.UpdateRegistrationRequest true "Fields to change"
// @Success 200 {object} dto.StructuredResponse{data=models.Registration} "Registration updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Router /admin/registrations/{id} [put]
func (c *RegistrationController) UpdateRegistration(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Registration")
	if !ok {
		return
	}

	var req dto.UpdateRegistrationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	reg, err := c.registrationService.UpdateRegistration(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(reg, "Registration updated successfully"))
}
