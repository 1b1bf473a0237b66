package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/tam/internal/app/models/dto"
	"github.com/yigit/tam/internal/app/services"
	"github.com/yigit/tam/internal/middleware"
)

// NotificationController re-sends confirmation emails
type NotificationController struct {
	notificationService *services.NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService *services.NotificationService) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
	}
}

// ResendConfirmation queues the confirmation email again
// @Summary Resend confirmation email
// @Tags admin-registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ResendConfirmationRequest true "Registration to notify"
// @Success 202 {object} dto.StructuredResponse "Confirmation email queued"
// @Failure 400 {object} dto.ErrorResponse "Registration is not confirmed yet"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Failure 500 {object} dto.ErrorResponse "Email could not be queued"
// @Router /admin/notifications/confirmation [post]
func (c *NotificationController) ResendConfirmation(ctx *gin.Context) {
	var req dto.ResendConfirmationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.notificationService.Resend(ctx.Request.Context(), req.RegistrationID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusAccepted, dto.NewStructuredResponse(nil, "Confirmation email queued"))
}
