package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/tam/internal/app/models/dto"
	"github.com/yigit/tam/internal/app/services"
	"github.com/yigit/tam/internal/middleware"
)

// PaymentController handles cash payment approval
type PaymentController struct {
	paymentService *services.PaymentService
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(paymentService *services.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// ApprovePayment approves a pending cash payment
// @Summary Approve cash payment
// @Description Marks the payment approved, takes one seat of the event and queues the confirmation email
// @Tags admin-payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Success 200 {object} dto.StructuredResponse{data=models.Registration} "Payment approved"
// @Failure 400 {object} dto.ErrorResponse "Registration has no payment"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Failure 409 {object} dto.ErrorResponse "Payment is already approved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/payments/{id}/approve [post]
func (c *PaymentController) ApprovePayment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Registration")
	if !ok {
		return
	}

	result, err := c.paymentService.ApprovePayment(ctx.Request.Context(), id, middleware.CurrentEmail(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := "Payment approved and confirmation email sent successfully"
	if !result.EmailQueued {
		message = "Payment approved but email sending failed"
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(result.Registration, message))
}

// RejectPayment rejects a pending cash payment
// @Summary Reject cash payment
// @Tags admin-payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Success 200 {object} dto.StructuredResponse{data=models.Registration} "Payment rejected"
// @Failure 400 {object} dto.ErrorResponse "Registration has no payment"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Failure 409 {object} dto.ErrorResponse "Payment is not pending"
// @Router /admin/payments/{id}/reject [post]
func (c *PaymentController) RejectPayment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Registration")
	if !ok {
		return
	}

	reg, err := c.paymentService.RejectPayment(ctx.Request.Context(), id, middleware.CurrentEmail(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(reg, "Payment rejected"))
}
