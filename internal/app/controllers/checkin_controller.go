package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/tam/internal/app/models"
	"github.com/yigit/tam/internal/app/models/dto"
	"github.com/yigit/tam/internal/app/repositories"
	"github.com/yigit/tam/internal/app/services"
	"github.com/yigit/tam/internal/middleware"
	"github.com/yigit/tam/internal/pkg/apperrors"
	"github.com/yigit/tam/internal/pkg/helpers"
)

// Flat error bodies of the check-in endpoint
const (
	checkinMsgMalformed = "Invalid QR code format. Please provide a valid QR code."
	checkinMsgNotFound  = "Invalid QR code"
	checkinMsgDuplicate = "Already checked in"
	checkinMsgInternal  = "Internal server error. Please try again."
	checkinMsgSuccess   = "Check-in successful"
)

// Checker records a check-in for a presented code
type Checker interface {
	CheckIn(ctx context.Context, rawCode string) (*services.CheckinResult, error)
	ListCheckins(ctx context.Context, params repositories.ListCheckinsParams) ([]*models.Checkin, bool, error)
}

// CheckinController serves the door check-in endpoint and the admin checkin list
type CheckinController struct {
	checkinService Checker
}

// NewCheckinController creates a new CheckinController
func NewCheckinController(checkinService Checker) *CheckinController {
	return &CheckinController{
		checkinService: checkinService,
	}
}

// checkinStatus maps check-in outcomes to the flat error table
func checkinStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrMalformedCheckinCode):
		return http.StatusBadRequest, checkinMsgMalformed
	case errors.Is(err, apperrors.ErrCheckinCodeNotFound):
		return http.StatusNotFound, checkinMsgNotFound
	case errors.Is(err, apperrors.ErrAlreadyCheckedIn):
		return http.StatusConflict, checkinMsgDuplicate
	default:
		return http.StatusInternalServerError, checkinMsgInternal
	}
}

// CheckIn records attendance for a scanned or typed code
// @Summary Check in a registration
// @Description Validates the QR code and records attendance exactly once. Team registrations record one row per member.
// @Tags checkin
// @Accept json
// @Produce json
// @Param request body dto.CheckinRequest true "Check-in code"
// @Success 200 {object} dto.CheckinSuccessResponse "Check-in successful"
// @Failure 400 {object} dto.CheckinErrorResponse "Invalid QR code format"
// @Failure 404 {object} dto.CheckinErrorResponse "Invalid QR code"
// @Failure 409 {object} dto.CheckinErrorResponse "Already checked in"
// @Failure 500 {object} dto.CheckinErrorResponse "Internal server error"
// @Router /checkin [post]
func (c *CheckinController) CheckIn(ctx *gin.Context) {
	var req dto.CheckinRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.CheckinErrorResponse{Error: checkinMsgMalformed})
		return
	}

	result, err := c.checkinService.CheckIn(ctx.Request.Context(), req.QRCode)
	if err != nil {
		status, msg := checkinStatus(err)
		ctx.JSON(status, dto.CheckinErrorResponse{Error: msg})
		return
	}

	ctx.JSON(http.StatusOK, dto.CheckinSuccessResponse{
		Success: true,
		Message: checkinMsgSuccess,
		Registration: dto.CheckinRegistration{
			EventName:         result.EventName,
			RegistrantName:    result.RegistrantName,
			Email:             result.Email,
			RollNumber:        result.RollNumber,
			DepartmentSection: result.DepartmentSection,
			Phone:             result.Phone,
			CheckInTime:       result.CheckInTime,
		},
	})
}

// ListCheckins returns recorded checkins, newest first
// @Summary List checkins
// @Description Keyset paginated list of attendance records
// @Tags admin-checkins
// @Produce json
// @Security BearerAuth
// @Param eventId query int false "Filter by event ID"
// @Param qrCode query string false "Filter by check-in code"
// @Param lastId query int false "ID of the last checkin of the previous page"
// @Param pageSize query int false "Page size (max 100)" default(20)
// @Success 200 {object} dto.StructuredResponse{data=dto.CursorPage{items=[]models.Checkin}} "Checkins retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/checkins [get]
func (c *CheckinController) ListCheckins(ctx *gin.Context) {
	eventID, ok := optionalInt64Query(ctx, "eventId")
	if !ok {
		return
	}
	lastID, pageSize := helpers.ParseCursorParams(ctx)

	checkins, hasNext, err := c.checkinService.ListCheckins(ctx.Request.Context(), repositories.ListCheckinsParams{
		EventID: eventID,
		QRCode:  strings.TrimSpace(ctx.Query("qrCode")),
		Cursor:  repositories.Cursor{LastID: lastID, PageSize: pageSize, Desc: true},
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if checkins == nil {
		checkins = []*models.Checkin{}
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.CursorPage{
		Items:      checkins,
		Pagination: helpers.NewCursorInfo(checkins, pageSize, hasNext, func(ch *models.Checkin) int64 { return ch.ID }),
	}, "Checkins retrieved successfully"))
}
