package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/tam/internal/app/models/dto"
	"github.com/yigit/tam/internal/pkg/apperrors"
	"github.com/yigit/tam/internal/pkg/auth"
	"github.com/yigit/tam/internal/pkg/filestorage"
	"github.com/yigit/tam/internal/pkg/logger"
)

// errorRule maps a sentinel error to its HTTP representation
type errorRule struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
	// detailed rules expose the wrapped error text, which only carries user input context
	detailed bool
}

// Evaluated in order; the first match wins
var errorRules = []errorRule{
	// Not found
	{apperrors.ErrEventNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Event not found", false},
	{apperrors.ErrRegistrationNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Registration not found", false},
	{apperrors.ErrCheckinCodeNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Invalid QR code", false},
	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found", false},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found", false},

	// Auth
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials", false},
	{auth.ErrExpiredToken, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired", false},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired", false},
	{auth.ErrInvalidToken, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token", false},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token", false},
	{apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeForbidden, "Account is disabled", false},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied", false},

	// Conflicts
	{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists", false},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists", false},
	{apperrors.ErrAlreadyCheckedIn, http.StatusConflict, dto.ErrorCodeConflict, "Already checked in", false},
	{apperrors.ErrEventFull, http.StatusConflict, dto.ErrorCodeConflict, "Event is full", false},
	{apperrors.ErrCapacityBelowCount, http.StatusConflict, dto.ErrorCodeConflict, "Capacity cannot be lower than the number of registrations", false},
	{apperrors.ErrPaymentAlreadyApproved, http.StatusConflict, dto.ErrorCodeConflict, "Payment is already approved", false},
	{apperrors.ErrPaymentNotPending, http.StatusConflict, dto.ErrorCodeConflict, "Payment is not pending", false},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict", false},

	// Invalid input
	{apperrors.ErrEventInactive, http.StatusBadRequest, dto.ErrorCodeResourceInvalid, "Event is not accepting registrations", false},
	{apperrors.ErrNoPaymentRecord, http.StatusBadRequest, dto.ErrorCodeResourceInvalid, "Registration has no payment to approve", false},
	{apperrors.ErrMalformedCheckinCode, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Invalid QR code format", false},
	{apperrors.ErrInvalidTeamSizeRange, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Invalid team size range", true},
	{apperrors.ErrRegistrantMismatch, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Registration does not match the event team type", false},
	{apperrors.ErrTeamSizeOutOfRange, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Team size is outside the allowed range", true},
	{apperrors.ErrInvalidPaymentMethod, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Payment method must be online or cash", false},
	{apperrors.ErrRegistrationImmutable, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Field cannot be changed", true},
	{apperrors.ErrNotificationInvalid, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Invalid notification", true},
	{apperrors.ErrInvalidEmail, http.StatusBadRequest, dto.ErrorCodeInvalidEmail, "Invalid email", false},
	{filestorage.ErrUnsupportedImage, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Only jpg, png and webp images are accepted", false},
	{filestorage.ErrFileTooLarge, http.StatusRequestEntityTooLarge, dto.ErrorCodeValidationFailed, "Image is larger than 5MB", false},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed", true},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Bad request", true},

	// Server side
	{apperrors.ErrNotificationFailed, http.StatusBadGateway, dto.ErrorCodeExternalServiceError, "Email service unavailable", false},
	{apperrors.ErrCheckinStoreFailure, http.StatusInternalServerError, dto.ErrorCodeDatabaseError, "Internal server error", false},
	{apperrors.ErrCheckinCodeExhausted, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Could not complete the registration, please try again", false},
}

// ErrorDetailFor resolves the status and error detail of err
func ErrorDetailFor(err error) (int, *dto.ErrorDetail) {
	for _, rule := range errorRules {
		if !errors.Is(err, rule.target) {
			continue
		}

		message := rule.message
		var custom *apperrors.CustomError
		if errors.As(err, &custom) && custom.Message != "" {
			message = custom.Message
		}

		detail := dto.NewErrorDetail(rule.code, message)
		if rule.status < http.StatusInternalServerError {
			detail = detail.WithSeverity(dto.ErrorSeverityWarning)
			if rule.detailed && err.Error() != rule.target.Error() {
				detail = detail.WithDetails(err.Error())
			}
		}
		return rule.status, detail
	}

	return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
}

// HandleAPIError writes the error response for err. Server errors are logged, never echoed.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := ErrorDetailFor(err)

	if status >= http.StatusInternalServerError {
		logger.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Str("requestId", requestIDOf(c)).
			Msg("Request failed")
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}
