package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Check-in errors
var (
	ErrMalformedCheckinCode = errors.New("invalid QR code format")
	ErrCheckinCodeNotFound  = errors.New("invalid QR code")
	ErrAlreadyCheckedIn     = errors.New("already checked in")
	ErrCheckinStoreFailure  = errors.New("check-in store failure")
)

// Event errors
var (
	ErrEventNotFound        = errors.New("event not found")
	ErrEventInactive        = errors.New("event is not accepting registrations")
	ErrEventFull            = errors.New("event is full")
	ErrCapacityBelowCount   = errors.New("capacity cannot be lower than the registered count")
	ErrInvalidTeamSizeRange = errors.New("invalid team size range")
)

// Registration errors
var (
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrRegistrantMismatch    = errors.New("registrant does not match the event team type")
	ErrTeamSizeOutOfRange    = errors.New("team size is outside the allowed range")
	ErrCheckinCodeExhausted  = errors.New("could not generate a unique check-in code")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
	ErrDuplicateCheckinCode  = errors.New("check-in code already exists")
	ErrRegistrationImmutable = errors.New("field cannot be changed on a registration")
)

// Payment approval errors
var (
	ErrNoPaymentRecord        = errors.New("registration has no payment to approve")
	ErrPaymentAlreadyApproved = errors.New("payment is already approved")
	ErrPaymentNotPending      = errors.New("payment is not pending")
)

// Notification errors
var (
	ErrNotificationInvalid = errors.New("invalid notification payload")
	ErrNotificationFailed  = errors.New("notification delivery failed")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
