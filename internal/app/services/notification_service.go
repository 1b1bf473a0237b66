package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/tam/internal/app/models"
	"github.com/yigit/tam/internal/pkg/apperrors"
	"github.com/yigit/tam/internal/pkg/email"
	"github.com/yigit/tam/internal/pkg/validation"
)

// ConfirmationNotifier sends the registration confirmation email
type ConfirmationNotifier interface {
	SendConfirmation(ctx context.Context, reg *models.Registration) error
}

// Publisher puts a message body on the confirmation queue
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

// RegistrationReader loads registrations by id
type RegistrationReader interface {
	GetByID(ctx context.Context, id int64) (*models.Registration, error)
}

// NotificationService queues confirmation emails and delivers queued ones.
// Without a publisher, emails are sent inline in a background goroutine.
type NotificationService struct {
	publisher     Publisher
	mailer        email.EmailService
	registrations RegistrationReader
	maxCodeLength int
	logger        zerolog.Logger

	inflight sync.WaitGroup
}

// NewNotificationService creates a new notification service. publisher may be nil.
func NewNotificationService(publisher Publisher, mailer email.EmailService, registrations RegistrationReader, maxCodeLength int, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		publisher:     publisher,
		mailer:        mailer,
		registrations: registrations,
		maxCodeLength: maxCodeLength,
		logger:        logger,
	}
}

// ConfirmationFor builds the email payload of a registration
func ConfirmationFor(reg *models.Registration) models.ConfirmationMessage {
	msg := models.ConfirmationMessage{
		RegistrationID: reg.ID,
		Email:          reg.Email,
		EventName:      reg.EventName,
		QRCode:         reg.QRCode,
	}
	if team := reg.Team(); team != nil {
		msg.TeamName = team.Name
		if team.LeaderEmail != "" {
			msg.Email = team.LeaderEmail
		}
	} else if reg.Registrant != nil {
		msg.RegistrantName = reg.Registrant.DisplayName()
	}
	return msg
}

// ValidateConfirmation checks a payload before it is queued or sent
func (s *NotificationService) ValidateConfirmation(msg models.ConfirmationMessage) error {
	if msg.Email == "" || msg.EventName == "" || msg.QRCode == "" || (msg.RegistrantName == "" && msg.TeamName == "") {
		return fmt.Errorf("%w: email, eventName, qrCode, and registrantName or teamName are required", apperrors.ErrNotificationInvalid)
	}
	if !validation.IsValidEmail(msg.Email) {
		return fmt.Errorf("%w: invalid email format", apperrors.ErrNotificationInvalid)
	}
	if !validation.NewStringValidation(msg.EventName).WithMaxLength(validation.EventNameMaxLength).Validate() {
		return fmt.Errorf("%w: invalid event name", apperrors.ErrNotificationInvalid)
	}
	if !validation.NewStringValidation(msg.RegistrantName).WithRequired(false).WithMaxLength(validation.NameMaxLength).Validate() {
		return fmt.Errorf("%w: invalid registrant name", apperrors.ErrNotificationInvalid)
	}
	if !validation.NewStringValidation(msg.TeamName).WithRequired(false).WithMaxLength(validation.NameMaxLength).Validate() {
		return fmt.Errorf("%w: invalid team name", apperrors.ErrNotificationInvalid)
	}
	if code, ok := validation.CheckinCode(msg.QRCode, s.maxCodeLength); !ok || code != msg.QRCode {
		return fmt.Errorf("%w: invalid QR code", apperrors.ErrNotificationInvalid)
	}
	return nil
}

// SendConfirmation implements ConfirmationNotifier
func (s *NotificationService) SendConfirmation(ctx context.Context, reg *models.Registration) error {
	msg := ConfirmationFor(reg)
	if err := s.ValidateConfirmation(msg); err != nil {
		return err
	}

	if s.publisher == nil {
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			if err := s.mailer.SendConfirmationEmail(msg); err != nil {
				s.logger.Error().Err(err).Int64("registrationID", msg.RegistrationID).Msg("Inline confirmation email failed")
			}
		}()
		return nil
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrNotificationFailed, err)
	}
	if err := s.publisher.Publish(ctx, body); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrNotificationFailed, err)
	}

	s.logger.Info().Int64("registrationID", msg.RegistrationID).Msg("Confirmation email queued")
	return nil
}

// Resend queues the confirmation email of an existing registration again
func (s *NotificationService) Resend(ctx context.Context, registrationID int64) error {
	reg, err := s.registrations.GetByID(ctx, registrationID)
	if err != nil {
		return err
	}
	if !reg.CountsTowardCapacity() {
		return apperrors.NewCustomError(apperrors.ErrNotificationInvalid, "Registration is not confirmed yet")
	}
	return s.SendConfirmation(ctx, reg)
}

// Deliver sends one queued confirmation message
func (s *NotificationService) Deliver(ctx context.Context, body []byte) error {
	var msg models.ConfirmationMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%w: malformed message: %v", apperrors.ErrNotificationInvalid, err)
	}
	msg.Email = strings.TrimSpace(msg.Email)

	if err := s.ValidateConfirmation(msg); err != nil {
		return err
	}
	if err := s.mailer.SendConfirmationEmail(msg); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrNotificationFailed, err)
	}
	return nil
}

// Wait blocks until inline sends have finished
func (s *NotificationService) Wait() {
	s.inflight.Wait()
}
