package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/tam/internal/app/models"
	"github.com/yigit/tam/internal/app/models/dto"
	"github.com/yigit/tam/internal/app/repositories"
	"github.com/yigit/tam/internal/pkg/apperrors"
	"github.com/yigit/tam/internal/pkg/checkincode"
)

// maxCodeAttempts bounds the registration retries on a check-in code collision
const maxCodeAttempts = 3

// RegistrationStore is the registration persistence used outside transactions
type RegistrationStore interface {
	GetByID(ctx context.Context, id int64) (*models.Registration, error)
	List(ctx context.Context, params repositories.ListRegistrationsParams) ([]*models.Registration, bool, error)
	ListPendingCash(ctx context.Context, eventID *int64) ([]*models.Registration, error)
	UpdateDetails(ctx context.Context, id int64, d repositories.RegistrationDetails) (*models.Registration, error)
}

// EventReader loads events by id
type EventReader interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
}

// RegistrationService handles public registration and the admin registration views
type RegistrationService struct {
	txRunner  repositories.TxRunner
	regRepo   RegistrationStore
	eventRepo EventReader
	notifier  ConfirmationNotifier
	codes     *checkincode.Generator
	logger    zerolog.Logger
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	txRunner repositories.TxRunner,
	regRepo RegistrationStore,
	eventRepo EventReader,
	notifier ConfirmationNotifier,
	codes *checkincode.Generator,
	logger zerolog.Logger,
) *RegistrationService {
	return &RegistrationService{
		txRunner:  txRunner,
		regRepo:   regRepo,
		eventRepo: eventRepo,
		notifier:  notifier,
		codes:     codes,
		logger:    logger,
	}
}

func toPerson(p dto.PersonRequest) models.Person {
	return models.Person{
		Name:              strings.TrimSpace(p.Name),
		RollNumber:        strings.TrimSpace(p.RollNumber),
		DepartmentSection: strings.TrimSpace(p.DepartmentSection),
		Phone:             strings.TrimSpace(p.Phone),
	}
}

// registrantFromRequest picks the variant from the form: any team field makes it a team
func registrantFromRequest(req *dto.RegisterRequest, email string) (models.Registrant, error) {
	if req.TeamName != "" || len(req.TeamMembers) > 0 {
		team := &models.Team{
			Name:        strings.TrimSpace(req.TeamName),
			LeaderEmail: strings.ToLower(strings.TrimSpace(req.TeamLeaderEmail)),
		}
		if team.Name == "" {
			return nil, fmt.Errorf("%w: team name is required", apperrors.ErrValidationFailed)
		}
		if team.LeaderEmail == "" {
			team.LeaderEmail = email
		}
		for _, m := range req.TeamMembers {
			team.Members = append(team.Members, toPerson(m))
		}
		return team, nil
	}

	person := toPerson(dto.PersonRequest{
		Name:              req.Name,
		RollNumber:        req.RollNumber,
		DepartmentSection: req.DepartmentSection,
		Phone:             req.Phone,
	})
	if person.Name == "" {
		return nil, fmt.Errorf("%w: registrant name is required", apperrors.ErrValidationFailed)
	}
	return &models.Individual{Person: person}, nil
}

// checkRegistrant verifies the variant and the member count against the event
func checkRegistrant(event *models.Event, registrant models.Registrant) error {
	switch r := registrant.(type) {
	case *models.Team:
		if !event.IsTeamEvent() {
			return apperrors.ErrRegistrantMismatch
		}
		if n := len(r.Members); n < event.MinTeamSize || n > event.MaxTeamSize {
			return fmt.Errorf("%w: %d members, need %d to %d",
				apperrors.ErrTeamSizeOutOfRange, n, event.MinTeamSize, event.MaxTeamSize)
		}
	case *models.Individual:
		if event.IsTeamEvent() {
			return apperrors.ErrRegistrantMismatch
		}
	}
	return nil
}

// paymentFor returns nil for a free event. Cash waits for an admin, online is taken as paid.
func paymentFor(event *models.Event, method string, headcount int) (*models.Payment, error) {
	if event.IsFree() {
		return nil, nil
	}

	payment := &models.Payment{
		Method: models.PaymentMethod(method),
		Amount: event.Price * int64(headcount),
	}
	switch payment.Method {
	case models.PaymentCash:
		payment.Status = models.PaymentPending
	case models.PaymentOnline:
		payment.Status = models.PaymentApproved
	default:
		return nil, apperrors.ErrInvalidPaymentMethod
	}
	return payment, nil
}

func (s *RegistrationService) newCode(eventID int64, registrant models.Registrant) string {
	if team, ok := registrant.(*models.Team); ok {
		return s.codes.Team(eventID, team.Name)
	}
	return s.codes.Individual(eventID)
}

// Register creates a registration for an event. The event row is locked for the
// capacity check, and a check-in code collision restarts the whole transaction.
func (s *RegistrationService) Register(ctx context.Context, eventID int64, req *dto.RegisterRequest) (*models.Registration, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	registrant, err := registrantFromRequest(req, email)
	if err != nil {
		return nil, err
	}

	var referral *string
	if code := strings.TrimSpace(req.ReferralCode); code != "" {
		referral = &code
	}

	var created *models.Registration
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		err = s.txRunner.WithinTx(ctx, func(ctx context.Context, tx repositories.Tx) error {
			event, err := tx.EventByIDForUpdate(ctx, eventID)
			if err != nil {
				return err
			}
			if !event.IsActive {
				return apperrors.ErrEventInactive
			}
			if err := checkRegistrant(event, registrant); err != nil {
				return err
			}
			if event.IsFull() {
				return apperrors.ErrEventFull
			}

			payment, err := paymentFor(event, req.PaymentMethod, registrant.Headcount())
			if err != nil {
				return err
			}

			reg := &models.Registration{
				EventID:      event.ID,
				EventName:    event.Title,
				Email:        email,
				Registrant:   registrant,
				QRCode:       s.newCode(event.ID, registrant),
				Payment:      payment,
				ReferralCode: referral,
			}
			if err := tx.InsertRegistration(ctx, reg); err != nil {
				return err
			}
			if reg.CountsTowardCapacity() {
				if err := tx.IncrementRegisteredCount(ctx, event.ID, 1); err != nil {
					return err
				}
			}

			created = reg
			return nil
		})
		if !errors.Is(err, apperrors.ErrDuplicateCheckinCode) {
			break
		}
		s.logger.Warn().Int64("eventID", eventID).Int("attempt", attempt).Msg("Check-in code collision, retrying")
	}

	if errors.Is(err, apperrors.ErrDuplicateCheckinCode) {
		return nil, apperrors.ErrCheckinCodeExhausted
	}
	if err != nil {
		s.logger.Warn().Err(err).Int64("eventID", eventID).Msg("Registration rejected")
		return nil, err
	}

	s.logger.Info().
		Int64("registrationID", created.ID).
		Int64("eventID", created.EventID).
		Str("qrCode", created.QRCode).
		Str("kind", string(created.Registrant.Kind())).
		Msg("Registration created")

	if created.CountsTowardCapacity() {
		if err := s.notifier.SendConfirmation(ctx, created); err != nil {
			s.logger.Error().Err(err).Int64("registrationID", created.ID).Msg("Confirmation email could not be queued")
		}
	}
	return created, nil
}

// GetRegistration retrieves a registration by ID
func (s *RegistrationService) GetRegistration(ctx context.Context, id int64) (*models.Registration, error) {
	if id <= 0 {
		return nil, apperrors.ErrRegistrationNotFound
	}
	return s.regRepo.GetByID(ctx, id)
}

// ListRegistrations returns one page of the admin registration list
func (s *RegistrationService) ListRegistrations(ctx context.Context, params repositories.ListRegistrationsParams) ([]*models.Registration, bool, error) {
	registrations, hasNext, err := s.regRepo.List(ctx, params)
	if err != nil {
		return nil, false, fmt.Errorf("error listing registrations: %w", err)
	}
	return registrations, hasNext, nil
}

// ListPendingCash returns the cash payments waiting for approval
func (s *RegistrationService) ListPendingCash(ctx context.Context, eventID *int64) ([]*models.Registration, error) {
	return s.regRepo.ListPendingCash(ctx, eventID)
}

// UpdateRegistration edits contact and identity fields. A new member list must
// still fit the event team bounds, and its first member becomes the primary person.
func (s *RegistrationService) UpdateRegistration(ctx context.Context, id int64, req *dto.UpdateRegistrationRequest) (*models.Registration, error) {
	current, err := s.GetRegistration(ctx, id)
	if err != nil {
		return nil, err
	}

	details := repositories.RegistrationDetails{
		Email:             req.Email,
		Name:              req.Name,
		RollNumber:        req.RollNumber,
		DepartmentSection: req.DepartmentSection,
		Phone:             req.Phone,
		TeamName:          req.TeamName,
		TeamLeaderEmail:   req.TeamLeaderEmail,
		ReferralCode:      req.ReferralCode,
	}

	if req.TeamMembers != nil {
		team := current.Team()
		if team == nil {
			return nil, apperrors.ErrRegistrantMismatch
		}
		edited := &models.Team{Name: team.Name, LeaderEmail: team.LeaderEmail}
		for _, m := range req.TeamMembers {
			edited.Members = append(edited.Members, toPerson(m))
		}

		event, err := s.eventRepo.GetByID(ctx, current.EventID)
		if err != nil {
			return nil, err
		}
		if err := checkRegistrant(event, edited); err != nil {
			return nil, err
		}

		primary := edited.Primary()
		details.TeamMembers = edited.Members
		details.Name = &primary.Name
		details.RollNumber = &primary.RollNumber
		details.DepartmentSection = &primary.DepartmentSection
		details.Phone = &primary.Phone
	}

	updated, err := s.regRepo.UpdateDetails(ctx, id, details)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("registrationID", id).Msg("Registration updated")
	return updated, nil
}
