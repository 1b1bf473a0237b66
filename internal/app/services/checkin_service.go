package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/yigit/tam/internal/app/models"
	"github.com/yigit/tam/internal/app/repositories"
	"github.com/yigit/tam/internal/pkg/apperrors"
	"github.com/yigit/tam/internal/pkg/validation"
)

// CheckinResult summarises a successful check-in for the door staff
type CheckinResult struct {
	EventID           int64
	RegistrationID    int64
	QRCode            string
	EventName         string
	RegistrantName    string
	Email             string
	RollNumber        string
	DepartmentSection string
	Phone             string
	CheckInTime       time.Time
	RecordsWritten    int
}

// CheckinHistory pages through recorded checkins
type CheckinHistory interface {
	List(ctx context.Context, params repositories.ListCheckinsParams) ([]*models.Checkin, bool, error)
}

// CheckinObserver is told about every committed check-in
type CheckinObserver interface {
	CheckinRecorded(activity models.CheckinActivity)
}

// CheckinService turns a presented check-in code into exactly one set of attendance records
type CheckinService struct {
	txRunner      repositories.TxRunner
	history       CheckinHistory
	observer      CheckinObserver
	maxCodeLength int
	now           func() time.Time
	logger        zerolog.Logger
}

// NewCheckinService creates a new check-in service. observer may be nil.
func NewCheckinService(txRunner repositories.TxRunner, history CheckinHistory, observer CheckinObserver, maxCodeLength int, logger zerolog.Logger) *CheckinService {
	return &CheckinService{
		txRunner:      txRunner,
		history:       history,
		observer:      observer,
		maxCodeLength: maxCodeLength,
		now:           time.Now,
		logger:        logger,
	}
}

// CheckIn validates the code and records attendance. It returns one of
// ErrMalformedCheckinCode, ErrCheckinCodeNotFound, ErrAlreadyCheckedIn or
// ErrCheckinStoreFailure on failure.
func (s *CheckinService) CheckIn(ctx context.Context, rawCode string) (*CheckinResult, error) {
	code, ok := validation.CheckinCode(rawCode, s.maxCodeLength)
	if !ok {
		s.logger.Warn().Int("length", utf8.RuneCountInString(rawCode)).Msg("Rejected malformed check-in code")
		return nil, apperrors.ErrMalformedCheckinCode
	}

	var result *CheckinResult
	err := s.txRunner.WithinTx(ctx, func(ctx context.Context, tx repositories.Tx) error {
		// The row lock serializes concurrent attempts on the same code
		reg, err := tx.RegistrationByCodeForUpdate(ctx, code)
		if err != nil {
			if errors.Is(err, apperrors.ErrRegistrationNotFound) {
				return apperrors.ErrCheckinCodeNotFound
			}
			return err
		}

		if reg.IsCheckedIn {
			return apperrors.ErrAlreadyCheckedIn
		}

		exists, err := tx.CheckinExistsForCode(ctx, code)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.ErrAlreadyCheckedIn
		}

		at := s.now().UTC()
		if err := tx.MarkCheckedIn(ctx, reg.ID, at); err != nil {
			return err
		}

		checkins, err := buildCheckins(reg, at)
		if err != nil {
			return err
		}
		if err := tx.InsertCheckins(ctx, checkins); err != nil {
			return err
		}

		primary := reg.Registrant.Primary()
		result = &CheckinResult{
			EventID:           reg.EventID,
			RegistrationID:    reg.ID,
			QRCode:            code,
			EventName:         reg.EventName,
			RegistrantName:    reg.Registrant.DisplayName(),
			Email:             reg.Email,
			RollNumber:        primary.RollNumber,
			DepartmentSection: primary.DepartmentSection,
			Phone:             primary.Phone,
			CheckInTime:       at,
			RecordsWritten:    len(checkins),
		}
		return nil
	})

	switch {
	case err == nil:
		s.logger.Info().
			Str("qrCode", code).
			Str("eventName", result.EventName).
			Int("records", result.RecordsWritten).
			Msg("Check-in recorded")
		if s.observer != nil {
			s.observer.CheckinRecorded(models.CheckinActivity{
				EventID:        result.EventID,
				EventName:      result.EventName,
				RegistrationID: result.RegistrationID,
				RegistrantName: result.RegistrantName,
				QRCode:         result.QRCode,
				Records:        result.RecordsWritten,
				CheckInTime:    result.CheckInTime,
			})
		}
		return result, nil
	case errors.Is(err, apperrors.ErrCheckinCodeNotFound):
		s.logger.Warn().Str("qrCode", code).Msg("Check-in code not found")
		return nil, apperrors.ErrCheckinCodeNotFound
	case errors.Is(err, apperrors.ErrAlreadyCheckedIn):
		s.logger.Warn().Str("qrCode", code).Msg("Duplicate check-in rejected")
		return nil, apperrors.ErrAlreadyCheckedIn
	default:
		s.logger.Error().Err(err).Str("qrCode", code).Msg("Check-in failed")
		return nil, fmt.Errorf("%w: %w", apperrors.ErrCheckinStoreFailure, err)
	}
}

// ListCheckins returns one page of checkins, newest first
func (s *CheckinService) ListCheckins(ctx context.Context, params repositories.ListCheckinsParams) ([]*models.Checkin, bool, error) {
	checkins, hasNext, err := s.history.List(ctx, params)
	if err != nil {
		return nil, false, fmt.Errorf("error listing checkins: %w", err)
	}
	return checkins, hasNext, nil
}

// buildCheckins copies the registration into one record per attendee. Team
// members have no email of their own, so team rows carry only TeamLeaderEmail.
func buildCheckins(reg *models.Registration, at time.Time) ([]*models.Checkin, error) {
	base := models.Checkin{
		EventID:       reg.EventID,
		EventName:     reg.EventName,
		PaymentMethod: models.NotApplicable,
		PaymentStatus: models.NotApplicable,
		ReferralCode:  models.NotApplicable,
		QRCode:        reg.QRCode,
		CheckInTime:   at,
	}
	if reg.Payment != nil {
		base.PaymentMethod = string(reg.Payment.Method)
		base.PaymentStatus = string(reg.Payment.Status)
		base.PaymentAmount = reg.Payment.Amount
	}
	if reg.ReferralCode != nil && *reg.ReferralCode != "" {
		base.ReferralCode = *reg.ReferralCode
	}

	switch r := reg.Registrant.(type) {
	case *models.Team:
		if len(r.Members) == 0 {
			return nil, fmt.Errorf("team registration %d has no members", reg.ID)
		}
		checkins := make([]*models.Checkin, 0, len(r.Members))
		for i, member := range r.Members {
			c := base
			c.RegistrantName = member.Name
			c.MemberName = member.Name
			c.RollNumber = member.RollNumber
			c.DepartmentSection = member.DepartmentSection
			c.Phone = member.Phone
			c.TeamName = r.Name
			c.TeamLeaderEmail = r.LeaderEmail
			c.TeamIndex = i + 1
			checkins = append(checkins, &c)
		}
		return checkins, nil
	case *models.Individual:
		c := base
		c.RegistrantName = r.Name
		c.Email = reg.Email
		c.RollNumber = r.RollNumber
		c.DepartmentSection = r.DepartmentSection
		c.Phone = r.Phone
		return []*models.Checkin{&c}, nil
	default:
		return nil, fmt.Errorf("registration %d has unknown registrant type %T", reg.ID, reg.Registrant)
	}
}
