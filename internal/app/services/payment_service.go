package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/tam/internal/app/models"
	"github.com/yigit/tam/internal/app/repositories"
	"github.com/yigit/tam/internal/pkg/apperrors"
)

// ApprovalResult is the outcome of a payment approval
type ApprovalResult struct {
	Registration *models.Registration
	// EmailQueued is false when the confirmation email could not be queued
	EmailQueued bool
}

// PaymentService approves and rejects cash payments
type PaymentService struct {
	txRunner repositories.TxRunner
	notifier ConfirmationNotifier
	now      func() time.Time
	logger   zerolog.Logger
}

// NewPaymentService creates a new payment approval service
func NewPaymentService(txRunner repositories.TxRunner, notifier ConfirmationNotifier, logger zerolog.Logger) *PaymentService {
	return &PaymentService{
		txRunner: txRunner,
		notifier: notifier,
		now:      time.Now,
		logger:   logger,
	}
}

// ApprovePayment marks the payment approved and takes one seat of the event.
// A team takes one seat regardless of its size.
func (s *PaymentService) ApprovePayment(ctx context.Context, registrationID int64, approver string) (*ApprovalResult, error) {
	var approved *models.Registration

	err := s.txRunner.WithinTx(ctx, func(ctx context.Context, tx repositories.Tx) error {
		reg, err := tx.RegistrationByIDForUpdate(ctx, registrationID)
		if err != nil {
			return err
		}
		if reg.Payment == nil {
			return apperrors.ErrNoPaymentRecord
		}
		if reg.Payment.Status == models.PaymentApproved {
			return apperrors.ErrPaymentAlreadyApproved
		}

		at := s.now().UTC()
		payment := *reg.Payment
		payment.Status = models.PaymentApproved
		payment.ApprovedBy = &approver
		payment.ApprovedAt = &at

		if err := tx.UpdatePayment(ctx, reg.ID, &payment); err != nil {
			return err
		}
		if err := tx.IncrementRegisteredCount(ctx, reg.EventID, 1); err != nil {
			return err
		}

		reg.Payment = &payment
		approved = reg
		return nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Int64("registrationID", registrationID).Msg("Payment approval failed")
		return nil, err
	}

	s.logger.Info().
		Int64("registrationID", registrationID).
		Int64("eventID", approved.EventID).
		Str("approvedBy", approver).
		Msg("Payment approved")

	result := &ApprovalResult{Registration: approved, EmailQueued: true}
	if err := s.notifier.SendConfirmation(ctx, approved); err != nil {
		s.logger.Error().Err(err).Int64("registrationID", registrationID).Msg("Confirmation email could not be queued")
		result.EmailQueued = false
	}
	return result, nil
}

// RejectPayment rejects a pending payment. The seat count is not touched.
func (s *PaymentService) RejectPayment(ctx context.Context, registrationID int64, approver string) (*models.Registration, error) {
	var rejected *models.Registration

	err := s.txRunner.WithinTx(ctx, func(ctx context.Context, tx repositories.Tx) error {
		reg, err := tx.RegistrationByIDForUpdate(ctx, registrationID)
		if err != nil {
			return err
		}
		if reg.Payment == nil {
			return apperrors.ErrNoPaymentRecord
		}
		if reg.Payment.Status != models.PaymentPending {
			return apperrors.ErrPaymentNotPending
		}

		at := s.now().UTC()
		payment := *reg.Payment
		payment.Status = models.PaymentRejected
		payment.ApprovedBy = &approver
		payment.ApprovedAt = &at

		if err := tx.UpdatePayment(ctx, reg.ID, &payment); err != nil {
			return err
		}

		reg.Payment = &payment
		rejected = reg
		return nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Int64("registrationID", registrationID).Msg("Payment rejection failed")
		return nil, err
	}

	s.logger.Info().Int64("registrationID", registrationID).Str("rejectedBy", approver).Msg("Payment rejected")
	return rejected, nil
}
