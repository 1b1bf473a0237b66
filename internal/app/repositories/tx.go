package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/tam/internal/app/models"
	"github.com/yigit/tam/internal/db"
	"github.com/yigit/tam/internal/pkg/apperrors"
	"github.com/yigit/tam/internal/pkg/dberrors"
	"github.com/yigit/tam/internal/pkg/logger"
)

// Tx is the set of statements that run inside one database transaction.
// Lookups ending in ForUpdate lock the row until the transaction ends.
type Tx interface {
	// Check-in
	RegistrationByCodeForUpdate(ctx context.Context, code string) (*models.Registration, error)
	CheckinExistsForCode(ctx context.Context, code string) (bool, error)
	MarkCheckedIn(ctx context.Context, registrationID int64, at time.Time) error
	InsertCheckins(ctx context.Context, checkins []*models.Checkin) error

	// Approval
	RegistrationByIDForUpdate(ctx context.Context, id int64) (*models.Registration, error)
	UpdatePayment(ctx context.Context, registrationID int64, payment *models.Payment) error
	IncrementRegisteredCount(ctx context.Context, eventID int64, delta int) error

	// Intake
	EventByIDForUpdate(ctx context.Context, id int64) (*models.Event, error)
	InsertRegistration(ctx context.Context, registration *models.Registration) error
}

// TxRunner runs fn in a transaction, committing when fn returns nil
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// TxStore runs Tx work against PostgreSQL
type TxStore struct {
	db *db.PostgresDB
}

// NewTxStore creates a new transaction store
func NewTxStore(database *db.PostgresDB) *TxStore {
	return &TxStore{db: database}
}

// WithinTx implements TxRunner
func (s *TxStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, &pgTx{q: tx})
	})
}

type pgTx struct {
	q db.Querier
}

func (t *pgTx) RegistrationByCodeForUpdate(ctx context.Context, code string) (*models.Registration, error) {
	return getRegistration(ctx, t.q, squirrel.Eq{"qr_code": code}, true)
}

func (t *pgTx) RegistrationByIDForUpdate(ctx context.Context, id int64) (*models.Registration, error) {
	return getRegistration(ctx, t.q, squirrel.Eq{"id": id}, true)
}

func (t *pgTx) EventByIDForUpdate(ctx context.Context, id int64) (*models.Event, error) {
	return getEvent(ctx, t.q, id, true)
}

func (t *pgTx) CheckinExistsForCode(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := t.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM checkins WHERE qr_code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking existing checkins: %w", err)
	}
	return exists, nil
}

func (t *pgTx) MarkCheckedIn(ctx context.Context, registrationID int64, at time.Time) error {
	cmdTag, err := t.q.Exec(ctx,
		`UPDATE registrations SET is_checked_in = TRUE, check_in_time = $1, updated_at = NOW() WHERE id = $2`,
		at, registrationID)
	if err != nil {
		return fmt.Errorf("error marking registration checked in: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRegistrationNotFound
	}
	return nil
}

// InsertCheckins writes all records in one statement. A collision on
// (qr_code, team_index) means another transaction already checked the code in.
func (t *pgTx) InsertCheckins(ctx context.Context, checkins []*models.Checkin) error {
	if len(checkins) == 0 {
		return nil
	}

	builder := psql.Insert("checkins").Columns(
		"event_id", "event_name", "registrant_name", "member_name", "roll_number",
		"department_section", "email", "phone", "team_name", "team_leader_email",
		"payment_method", "payment_status", "payment_amount", "referral_code",
		"qr_code", "check_in_time", "team_index",
	)
	for _, c := range checkins {
		builder = builder.Values(
			c.EventID, c.EventName, c.RegistrantName, c.MemberName, c.RollNumber,
			c.DepartmentSection, c.Email, c.Phone, c.TeamName, c.TeamLeaderEmail,
			c.PaymentMethod, c.PaymentStatus, c.PaymentAmount, c.ReferralCode,
			c.QRCode, c.CheckInTime, c.TeamIndex,
		)
	}

	sql, args, err := builder.Suffix("RETURNING id").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building insert checkins SQL")
		return err
	}

	rows, err := t.q.Query(ctx, sql, args...)
	if err != nil {
		return mapCheckinInsertError(err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if i < len(checkins) {
			if err := rows.Scan(&checkins[i].ID); err != nil {
				return err
			}
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return mapCheckinInsertError(err)
	}
	return nil
}

func mapCheckinInsertError(err error) error {
	if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintCheckinQRCodeIndex) {
		return apperrors.ErrAlreadyCheckedIn
	}
	return fmt.Errorf("error inserting checkins: %w", err)
}

func (t *pgTx) UpdatePayment(ctx context.Context, registrationID int64, payment *models.Payment) error {
	cmdTag, err := t.q.Exec(ctx, `
		UPDATE registrations
		SET payment_status = $1, payment_approved_by = $2, payment_approved_at = $3, updated_at = NOW()
		WHERE id = $4 AND payment_method IS NOT NULL`,
		string(payment.Status), payment.ApprovedBy, payment.ApprovedAt, registrationID)
	if err != nil {
		return fmt.Errorf("error updating payment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNoPaymentRecord
	}
	return nil
}

func (t *pgTx) IncrementRegisteredCount(ctx context.Context, eventID int64, delta int) error {
	cmdTag, err := t.q.Exec(ctx,
		`UPDATE events SET registered_count = registered_count + $1, updated_at = NOW() WHERE id = $2`,
		delta, eventID)
	if err != nil {
		return fmt.Errorf("error updating registered count: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

func (t *pgTx) InsertRegistration(ctx context.Context, registration *models.Registration) error {
	return insertRegistration(ctx, t.q, registration)
}

var _ Tx = (*pgTx)(nil)
var _ TxRunner = (*TxStore)(nil)
