package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/tam/internal/app/models"
	"github.com/yigit/tam/internal/pkg/logger"
)

var checkinColumns = []string{
	"id", "event_id", "event_name", "registrant_name", "member_name", "roll_number",
	"department_section", "email", "phone", "team_name", "team_leader_email",
	"payment_method", "payment_status", "payment_amount", "referral_code",
	"qr_code", "check_in_time", "team_index",
}

// ListCheckinsParams filters and pages the attendance list
type ListCheckinsParams struct {
	EventID *int64
	QRCode  string
	Cursor  Cursor
}

// CheckinRepository reads attendance records. They are only ever written by the check-in transaction.
type CheckinRepository struct {
	db *pgxpool.Pool
}

// NewCheckinRepository creates a new checkin repository
func NewCheckinRepository(db *pgxpool.Pool) *CheckinRepository {
	return &CheckinRepository{db: db}
}

func scanCheckin(row pgx.Row) (*models.Checkin, error) {
	var c models.Checkin
	err := row.Scan(
		&c.ID, &c.EventID, &c.EventName, &c.RegistrantName, &c.MemberName, &c.RollNumber,
		&c.DepartmentSection, &c.Email, &c.Phone, &c.TeamName, &c.TeamLeaderEmail,
		&c.PaymentMethod, &c.PaymentStatus, &c.PaymentAmount, &c.ReferralCode,
		&c.QRCode, &c.CheckInTime, &c.TeamIndex,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func checkinFilters(builder squirrel.SelectBuilder, eventID *int64, code string) squirrel.SelectBuilder {
	if eventID != nil {
		builder = builder.Where(squirrel.Eq{"event_id": *eventID})
	}
	if code != "" {
		builder = builder.Where(squirrel.Eq{"qr_code": code})
	}
	return builder
}

func (r *CheckinRepository) query(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.Checkin, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building checkin query SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying checkins: %w", err)
	}
	defer rows.Close()

	checkins := make([]*models.Checkin, 0)
	for rows.Next() {
		checkin, err := scanCheckin(rows)
		if err != nil {
			return nil, err
		}
		checkins = append(checkins, checkin)
	}
	return checkins, rows.Err()
}

// List returns one page of checkins, most recent first
func (r *CheckinRepository) List(ctx context.Context, params ListCheckinsParams) ([]*models.Checkin, bool, error) {
	builder := checkinFilters(psql.Select(checkinColumns...).From("checkins"), params.EventID, params.QRCode)
	builder = keysetPage(builder, "checkins", "check_in_time", params.Cursor)

	checkins, err := r.query(ctx, builder)
	if err != nil {
		return nil, false, err
	}

	page, hasNext := trimPage(checkins, params.Cursor.PageSize)
	return page, hasNext, nil
}

// ListAll returns every checkin, optionally for one event, most recent first
func (r *CheckinRepository) ListAll(ctx context.Context, eventID *int64) ([]*models.Checkin, error) {
	builder := checkinFilters(psql.Select(checkinColumns...).From("checkins"), eventID, "").
		OrderBy("check_in_time DESC", "id DESC", "team_index ASC")
	return r.query(ctx, builder)
}
