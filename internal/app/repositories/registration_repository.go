package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/tam/internal/app/models"
	"github.com/yigit/tam/internal/db"
	"github.com/yigit/tam/internal/pkg/apperrors"
	"github.com/yigit/tam/internal/pkg/dberrors"
	"github.com/yigit/tam/internal/pkg/logger"
)

var registrationColumns = []string{
	"id", "event_id", "event_name", "email", "kind", "registrant_name", "roll_number",
	"department_section", "phone", "team_name", "team_leader_email", "team_members", "qr_code",
	"is_checked_in", "check_in_time", "payment_method", "payment_status", "payment_amount",
	"payment_approved_by", "payment_approved_at", "referral_code", "created_at", "updated_at",
}

var registrationSorts = map[string]string{
	"createdAt":      "created_at",
	"registrantName": "registrant_name",
}

// ListRegistrationsParams filters and pages the admin registration list
type ListRegistrationsParams struct {
	EventID       *int64
	PaymentMethod *models.PaymentMethod
	PaymentStatus *models.PaymentStatus
	CheckedIn     *bool
	SortBy        string
	Cursor        Cursor
}

// RegistrationRepository handles read and edit operations for registrations.
// Writes that take part in check-in, approval or intake go through Tx.
type RegistrationRepository struct {
	db *pgxpool.Pool
}

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

func scanRegistration(row pgx.Row) (*models.Registration, error) {
	var (
		r                          models.Registration
		kind                       models.RegistrantKind
		name, roll, dept, phone    string
		teamName, teamLeader       *string
		members                    []byte
		method, status, approvedBy *string
		amount                     *int64
	)
	r.Payment = &models.Payment{}

	err := row.Scan(
		&r.ID, &r.EventID, &r.EventName, &r.Email, &kind, &name, &roll,
		&dept, &phone, &teamName, &teamLeader, &members, &r.QRCode,
		&r.IsCheckedIn, &r.CheckInTime, &method, &status, &amount,
		&approvedBy, &r.Payment.ApprovedAt, &r.ReferralCode, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, err
	}

	switch kind {
	case models.RegistrantTeam:
		team := &models.Team{Name: derefString(teamName), LeaderEmail: derefString(teamLeader)}
		if len(members) > 0 {
			if err := json.Unmarshal(members, &team.Members); err != nil {
				return nil, fmt.Errorf("decode team members of registration %d: %w", r.ID, err)
			}
		}
		r.Registrant = team
	default:
		r.Registrant = &models.Individual{Person: models.Person{
			Name: name, RollNumber: roll, DepartmentSection: dept, Phone: phone,
		}}
	}

	if method == nil {
		r.Payment = nil
	} else {
		r.Payment.Method = models.PaymentMethod(*method)
		r.Payment.Status = models.PaymentStatus(derefString(status))
		r.Payment.ApprovedBy = approvedBy
		if amount != nil {
			r.Payment.Amount = *amount
		}
	}

	return &r, nil
}

func queryRegistrations(ctx context.Context, q db.Querier, builder squirrel.SelectBuilder) ([]*models.Registration, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building registration query SQL")
		return nil, err
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying registrations: %w", err)
	}
	defer rows.Close()

	registrations := make([]*models.Registration, 0)
	for rows.Next() {
		registration, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		registrations = append(registrations, registration)
	}
	return registrations, rows.Err()
}

// registrationRow flattens a Registration into insert/update column values
func registrationRow(r *models.Registration) (map[string]interface{}, error) {
	primary := r.Registrant.Primary()
	values := map[string]interface{}{
		"event_id":           r.EventID,
		"event_name":         r.EventName,
		"email":              r.Email,
		"kind":               string(r.Registrant.Kind()),
		"registrant_name":    primary.Name,
		"roll_number":        primary.RollNumber,
		"department_section": primary.DepartmentSection,
		"phone":              primary.Phone,
		"team_name":          nil,
		"team_leader_email":  nil,
		"team_members":       nil,
		"qr_code":            r.QRCode,
		"referral_code":      r.ReferralCode,
	}

	if team := r.Team(); team != nil {
		members, err := json.Marshal(team.Members)
		if err != nil {
			return nil, fmt.Errorf("encode team members: %w", err)
		}
		values["team_name"] = team.Name
		values["team_leader_email"] = nullableString(team.LeaderEmail)
		values["team_members"] = members
	}

	if r.Payment != nil {
		values["payment_method"] = string(r.Payment.Method)
		values["payment_status"] = string(r.Payment.Status)
		values["payment_amount"] = r.Payment.Amount
		values["payment_approved_by"] = r.Payment.ApprovedBy
		values["payment_approved_at"] = r.Payment.ApprovedAt
	}

	return values, nil
}

// GetByID retrieves a registration by ID
func (r *RegistrationRepository) GetByID(ctx context.Context, id int64) (*models.Registration, error) {
	return getRegistration(ctx, r.db, squirrel.Eq{"id": id}, false)
}

// GetByCode retrieves a registration by its check-in code
func (r *RegistrationRepository) GetByCode(ctx context.Context, code string) (*models.Registration, error) {
	return getRegistration(ctx, r.db, squirrel.Eq{"qr_code": code}, false)
}

func getRegistration(ctx context.Context, q db.Querier, where squirrel.Sqlizer, forUpdate bool) (*models.Registration, error) {
	builder := psql.Select(registrationColumns...).From("registrations").Where(where)
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get registration SQL")
		return nil, err
	}

	return scanRegistration(q.QueryRow(ctx, sql, args...))
}

func registrationFilters(builder squirrel.SelectBuilder, params ListRegistrationsParams) squirrel.SelectBuilder {
	if params.EventID != nil {
		builder = builder.Where(squirrel.Eq{"event_id": *params.EventID})
	}
	if params.PaymentMethod != nil {
		builder = builder.Where(squirrel.Eq{"payment_method": string(*params.PaymentMethod)})
	}
	if params.PaymentStatus != nil {
		builder = builder.Where(squirrel.Eq{"payment_status": string(*params.PaymentStatus)})
	}
	if params.CheckedIn != nil {
		builder = builder.Where(squirrel.Eq{"is_checked_in": *params.CheckedIn})
	}
	return builder
}

// List returns one keyset page of registrations and whether another page follows
func (r *RegistrationRepository) List(ctx context.Context, params ListRegistrationsParams) ([]*models.Registration, bool, error) {
	column := sortColumn(registrationSorts, params.SortBy, "created_at")

	builder := registrationFilters(psql.Select(registrationColumns...).From("registrations"), params)
	builder = keysetPage(builder, "registrations", column, params.Cursor)

	registrations, err := queryRegistrations(ctx, r.db, builder)
	if err != nil {
		return nil, false, err
	}

	page, hasNext := trimPage(registrations, params.Cursor.PageSize)
	return page, hasNext, nil
}

// ListAll returns every registration, optionally for one event, newest first
func (r *RegistrationRepository) ListAll(ctx context.Context, eventID *int64) ([]*models.Registration, error) {
	builder := registrationFilters(psql.Select(registrationColumns...).From("registrations"),
		ListRegistrationsParams{EventID: eventID}).
		OrderBy("created_at DESC", "id DESC")

	return queryRegistrations(ctx, r.db, builder)
}

// ListPendingCash returns registrations whose cash payment awaits approval, oldest first
func (r *RegistrationRepository) ListPendingCash(ctx context.Context, eventID *int64) ([]*models.Registration, error) {
	method, status := models.PaymentCash, models.PaymentPending
	builder := registrationFilters(psql.Select(registrationColumns...).From("registrations"),
		ListRegistrationsParams{EventID: eventID, PaymentMethod: &method, PaymentStatus: &status}).
		OrderBy("created_at ASC", "id ASC")

	return queryRegistrations(ctx, r.db, builder)
}

// RegistrationDetails are the editable contact and identity fields of a registration
type RegistrationDetails struct {
	Email             *string
	Name              *string
	RollNumber        *string
	DepartmentSection *string
	Phone             *string
	TeamName          *string
	TeamLeaderEmail   *string
	TeamMembers       []models.Person
	ReferralCode      *string
}

// UpdateDetails applies an edit of contact and identity fields. The check-in
// code, check-in state and payment are never part of the statement.
func (r *RegistrationRepository) UpdateDetails(ctx context.Context, id int64, d RegistrationDetails) (*models.Registration, error) {
	set := map[string]interface{}{"updated_at": squirrel.Expr("NOW()")}

	if d.Email != nil {
		set["email"] = strings.TrimSpace(*d.Email)
	}
	if d.Name != nil {
		set["registrant_name"] = strings.TrimSpace(*d.Name)
	}
	if d.RollNumber != nil {
		set["roll_number"] = strings.TrimSpace(*d.RollNumber)
	}
	if d.DepartmentSection != nil {
		set["department_section"] = strings.TrimSpace(*d.DepartmentSection)
	}
	if d.Phone != nil {
		set["phone"] = strings.TrimSpace(*d.Phone)
	}
	if d.TeamName != nil {
		set["team_name"] = squirrel.Expr("CASE WHEN kind = 'team' THEN ? ELSE team_name END", strings.TrimSpace(*d.TeamName))
	}
	if d.TeamLeaderEmail != nil {
		set["team_leader_email"] = squirrel.Expr("CASE WHEN kind = 'team' THEN ? ELSE team_leader_email END", strings.TrimSpace(*d.TeamLeaderEmail))
	}
	if d.TeamMembers != nil {
		members, err := json.Marshal(d.TeamMembers)
		if err != nil {
			return nil, fmt.Errorf("encode team members: %w", err)
		}
		set["team_members"] = squirrel.Expr("CASE WHEN kind = 'team' THEN ?::jsonb ELSE team_members END", string(members))
	}
	if d.ReferralCode != nil {
		set["referral_code"] = nullableString(strings.TrimSpace(*d.ReferralCode))
	}

	sql, args, err := psql.Update("registrations").
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(registrationColumns, ", ")).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update registration SQL")
		return nil, err
	}

	return scanRegistration(r.db.QueryRow(ctx, sql, args...))
}

// insertRegistration writes a new registration and fills in its generated fields
func insertRegistration(ctx context.Context, q db.Querier, reg *models.Registration) error {
	values, err := registrationRow(reg)
	if err != nil {
		return err
	}

	sql, args, err := psql.Insert("registrations").
		SetMap(values).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building insert registration SQL")
		return err
	}

	err = q.QueryRow(ctx, sql, args...).Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintRegistrationQRCode) {
			return apperrors.ErrDuplicateCheckinCode
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrEventNotFound
		}
		return fmt.Errorf("error inserting registration: %w", err)
	}
	return nil
}
