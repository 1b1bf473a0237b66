package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/tam/internal/app/models"
	"github.com/yigit/tam/internal/db"
	"github.com/yigit/tam/internal/pkg/apperrors"
	"github.com/yigit/tam/internal/pkg/logger"
)

var eventColumns = []string{
	"id", "title", "description", "date", "time", "location", "capacity", "registered_count",
	"is_active", "price", "poster_url", "team_type", "min_team_size", "max_team_size",
	"created_at", "updated_at",
}

// EventRepository handles database operations for events
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location, &e.Capacity, &e.RegisteredCount,
		&e.IsActive, &e.Price, &e.PosterURL, &e.TeamType, &e.MinTeamSize, &e.MaxTeamSize,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return &e, nil
}

// getEvent loads one event, optionally locking the row for the caller's transaction
func getEvent(ctx context.Context, q db.Querier, id int64, forUpdate bool) (*models.Event, error) {
	builder := psql.Select(eventColumns...).From("events").Where(squirrel.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get event SQL")
		return nil, err
	}

	return scanEvent(q.QueryRow(ctx, sql, args...))
}

// Create inserts a new event; registered_count starts at 0 and the event is active
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	sql, args, err := psql.Insert("events").
		Columns("title", "description", "date", "time", "location", "capacity", "price",
			"poster_url", "team_type", "min_team_size", "max_team_size").
		Values(event.Title, event.Description, event.Date, event.Time, event.Location, event.Capacity, event.Price,
			event.PosterURL, string(event.TeamType), event.MinTeamSize, event.MaxTeamSize).
		Suffix("RETURNING id, registered_count, is_active, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create event SQL")
		return err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&event.ID, &event.RegisteredCount, &event.IsActive, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		logger.Error().Err(err).Str("title", event.Title).Msg("Error executing create event query")
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	return getEvent(ctx, r.db, id, false)
}

// List retrieves events, newest first
func (r *EventRepository) List(ctx context.Context, activeOnly bool) ([]*models.Event, error) {
	builder := psql.Select(eventColumns...).From("events").OrderBy("created_at DESC", "id DESC")
	if activeOnly {
		builder = builder.Where(squirrel.Eq{"is_active": true})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list events SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// Update writes the descriptive fields of an event. The capacity guard runs in
// the same statement so a concurrent approval cannot push registered_count past it.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	sql, args, err := psql.Update("events").
		SetMap(map[string]interface{}{
			"title":         event.Title,
			"description":   event.Description,
			"date":          event.Date,
			"time":          event.Time,
			"location":      event.Location,
			"capacity":      event.Capacity,
			"price":         event.Price,
			"team_type":     string(event.TeamType),
			"min_team_size": event.MinTeamSize,
			"max_team_size": event.MaxTeamSize,
			"updated_at":    squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": event.ID}).
		Where(squirrel.LtOrEq{"registered_count": event.Capacity}).
		Suffix("RETURNING " + strings.Join(eventColumns, ", ")).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update event SQL")
		return err
	}

	updated, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, apperrors.ErrEventNotFound) {
		// Either the event is gone or the capacity guard rejected the row
		if _, getErr := r.GetByID(ctx, event.ID); getErr != nil {
			return getErr
		}
		return apperrors.ErrCapacityBelowCount
	}
	if err != nil {
		return fmt.Errorf("error updating event: %w", err)
	}

	*event = *updated
	return nil
}

// ToggleActive flips is_active and returns the updated event
func (r *EventRepository) ToggleActive(ctx context.Context, id int64) (*models.Event, error) {
	sql, args, err := psql.Update("events").
		Set("is_active", squirrel.Expr("NOT is_active")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(eventColumns, ", ")).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building toggle event SQL")
		return nil, err
	}

	return scanEvent(r.db.QueryRow(ctx, sql, args...))
}

// SetPosterURL stores the public URL of the event poster
func (r *EventRepository) SetPosterURL(ctx context.Context, id int64, url string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE events SET poster_url = $1, updated_at = NOW() WHERE id = $2`, url, id)
	if err != nil {
		return fmt.Errorf("error updating event poster: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// Delete removes an event; registrations and checkins go with it through ON DELETE CASCADE.
// It returns how many of each were removed.
func (r *EventRepository) Delete(ctx context.Context, id int64) (registrations, checkins int, err error) {
	err = r.db.QueryRow(ctx, `
		DELETE FROM events WHERE id = $1
		RETURNING
			(SELECT COUNT(*) FROM registrations WHERE event_id = $1),
			(SELECT COUNT(*) FROM checkins WHERE event_id = $1)`,
		id).Scan(&registrations, &checkins)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, apperrors.ErrEventNotFound
	}
	if err != nil {
		return 0, 0, fmt.Errorf("error deleting event: %w", err)
	}
	return registrations, checkins, nil
}

// Stats aggregates registration, payment and attendance counts for one event
func (r *EventRepository) Stats(ctx context.Context, id int64) (*models.EventStats, error) {
	stats := &models.EventStats{EventID: id}
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_checked_in),
			COUNT(*) FILTER (WHERE payment_method = 'online' AND payment_status = 'approved'),
			COUNT(*) FILTER (WHERE payment_method = 'cash' AND payment_status = 'approved'),
			COUNT(*) FILTER (WHERE payment_method = 'cash' AND payment_status = 'pending'),
			COUNT(*) FILTER (WHERE payment_method = 'cash' AND payment_status = 'rejected'),
			COUNT(*) FILTER (WHERE payment_method IS NULL),
			(SELECT COUNT(*) FROM checkins WHERE event_id = $1)
		FROM registrations
		WHERE event_id = $1`,
		id).Scan(
		&stats.Registrations, &stats.CheckedInRegistrations, &stats.OnlineApproved, &stats.CashApproved,
		&stats.CashPending, &stats.CashRejected, &stats.FreeRegistrations, &stats.CheckinRecords,
	)
	if err != nil {
		return nil, fmt.Errorf("error computing event stats: %w", err)
	}
	return stats, nil
}
