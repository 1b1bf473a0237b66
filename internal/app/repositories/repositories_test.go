package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/tam/internal/app/migrations"
	"github.com/yigit/tam/internal/app/models"
	"github.com/yigit/tam/internal/db"
	"github.com/yigit/tam/internal/pkg/apperrors"
)

func TestKeysetPage(t *testing.T) {
	t.Run("first page has no keyset predicate", func(t *testing.T) {
		q := keysetPage(psql.Select("id").From("registrations"), "registrations", "created_at",
			Cursor{PageSize: 20, Desc: true})

		sql, args, err := q.ToSql()
		require.NoError(t, err)
		assert.NotContains(t, sql, "WHERE")
		assert.Contains(t, sql, "ORDER BY created_at DESC, id DESC")
		assert.Contains(t, sql, "LIMIT 21")
		assert.Empty(t, args)
	})

	t.Run("later page compares against the last row", func(t *testing.T) {
		q := keysetPage(psql.Select("id").From("checkins"), "checkins", "check_in_time",
			Cursor{LastID: 42, PageSize: 10, Desc: true})

		sql, args, err := q.ToSql()
		require.NoError(t, err)
		assert.Contains(t, sql, "NOT EXISTS (SELECT 1 FROM checkins WHERE id = $1)")
		assert.Contains(t, sql, "(check_in_time, id) < (SELECT check_in_time, id FROM checkins WHERE id = $2)")
		assert.Contains(t, sql, "LIMIT 11")
		assert.Equal(t, []interface{}{int64(42), int64(42)}, args)
	})

	t.Run("ascending order flips the comparison", func(t *testing.T) {
		q := keysetPage(psql.Select("id").From("registrations"), "registrations", "registrant_name",
			Cursor{LastID: 7, PageSize: 5})

		sql, _, err := q.ToSql()
		require.NoError(t, err)
		assert.Contains(t, sql, "(registrant_name, id) > (")
		assert.Contains(t, sql, "ORDER BY registrant_name ASC, id ASC")
	})
}

func TestTrimPage(t *testing.T) {
	page, hasNext := trimPage([]int{1, 2, 3}, 2)
	assert.Equal(t, []int{1, 2}, page)
	assert.True(t, hasNext)

	page, hasNext = trimPage([]int{1, 2}, 2)
	assert.Equal(t, []int{1, 2}, page)
	assert.False(t, hasNext)
}

func TestSortColumn(t *testing.T) {
	assert.Equal(t, "registrant_name", sortColumn(registrationSorts, "registrantName", "created_at"))
	assert.Equal(t, "created_at", sortColumn(registrationSorts, "email; DROP TABLE users", "created_at"))
	assert.Equal(t, "created_at", sortColumn(registrationSorts, "", "created_at"))
}

func TestRegistrationRowTeam(t *testing.T) {
	reg := &models.Registration{
		EventID: 1,
		Email:   "lead@example.com",
		Registrant: &models.Team{
			Name:        "Rockets",
			LeaderEmail: "lead@example.com",
			Members: []models.Person{
				{Name: "Ana", RollNumber: "R1", DepartmentSection: "CSE-A", Phone: "111"},
				{Name: "Ben", RollNumber: "R2"},
			},
		},
		QRCode: "1-team-Rockets-1700000000000-abc123",
	}

	values, err := registrationRow(reg)
	require.NoError(t, err)
	assert.Equal(t, "team", values["kind"])
	assert.Equal(t, "Ana", values["registrant_name"])
	assert.Equal(t, "Rockets", values["team_name"])
	assert.JSONEq(t,
		`[{"name":"Ana","rollNumber":"R1","departmentSection":"CSE-A","phone":"111"},{"name":"Ben","rollNumber":"R2","departmentSection":"","phone":""}]`,
		string(values["team_members"].([]byte)))
	_, hasPayment := values["payment_method"]
	assert.False(t, hasPayment)
}

// skipIfNoIntegration skips tests that need a PostgreSQL server
func skipIfNoIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true and TEST_DATABASE_URL to run")
	}
}

func openTestDB(t *testing.T) *db.PostgresDB {
	t.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, os.Getenv("TEST_DATABASE_URL"))
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.NewMigrator(pool, zerolog.Nop()).MigrateFromDirectory(ctx, "../../../migrations"))
	_, err = pool.Exec(ctx, `TRUNCATE checkins, registrations, events RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return &db.PostgresDB{Pool: pool}
}

func TestIntegrationCheckinUniqueIndex(t *testing.T) {
	skipIfNoIntegration(t)
	ctx := context.Background()
	database := openTestDB(t)
	repos := NewRepositories(database)

	event := &models.Event{Title: "Hackathon", Capacity: 10, TeamType: models.TeamTypeIndividual, MinTeamSize: 1, MaxTeamSize: 1}
	require.NoError(t, repos.EventRepository.Create(ctx, event))

	reg := &models.Registration{
		EventID:    event.ID,
		EventName:  event.Title,
		Email:      "ana@example.com",
		Registrant: &models.Individual{Person: models.Person{Name: "Ana"}},
		QRCode:     "code-1",
	}
	require.NoError(t, repos.TxStore.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		return tx.InsertRegistration(ctx, reg)
	}))

	t.Run("duplicate code is reported", func(t *testing.T) {
		dup := *reg
		err := repos.TxStore.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
			return tx.InsertRegistration(ctx, &dup)
		})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateCheckinCode)
	})

	record := func() *models.Checkin {
		return &models.Checkin{
			EventID: event.ID, EventName: event.Title, RegistrantName: "Ana",
			PaymentMethod: models.NotApplicable, PaymentStatus: models.NotApplicable,
			ReferralCode: models.NotApplicable, QRCode: reg.QRCode, CheckInTime: time.Now(),
		}
	}

	require.NoError(t, repos.TxStore.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		return tx.InsertCheckins(ctx, []*models.Checkin{record()})
	}))

	err := repos.TxStore.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		return tx.InsertCheckins(ctx, []*models.Checkin{record()})
	})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyCheckedIn)

	checkins, err := repos.CheckinRepository.ListAll(ctx, &event.ID)
	require.NoError(t, err)
	assert.Len(t, checkins, 1)

	registrations, checkinCount, err := repos.EventRepository.Delete(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, registrations)
	assert.Equal(t, 1, checkinCount)
}
