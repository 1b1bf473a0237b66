package services

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/tam/internal/app/migrations"
	"github.com/yigit/tam/internal/app/models"
	"github.com/yigit/tam/internal/app/repositories"
	"github.com/yigit/tam/internal/db"
	"github.com/yigit/tam/internal/pkg/apperrors"
)

func skipIfNoIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true and TEST_DATABASE_URL to run")
	}
}

func openIntegrationRepos(t *testing.T) *repositories.Repositories {
	t.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, os.Getenv("TEST_DATABASE_URL"))
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.NewMigrator(pool, zerolog.Nop()).MigrateFromDirectory(ctx, "../../../migrations"))
	_, err = pool.Exec(ctx, `TRUNCATE checkins, registrations, events RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return repositories.NewRepositories(&db.PostgresDB{Pool: pool})
}

func insertIntegrationRegistration(t *testing.T, repos *repositories.Repositories, event *models.Event, reg *models.Registration) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repos.EventRepository.Create(ctx, event))

	reg.EventID = event.ID
	reg.EventName = event.Title
	require.NoError(t, repos.TxStore.WithinTx(ctx, func(ctx context.Context, tx repositories.Tx) error {
		return tx.InsertRegistration(ctx, reg)
	}))
}

func TestIntegrationCheckinConcurrent(t *testing.T) {
	skipIfNoIntegration(t)
	const callers = 12

	tests := []struct {
		name  string
		event models.Event
		reg   models.Registration
		want  int
	}{
		{
			name:  "individual",
			event: models.Event{Title: "Hackathon", Capacity: 10, TeamType: models.TeamTypeIndividual, MinTeamSize: 1, MaxTeamSize: 1},
			reg: models.Registration{
				Email:      "asha@college.edu",
				Registrant: &models.Individual{Person: models.Person{Name: "Asha Rao", RollNumber: "21CS042"}},
				QRCode:     "evt_race_individual",
			},
			want: 1,
		},
		{
			name:  "team",
			event: models.Event{Title: "Robo Wars", Capacity: 10, TeamType: models.TeamTypeTeam, MinTeamSize: 2, MaxTeamSize: 4},
			reg: models.Registration{
				Email: "lead@college.edu",
				Registrant: &models.Team{
					Name:        "Team Rocket",
					LeaderEmail: "lead@college.edu",
					Members:     []models.Person{{Name: "Jessie"}, {Name: "James"}, {Name: "Meowth"}},
				},
				QRCode: "evt_race_team",
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos := openIntegrationRepos(t)
			event, reg := tt.event, tt.reg
			insertIntegrationRegistration(t, repos, &event, &reg)

			svc := NewCheckinService(repos.TxStore, repos.CheckinRepository, nil, 1000, zerolog.Nop())

			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				successes int
				dupes     int
			)
			for i := 0; i < callers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := svc.CheckIn(context.Background(), reg.QRCode)
					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						successes++
					case errors.Is(err, apperrors.ErrAlreadyCheckedIn):
						dupes++
					default:
						t.Errorf("unexpected error: %v", err)
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, 1, successes)
			assert.Equal(t, callers-1, dupes)

			stored, err := repos.RegistrationRepository.GetByID(context.Background(), reg.ID)
			require.NoError(t, err)
			assert.True(t, stored.IsCheckedIn)

			checkins, err := repos.CheckinRepository.ListAll(context.Background(), &event.ID)
			require.NoError(t, err)
			require.Len(t, checkins, tt.want)
			seen := map[int]bool{}
			for _, c := range checkins {
				assert.Equal(t, reg.QRCode, c.QRCode)
				assert.False(t, seen[c.TeamIndex], "team index %d written twice", c.TeamIndex)
				seen[c.TeamIndex] = true
			}
		})
	}
}

func TestIntegrationApproveDuringCheckin(t *testing.T) {
	skipIfNoIntegration(t)
	const rounds = 8

	repos := openIntegrationRepos(t)
	event := models.Event{Title: "Quiz Night", Capacity: 10, Price: 100, TeamType: models.TeamTypeIndividual, MinTeamSize: 1, MaxTeamSize: 1}
	reg := models.Registration{
		Email:      "cash@college.edu",
		Registrant: &models.Individual{Person: models.Person{Name: "Ravi"}},
		QRCode:     "evt_race_cash",
		Payment:    &models.Payment{Method: models.PaymentCash, Status: models.PaymentPending, Amount: 100},
	}
	insertIntegrationRegistration(t, repos, &event, &reg)

	checkins := NewCheckinService(repos.TxStore, repos.CheckinRepository, nil, 1000, zerolog.Nop())
	payments := NewPaymentService(repos.TxStore, &fakeNotifier{}, zerolog.Nop())

	var (
		wg                  sync.WaitGroup
		mu                  sync.Mutex
		checkedIn, approved int
	)
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := checkins.CheckIn(context.Background(), reg.QRCode)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				checkedIn++
			} else if !errors.Is(err, apperrors.ErrAlreadyCheckedIn) {
				t.Errorf("unexpected check-in error: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			_, err := payments.ApprovePayment(context.Background(), reg.ID, "admin@tam.events")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				approved++
			} else if !errors.Is(err, apperrors.ErrPaymentAlreadyApproved) {
				t.Errorf("unexpected approval error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, checkedIn)
	assert.Equal(t, 1, approved)

	ctx := context.Background()
	stored, err := repos.RegistrationRepository.GetByID(ctx, reg.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCheckedIn)
	require.NotNil(t, stored.Payment)
	assert.Equal(t, models.PaymentApproved, stored.Payment.Status)

	storedEvent, err := repos.EventRepository.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, storedEvent.RegisteredCount)

	records, err := repos.CheckinRepository.ListAll(ctx, &event.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
