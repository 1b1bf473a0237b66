package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/tam/internal/app/models"
	"github.com/yigit/tam/internal/app/models/dto"
	"github.com/yigit/tam/internal/pkg/apperrors"
)

type fakeEventStore struct {
	events    map[int64]*models.Event
	nextID    int64
	setErr    error
	deleted   []int64
	updateErr error
}

func newFakeEventStore(events ...*models.Event) *fakeEventStore {
	s := &fakeEventStore{events: make(map[int64]*models.Event), nextID: 1}
	for _, e := range events {
		s.events[e.ID] = e
		if e.ID >= s.nextID {
			s.nextID = e.ID + 1
		}
	}
	return s
}

func (s *fakeEventStore) Create(ctx context.Context, event *models.Event) error {
	event.ID = s.nextID
	event.IsActive = true
	event.RegisteredCount = 0
	s.nextID++
	stored := *event
	s.events[event.ID] = &stored
	return nil
}

func (s *fakeEventStore) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	e, ok := s.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	copied := *e
	return &copied, nil
}

func (s *fakeEventStore) List(ctx context.Context, activeOnly bool) ([]*models.Event, error) {
	var out []*models.Event
	for _, e := range s.events {
		if activeOnly && !e.IsActive {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *fakeEventStore) Update(ctx context.Context, event *models.Event) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	stored := *event
	s.events[event.ID] = &stored
	return nil
}

func (s *fakeEventStore) ToggleActive(ctx context.Context, id int64) (*models.Event, error) {
	e, ok := s.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	e.IsActive = !e.IsActive
	copied := *e
	return &copied, nil
}

func (s *fakeEventStore) SetPosterURL(ctx context.Context, id int64, url string) error {
	if s.setErr != nil {
		return s.setErr
	}
	e, ok := s.events[id]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	e.PosterURL = &url
	return nil
}

func (s *fakeEventStore) Delete(ctx context.Context, id int64) (int, int, error) {
	if _, ok := s.events[id]; !ok {
		return 0, 0, apperrors.ErrEventNotFound
	}
	delete(s.events, id)
	s.deleted = append(s.deleted, id)
	return 4, 6, nil
}

func (s *fakeEventStore) Stats(ctx context.Context, id int64) (*models.EventStats, error) {
	return &models.EventStats{EventID: id, Registrations: 3}, nil
}

type fakeImageStorage struct {
	saved   []string
	deleted []string
}

func (f *fakeImageStorage) SaveImage(fh *multipart.FileHeader, dir string) (string, error) {
	url := "http://localhost:8080/uploads/" + dir + "/" + fh.Filename
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeImageStorage) DeleteFile(url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func TestCreateEvent(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CreateEventRequest
		wantErr error
		wantMin int
		wantMax int
	}{
		{
			name:    "individual bounds are forced to one",
			req:     dto.CreateEventRequest{Title: "Quiz", Date: "2025-03-14", Capacity: 50, MinTeamSize: 3, MaxTeamSize: 5},
			wantMin: 1,
			wantMax: 1,
		},
		{
			name:    "team",
			req:     dto.CreateEventRequest{Title: "Robo Wars", Date: "2025-03-14", Capacity: 10, TeamType: "team", MinTeamSize: 2, MaxTeamSize: 4},
			wantMin: 2,
			wantMax: 4,
		},
		{
			name:    "team min above max",
			req:     dto.CreateEventRequest{Title: "Robo Wars", TeamType: "team", MinTeamSize: 5, MaxTeamSize: 4},
			wantErr: apperrors.ErrInvalidTeamSizeRange,
		},
		{
			name:    "team min zero",
			req:     dto.CreateEventRequest{Title: "Robo Wars", TeamType: "team", MinTeamSize: 0, MaxTeamSize: 4},
			wantErr: apperrors.ErrInvalidTeamSizeRange,
		},
		{
			name:    "negative price",
			req:     dto.CreateEventRequest{Title: "Quiz", Price: -1},
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "blank title",
			req:     dto.CreateEventRequest{Title: "   "},
			wantErr: apperrors.ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewEventService(newFakeEventStore(), &fakeImageStorage{}, zerolog.Nop())
			event, err := svc.CreateEvent(context.Background(), &tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, event.IsActive)
			assert.Equal(t, 0, event.RegisteredCount)
			assert.Equal(t, tt.wantMin, event.MinTeamSize)
			assert.Equal(t, tt.wantMax, event.MaxTeamSize)
		})
	}
}

func TestUpdateEvent(t *testing.T) {
	base := func() *models.Event {
		return &models.Event{ID: 1, Title: "Quiz", Capacity: 50, RegisteredCount: 20, IsActive: true, TeamType: models.TeamTypeIndividual, MinTeamSize: 1, MaxTeamSize: 1}
	}

	t.Run("partial", func(t *testing.T) {
		store := newFakeEventStore(base())
		svc := NewEventService(store, nil, zerolog.Nop())
		location := "Hall B"
		event, err := svc.UpdateEvent(context.Background(), 1, &dto.UpdateEventRequest{Location: &location})
		require.NoError(t, err)
		assert.Equal(t, "Hall B", event.Location)
		assert.Equal(t, "Quiz", event.Title)
		assert.Equal(t, 50, event.Capacity)
	})

	t.Run("capacity below registered count", func(t *testing.T) {
		svc := NewEventService(newFakeEventStore(base()), nil, zerolog.Nop())
		capacity := 19
		_, err := svc.UpdateEvent(context.Background(), 1, &dto.UpdateEventRequest{Capacity: &capacity})
		assert.ErrorIs(t, err, apperrors.ErrCapacityBelowCount)
	})

	t.Run("capacity equal to registered count", func(t *testing.T) {
		svc := NewEventService(newFakeEventStore(base()), nil, zerolog.Nop())
		capacity := 20
		event, err := svc.UpdateEvent(context.Background(), 1, &dto.UpdateEventRequest{Capacity: &capacity})
		require.NoError(t, err)
		assert.True(t, event.IsFull())
	})

	t.Run("store guard", func(t *testing.T) {
		store := newFakeEventStore(base())
		store.updateErr = apperrors.ErrCapacityBelowCount
		svc := NewEventService(store, nil, zerolog.Nop())
		title := "Quiz Finals"
		_, err := svc.UpdateEvent(context.Background(), 1, &dto.UpdateEventRequest{Title: &title})
		assert.ErrorIs(t, err, apperrors.ErrCapacityBelowCount)
	})

	t.Run("missing", func(t *testing.T) {
		svc := NewEventService(newFakeEventStore(), nil, zerolog.Nop())
		_, err := svc.UpdateEvent(context.Background(), 9, &dto.UpdateEventRequest{})
		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})
}

func TestToggleAndDeleteEvent(t *testing.T) {
	poster := "http://localhost:8080/uploads/posters/old.png"
	store := newFakeEventStore(&models.Event{ID: 3, Title: "Quiz", IsActive: true, PosterURL: &poster})
	storage := &fakeImageStorage{}
	svc := NewEventService(store, storage, zerolog.Nop())

	event, err := svc.ToggleActive(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, event.IsActive)

	resp, err := svc.DeleteEvent(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, &dto.DeleteEventResponse{EventID: 3, DeletedRegistrations: 4, DeletedCheckins: 6}, resp)
	assert.Equal(t, []string{poster}, storage.deleted)

	_, err = svc.DeleteEvent(context.Background(), 3)
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

func TestUploadPoster(t *testing.T) {
	old := "http://localhost:8080/uploads/posters/old.png"

	t.Run("replaces previous poster", func(t *testing.T) {
		store := newFakeEventStore(&models.Event{ID: 1, Title: "Quiz", PosterURL: &old})
		storage := &fakeImageStorage{}
		svc := NewEventService(store, storage, zerolog.Nop())

		event, err := svc.UploadPoster(context.Background(), 1, &multipart.FileHeader{Filename: "new.png"})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/uploads/posters/new.png", *event.PosterURL)
		assert.Equal(t, []string{old}, storage.deleted)
	})

	t.Run("store failure removes the upload", func(t *testing.T) {
		store := newFakeEventStore(&models.Event{ID: 1, Title: "Quiz"})
		store.setErr = errors.New("connection refused")
		storage := &fakeImageStorage{}
		svc := NewEventService(store, storage, zerolog.Nop())

		_, err := svc.UploadPoster(context.Background(), 1, &multipart.FileHeader{Filename: "new.png"})
		assert.Error(t, err)
		assert.Equal(t, storage.saved, storage.deleted)
	})
}

func TestEventStats(t *testing.T) {
	svc := NewEventService(newFakeEventStore(&models.Event{ID: 2, Title: "Quiz"}), nil, zerolog.Nop())

	stats, err := svc.EventStats(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Registrations)

	_, err = svc.EventStats(context.Background(), 5)
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}
