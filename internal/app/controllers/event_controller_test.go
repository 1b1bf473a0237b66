package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/tam/internal/app/models"
	"github.com/yigit/tam/internal/app/services"
	"github.com/yigit/tam/internal/pkg/apperrors"
)

type stubEventStore struct {
	events map[int64]*models.Event
	nextID int64
}

func newStubEventStore(events ...*models.Event) *stubEventStore {
	s := &stubEventStore{events: map[int64]*models.Event{}, nextID: 100}
	for _, e := range events {
		s.events[e.ID] = e
	}
	return s
}

func (s *stubEventStore) Create(ctx context.Context, event *models.Event) error {
	s.nextID++
	event.ID = s.nextID
	event.IsActive = true
	s.events[event.ID] = event
	return nil
}

func (s *stubEventStore) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	e, ok := s.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	return e, nil
}

func (s *stubEventStore) List(ctx context.Context, activeOnly bool) ([]*models.Event, error) {
	var out []*models.Event
	for _, e := range s.events {
		if !activeOnly || e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubEventStore) Update(ctx context.Context, event *models.Event) error {
	s.events[event.ID] = event
	return nil
}

func (s *stubEventStore) ToggleActive(ctx context.Context, id int64) (*models.Event, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	e.IsActive = !e.IsActive
	return e, nil
}

func (s *stubEventStore) SetPosterURL(ctx context.Context, id int64, url string) error {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	e.PosterURL = &url
	return nil
}

func (s *stubEventStore) Delete(ctx context.Context, id int64) (int, int, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return 0, 0, err
	}
	delete(s.events, id)
	return 2, 1, nil
}

func (s *stubEventStore) Stats(ctx context.Context, id int64) (*models.EventStats, error) {
	return &models.EventStats{}, nil
}

type stubImageStorage struct{}

func (stubImageStorage) SaveImage(fh *multipart.FileHeader, dir string) (string, error) {
	return "http://localhost/uploads/" + dir + "/" + fh.Filename, nil
}

func (stubImageStorage) DeleteFile(url string) error { return nil }

func newEventRouter(store *stubEventStore) *gin.Engine {
	c := NewEventController(services.NewEventService(store, stubImageStorage{}, zerolog.Nop()))
	r := gin.New()
	r.GET("/events", c.ListActiveEvents)
	r.GET("/events/:id", c.GetEvent)
	r.POST("/admin/events", c.CreateEvent)
	r.PATCH("/admin/events/:id/toggle", c.ToggleEvent)
	r.DELETE("/admin/events/:id", c.DeleteEvent)
	r.POST("/admin/events/:id/poster", c.UploadPoster)
	return r
}

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func serve(r *gin.Engine, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateEventEndpoint(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"individual", `{"title":"Quiz","date":"2025-03-14","capacity":50}`, http.StatusCreated, ""},
		{"team", `{"title":"Hack","date":"2025-03-14","teamType":"team","minTeamSize":2,"maxTeamSize":4}`, http.StatusCreated, ""},
		{"missing title", `{"date":"2025-03-14"}`, http.StatusBadRequest, "VAL_001"},
		{"bad team range", `{"title":"Hack","date":"2025-03-14","teamType":"team","minTeamSize":5,"maxTeamSize":2}`, http.StatusBadRequest, "VAL_001"},
		{"unknown team type", `{"title":"Hack","date":"2025-03-14","teamType":"duo"}`, http.StatusBadRequest, "VAL_001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEventRouter(newStubEventStore())
			w := serve(r, http.MethodPost, "/admin/events", []byte(tt.body), "application/json")
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.code != "" {
				var body errorBody
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.False(t, body.Success)
				assert.Equal(t, tt.code, body.Error.Code)
			}
		})
	}
}

func TestGetEventEndpoint(t *testing.T) {
	r := newEventRouter(newStubEventStore(&models.Event{ID: 1, Title: "Quiz", IsActive: true}))

	t.Run("found", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/events/1", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data models.Event `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Quiz", body.Data.Title)
	})

	t.Run("not found", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/events/9", nil, "")
		require.Equal(t, http.StatusNotFound, w.Code)
		var body errorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "RES_001", body.Error.Code)
		assert.Equal(t, "Event not found", body.Error.Message)
	})

	t.Run("bad id", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/events/abc", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestToggleAndDeleteEndpoints(t *testing.T) {
	store := newStubEventStore(&models.Event{ID: 5, Title: "Quiz", IsActive: true})
	r := newEventRouter(store)

	w := serve(r, http.MethodPatch, "/admin/events/5/toggle", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, store.events[5].IsActive)

	w = serve(r, http.MethodGet, "/events", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(mustField(t, w.Body.Bytes(), "data")))

	w = serve(r, http.MethodDelete, "/admin/events/5", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"eventId":5,"deletedRegistrations":2,"deletedCheckins":1}`, string(mustField(t, w.Body.Bytes(), "data")))
}

func TestUploadPosterEndpoint(t *testing.T) {
	store := newStubEventStore(&models.Event{ID: 2, Title: "Quiz"})
	r := newEventRouter(store)

	t.Run("missing file", func(t *testing.T) {
		w := serve(r, http.MethodPost, "/admin/events/2/poster", nil, "multipart/form-data; boundary=x")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("stored", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("poster", "poster.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG\r\n\x1a\n"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		w := serve(r, http.MethodPost, "/admin/events/2/poster", buf.Bytes(), mw.FormDataContentType())
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NotNil(t, store.events[2].PosterURL)
		assert.Equal(t, "http://localhost/uploads/posters/poster.png", *store.events[2].PosterURL)
	})
}

func mustField(t *testing.T, raw []byte, name string) json.RawMessage {
	t.Helper()
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	return fields[name]
}
