package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/tam/internal/app/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newFeedServer(t *testing.T) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/live", NewHandler(hub, nil, zerolog.Nop()).HandleConnection)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, srv, cancel
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestLiveFeedFiltersByEvent(t *testing.T) {
	hub, srv, _ := newFeedServer(t)

	scoped := dial(t, srv, "?eventId=7")
	all := dial(t, srv, "")
	require.Eventually(t, func() bool {
		return hub.ClientsCount(7) == 1 && hub.ClientsCount(AllEvents) == 1
	}, 2*time.Second, 10*time.Millisecond)

	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	hub.CheckinRecorded(models.CheckinActivity{EventID: 8, EventName: "Quiz", RegistrationID: 1, QRCode: "q-1", Records: 1, CheckInTime: at})
	hub.CheckinRecorded(models.CheckinActivity{EventID: 7, EventName: "Robo Wars", RegistrationID: 2, RegistrantName: "Team Rocket", QRCode: "r-2", Records: 3, CheckInTime: at})

	first := readMessage(t, all)
	second := readMessage(t, all)
	assert.Equal(t, "checkin", first.Type)
	assert.Equal(t, int64(8), first.Checkin.EventID)
	assert.Equal(t, int64(7), second.Checkin.EventID)

	msg := readMessage(t, scoped)
	assert.Equal(t, models.CheckinActivity{
		EventID: 7, EventName: "Robo Wars", RegistrationID: 2, RegistrantName: "Team Rocket",
		QRCode: "r-2", Records: 3, CheckInTime: at,
	}, msg.Checkin)
}

func TestLiveFeedClosesOnHubStop(t *testing.T) {
	hub, srv, cancel := newFeedServer(t)

	conn := dial(t, srv, "?eventId=3")
	require.Eventually(t, func() bool { return hub.ClientsCount(3) == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, 0, hub.ClientsCount(3))
}

func TestLiveFeedRejectsBadEventID(t *testing.T) {
	_, srv, _ := newFeedServer(t)

	resp, err := http.Get(srv.URL + "/live?eventId=abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckinRecordedNeverBlocks(t *testing.T) {
	hub := NewHub(zerolog.Nop()) // not running, so nothing drains the queue
	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer+10; i++ {
			hub.CheckinRecorded(models.CheckinActivity{EventID: 1})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("CheckinRecorded blocked on a full queue")
	}
}

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"empty list", nil, "https://evil.example", true},
		{"wildcard", []string{"*"}, "https://evil.example", true},
		{"listed", []string{"https://admin.tam.events/"}, "https://admin.tam.events", true},
		{"unlisted", []string{"https://admin.tam.events"}, "https://evil.example", false},
		{"no origin header", []string{"https://admin.tam.events"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/live", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, originChecker(tt.allowed)(req))
		})
	}
}
