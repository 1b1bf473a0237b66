package websocket

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/yigit/tam/internal/app/models/dto"
	"github.com/yigit/tam/internal/middleware"
)

// Handler upgrades admin requests to the live check-in feed
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler. allowedOrigins follows the CORS
// setting: empty or "*" accepts any origin.
func NewHandler(hub *Hub, allowedOrigins []string, logger zerolog.Logger) *Handler {
	h := &Handler{hub: hub, logger: logger}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimSpace(o)
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[strings.TrimRight(o, "/")] = true
	}
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// Non-browser clients send no Origin
		return origin == "" || allowed[origin]
	}
}

// HandleConnection godoc
// @Summary Live check-in feed
// @Description Upgrades to a WebSocket that receives one JSON message per committed check-in.
// @Description Browsers pass the bearer token as the token query parameter.
// @Tags admin-checkins
// @Security BearerAuth
// @Param eventId query int false "Only check-ins of this event"
// @Param token query string false "Access token when headers cannot be set"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 400 {object} dto.ErrorResponse "Invalid event ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /admin/checkins/live [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	eventID := AllEvents
	if raw := c.Query("eventId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid event ID").WithField("eventId")
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		eventID = id
	}

	uid := middleware.CurrentUserID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		h.logger.Warn().Err(err).Int64("eventID", eventID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:     h.hub,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		userID:  uid,
		eventID: eventID,
		logger:  h.logger,
	}
	if !h.hub.Register(client) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "live feed stopped"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("eventID", eventID).
		Int64("userID", uid).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("Live feed connection established")
}
