// Package websocket streams committed check-ins to connected admin dashboards.
package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/tam/internal/app/models"
)

// AllEvents is the subscription key of clients watching every event
const AllEvents int64 = 0

const broadcastBuffer = 256

// Message is one frame of the live feed
type Message struct {
	Type    string                 `json:"type"` // always "checkin"
	Checkin models.CheckinActivity `json:"checkin"`
}

// Hub maintains the set of active clients and broadcasts check-ins to them
type Hub struct {
	// Registered clients by subscribed event ID
	clients map[int64]map[*Client]bool

	broadcast  chan models.CheckinActivity
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu     sync.RWMutex
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		broadcast:  make(chan models.CheckinActivity, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case activity := <-h.broadcast:
			h.broadcastActivity(activity)
		}
	}
}

// CheckinRecorded queues a check-in for broadcast. It never blocks the caller;
// when the queue is full the entry is dropped.
func (h *Hub) CheckinRecorded(activity models.CheckinActivity) {
	select {
	case h.broadcast <- activity:
	default:
		h.logger.Warn().
			Int64("eventID", activity.EventID).
			Str("qrCode", activity.QRCode).
			Msg("Live feed queue full, dropping check-in")
	}
}

// Register adds client to the hub. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes client from the hub; it is a no-op once the hub has stopped
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientsCount returns the number of clients subscribed to eventID
func (h *Hub) ClientsCount(eventID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[eventID])
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.eventID]; !ok {
		h.clients[client.eventID] = make(map[*Client]bool)
	}
	h.clients[client.eventID][client] = true

	h.logger.Info().
		Int64("eventID", client.eventID).
		Int64("userID", client.userID).
		Msg("Live feed client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

// removeLocked drops client and closes its send channel; h.mu must be held
func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.eventID]
	if !ok || !clients[client] {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.eventID)
	}

	h.logger.Info().
		Int64("eventID", client.eventID).
		Int64("userID", client.userID).
		Msg("Live feed client unregistered")
}

// broadcastActivity sends to subscribers of the event and of AllEvents.
// Clients whose buffer is full are disconnected.
func (h *Hub) broadcastActivity(activity models.CheckinActivity) {
	data, err := json.Marshal(Message{Type: "checkin", Checkin: activity})
	if err != nil {
		h.logger.Error().Err(err).Int64("eventID", activity.EventID).Msg("Failed to marshal live feed message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for _, key := range []int64{activity.EventID, AllEvents} {
		for client := range h.clients[key] {
			select {
			case client.send <- data:
				sent++
			default:
				h.removeLocked(client)
			}
		}
	}

	h.logger.Debug().
		Int64("eventID", activity.EventID).
		Int("clientCount", sent).
		Msg("Check-in broadcast to live feed")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}
