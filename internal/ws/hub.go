// Package ws delivers feed events to open viewers over websockets. Rooms are
// keyed by user id: every message is pushed to both participants' rooms, and
// each open view holds one connection.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Hub tracks live subscribers per user id and fans events out to them.
type Hub struct {
	log *zap.Logger

	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log:   log,
		rooms: make(map[string]map[*Client]bool),
	}
}

// Join registers a subscriber under the user's room.
func (h *Hub) Join(userID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[userID] == nil {
		h.rooms[userID] = make(map[*Client]bool)
	}
	h.rooms[userID][c] = true
}

// Leave removes a subscriber; empty rooms are dropped.
func (h *Hub) Leave(userID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.rooms[userID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.rooms, userID)
		}
	}
}

// Broadcast pushes an event to every open subscriber of the user. A
// subscriber that cannot keep up is closed rather than blocking delivery.
func (h *Hub) Broadcast(userID string, event any) {
	b, err := json.Marshal(event)
	if err != nil {
		h.log.Warn("drop undeliverable feed event", zap.Error(err))
		return
	}

	h.mu.RLock()
	conns := make([]*Client, 0, len(h.rooms[userID]))
	for c := range h.rooms[userID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		select {
		case c.send <- b:
		default:
			h.log.Warn("closing slow feed subscriber", zap.String("user", userID))
			go c.Close()
		}
	}
}

// Subscribers returns the number of open connections for a user.
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}
