package notification

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks at most one live websocket session per user for in-app pushes.
// Delivery is strictly best-effort: the outbox row is the durable record, a
// dropped session just means the guest reads it on the next page load.
type Hub struct {
	mu       sync.RWMutex
	sessions map[int64]*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[int64]*websocket.Conn)}
}

// Register adopts the connection as the user's session, displacing any
// previous one (a second browser tab takes over).
func (h *Hub) Register(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old := h.sessions[userID]; old != nil {
		_ = old.Close()
	}
	h.sessions[userID] = conn
}

func (h *Hub) Unregister(userID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn := h.sessions[userID]; conn != nil {
		_ = conn.Close()
	}
	delete(h.sessions, userID)
}

// SendToUser pushes one JSON message to the user's session if there is one.
// A write failure tears the session down rather than leaving it half-dead.
func (h *Hub) SendToUser(userID int64, message interface{}) bool {
	h.mu.RLock()
	conn := h.sessions[userID]
	h.mu.RUnlock()

	if conn == nil {
		return false
	}
	if err := conn.WriteJSON(message); err != nil {
		h.Unregister(userID)
		return false
	}
	return true
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.sessions[userID]
	return ok
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, conn := range h.sessions {
		if conn != nil {
			_ = conn.Close()
		}
		delete(h.sessions, userID)
	}
}
