package services

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"shared-gallery-gateway/internal/session"
)

// SessionMessage is pushed to every connected browser tab when the
// session changes, so a tab can react to a logout performed elsewhere
type SessionMessage struct {
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
}

// SessionHub fans session store events out to connected browser tabs
type SessionHub struct {
	mu          sync.RWMutex
	connections map[string]*websocket.Conn
}

// NewSessionHub creates a new hub
func NewSessionHub() *SessionHub {
	return &SessionHub{
		connections: make(map[string]*websocket.Conn),
	}
}

// Run consumes session events until the channel closes. Meant to be
// started once, with a channel from Store.Subscribe.
func (h *SessionHub) Run(events chan session.Event) {
	for ev := range events {
		h.Broadcast(SessionMessage{
			Type:     ev.Type,
			Username: ev.Session.Username,
		})
	}
}

// Register adds a tab connection and returns its id
func (h *SessionHub) Register(conn *websocket.Conn) string {
	id := uuid.New().String()

	h.mu.Lock()
	h.connections[id] = conn
	h.mu.Unlock()

	log.Debug().Str("conn_id", id).Msg("Session watcher connected")
	return id
}

// Unregister removes a tab connection
func (h *SessionHub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[id]; exists {
		conn.Close()
		delete(h.connections, id)
		log.Debug().Str("conn_id", id).Msg("Session watcher disconnected")
	}
}

// Broadcast sends a message to every connected tab, dropping
// connections that fail to accept the write
func (h *SessionHub) Broadcast(msg SessionMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal session message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, conn := range h.connections {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(h.connections, id)
			log.Debug().Str("conn_id", id).Msg("Dropped dead session watcher")
		}
	}
}

// Watchers returns the number of connected tabs
func (h *SessionHub) Watchers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}
