package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"shared-gallery-gateway/internal/services"
)

var upgrader = websocket.Upgrader{
	// The gateway binds to loopback for a single user; any local page
	// may watch session state.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SessionSocketHandler upgrades browser tabs onto the session hub so
// they learn about logins and logouts performed elsewhere
type SessionSocketHandler struct {
	hub *services.SessionHub
}

// NewSessionSocketHandler creates a new websocket handler
func NewSessionSocketHandler(hub *services.SessionHub) *SessionSocketHandler {
	return &SessionSocketHandler{hub: hub}
}

// Watch handles GET /ws/session
func (h *SessionSocketHandler) Watch(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade session watcher")
		return
	}

	id := h.hub.Register(conn)
	defer h.hub.Unregister(id)

	// Drain until the tab goes away; tabs never send anything useful.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
