package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shared-gallery-gateway/internal/models"
	"shared-gallery-gateway/internal/session"
)

func httpHandler(t *testing.T, hub *SessionHub, upgrader websocket.Upgrader) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		id := hub.Register(conn)
		go func() {
			defer hub.Unregister(id)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})
}

func TestSessionHubBroadcastsTransitions(t *testing.T) {
	store := newStore(t)

	hub := NewSessionHub()
	events := store.Subscribe()
	defer store.Unsubscribe(events)
	go hub.Run(events)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(httpHandler(t, hub, upgrader))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	// Wait until the hub has registered the connection before mutating.
	require.Eventually(t, func() bool { return hub.Watchers() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, store.Login(models.Session{Token: "tok", Username: "alice"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg SessionMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, session.EventLoggedIn, msg.Type)
	assert.Equal(t, "alice", msg.Username)

	require.NoError(t, store.Logout())
	_, data, err = conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, session.EventLoggedOut, msg.Type)
}

func TestSessionHubDropsDeadConnections(t *testing.T) {
	hub := NewSessionHub()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(httpHandler(t, hub, upgrader))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Watchers() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	// First write after close fails and evicts the connection.
	require.Eventually(t, func() bool {
		hub.Broadcast(SessionMessage{Type: session.EventLoggedOut})
		return hub.Watchers() == 0
	}, time.Second, 20*time.Millisecond)
}
