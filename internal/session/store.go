package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"shared-gallery-gateway/internal/models"
)

// Event describes a session state transition delivered to subscribers
type Event struct {
	Type    string // "logged_in" or "logged_out"
	Session models.Session
}

const (
	EventLoggedIn  = "logged_in"
	EventLoggedOut = "logged_out"
)

// Store owns the process-wide session. The in-memory snapshot is the
// read path; every mutation commits to the sqlite file before it is
// observable, so a restart restores the same session.
type Store struct {
	db *sql.DB

	mu      sync.RWMutex
	current models.Session

	subMu sync.Mutex
	subs  map[chan Event]struct{}
}

// Open opens (creating if needed) the session database under dataDir
// and restores any persisted session before returning.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dataDir, "session.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		token TEXT NOT NULL,
		username TEXT NOT NULL DEFAULT '',
		user_id INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create session table: %w", err)
	}

	s := &Store{
		db:   db,
		subs: make(map[chan Event]struct{}),
	}

	if err := s.restore(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) restore() error {
	row := s.db.QueryRow(`SELECT token, username, user_id FROM session WHERE id = 1`)

	var sess models.Session
	err := row.Scan(&sess.Token, &sess.Username, &sess.UserID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	s.current = sess
	if sess.Username == "" {
		log.Warn().Msg("Restored session has a token but no identity")
	} else {
		log.Info().Str("username", sess.Username).Msg("Session restored")
	}
	return nil
}

// Login installs the credential and, when known, the identity. Both are
// committed to durable storage before any reader can observe them.
func (s *Store) Login(sess models.Session) error {
	if sess.Token == "" {
		return fmt.Errorf("token must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO session (id, token, username, user_id, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			token = excluded.token,
			username = excluded.username,
			user_id = excluded.user_id,
			updated_at = excluded.updated_at
	`, sess.Token, sess.Username, sess.UserID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.current = sess
	s.notify(Event{Type: EventLoggedIn, Session: sess})
	return nil
}

// Logout clears the credential and identity from memory and storage.
// Calling it without an active session is a no-op.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.current.Authenticated() {
		return nil
	}

	if _, err := s.db.Exec(`DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.current = models.Session{}
	s.notify(Event{Type: EventLoggedOut})
	return nil
}

// Current returns a snapshot of the session; zero value when logged out
func (s *Store) Current() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers a channel that receives session transitions.
// Delivery is best effort: a subscriber that is not draining its
// channel misses events rather than blocking a mutation.
func (s *Store) Subscribe() chan Event {
	ch := make(chan Event, 4)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()
	return ch
}

// Unsubscribe removes a previously registered channel
func (s *Store) Unsubscribe(ch chan Event) {
	s.subMu.Lock()
	delete(s.subs, ch)
	s.subMu.Unlock()
}

func (s *Store) notify(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
