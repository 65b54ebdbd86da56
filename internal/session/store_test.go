package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shared-gallery-gateway/internal/models"
)

func openStore(t *testing.T, dir string) *Store {
	t.Helper()
	store, err := Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoginPersistsAcrossRestart(t *testing.T) {
	dir := t.TempDir()

	store := openStore(t, dir)
	require.NoError(t, store.Login(models.Session{Token: "tok-1", Username: "alice", UserID: 42}))
	require.NoError(t, store.Close())

	reopened := openStore(t, dir)
	sess := reopened.Current()
	assert.Equal(t, "tok-1", sess.Token)
	assert.Equal(t, "alice", sess.Username)
	assert.Equal(t, int64(42), sess.UserID)
	assert.True(t, sess.Authenticated())
}

func TestTokenOnlySessionStaysTokenOnly(t *testing.T) {
	dir := t.TempDir()

	store := openStore(t, dir)
	require.NoError(t, store.Login(models.Session{Token: "tok-2"}))
	require.NoError(t, store.Close())

	reopened := openStore(t, dir)
	sess := reopened.Current()
	assert.True(t, sess.Authenticated())
	assert.Empty(t, sess.Username)
	assert.Zero(t, sess.UserID)
}

func TestLoginRejectsEmptyToken(t *testing.T) {
	store := openStore(t, t.TempDir())
	assert.Error(t, store.Login(models.Session{Username: "alice"}))
	assert.False(t, store.Current().Authenticated())
}

func TestLogoutIdempotent(t *testing.T) {
	dir := t.TempDir()

	store := openStore(t, dir)
	require.NoError(t, store.Login(models.Session{Token: "tok", Username: "alice"}))

	require.NoError(t, store.Logout())
	after := store.Current()

	require.NoError(t, store.Logout())
	assert.Equal(t, after, store.Current())
	assert.False(t, store.Current().Authenticated())

	// The cleared state survives a restart too.
	require.NoError(t, store.Close())
	reopened := openStore(t, dir)
	assert.False(t, reopened.Current().Authenticated())
}

func TestLoginReplacesPreviousSession(t *testing.T) {
	store := openStore(t, t.TempDir())
	require.NoError(t, store.Login(models.Session{Token: "tok-a", Username: "alice"}))
	require.NoError(t, store.Login(models.Session{Token: "tok-b", Username: "bob", UserID: 2}))

	sess := store.Current()
	assert.Equal(t, "tok-b", sess.Token)
	assert.Equal(t, "bob", sess.Username)
}

func TestSubscribeReceivesTransitions(t *testing.T) {
	store := openStore(t, t.TempDir())

	ch := store.Subscribe()
	defer store.Unsubscribe(ch)

	require.NoError(t, store.Login(models.Session{Token: "tok", Username: "alice"}))
	select {
	case ev := <-ch:
		assert.Equal(t, EventLoggedIn, ev.Type)
		assert.Equal(t, "alice", ev.Session.Username)
	case <-time.After(time.Second):
		t.Fatal("expected a logged_in event")
	}

	require.NoError(t, store.Logout())
	select {
	case ev := <-ch:
		assert.Equal(t, EventLoggedOut, ev.Type)
		assert.False(t, ev.Session.Authenticated())
	case <-time.After(time.Second):
		t.Fatal("expected a logged_out event")
	}

	// Logout without a session does not emit.
	require.NoError(t, store.Logout())
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %q", ev.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestReadersNeverSeePartialSession(t *testing.T) {
	store := openStore(t, t.TempDir())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			sess := store.Current()
			if sess.Token == "" {
				assert.Empty(t, sess.Username)
			} else {
				assert.Equal(t, "alice", sess.Username)
			}
		}
	}()

	for i := 0; i < 50; i++ {
		require.NoError(t, store.Login(models.Session{Token: "tok", Username: "alice"}))
		require.NoError(t, store.Logout())
	}
	<-done
}
