package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shared-gallery-gateway/internal/api"
)

const grantListBody = `[
	{"access_id": 1, "image_id": 7, "shared_with_user_id": 9,
	 "shared_with_username": "bob", "image_url": "http://s/a.jpg",
	 "image_caption": "sunset", "granted_at": "2026-08-01T10:00:00Z"},
	{"access_id": 2, "image_id": 7, "shared_with_user_id": 10,
	 "shared_with_username": "carol", "image_url": "http://s/a.jpg",
	 "image_caption": "sunset", "granted_at": "2026-08-02T10:00:00Z"}
]`

func TestShareRejectsEmptyTarget(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	sharing := NewSharingService(api.NewClient(srv.URL, 5*time.Second))

	for _, target := range []string{"", "   "} {
		_, err := sharing.Share(context.Background(), testSession(), 7, target)
		require.Error(t, err)
	}
	assert.False(t, called, "empty targets never reach the network")
}

func TestShareSurfacesServerVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"detail": "Image already shared with this user"}`))
	}))
	defer srv.Close()

	sharing := NewSharingService(api.NewClient(srv.URL, 5*time.Second))
	_, err := sharing.Share(context.Background(), testSession(), 7, "bob")
	require.Error(t, err)
	assert.Equal(t, "Image already shared with this user", err.Error())
}

func TestUnshareTombstonesAgainstStaleList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		// Stale list still containing the revoked grant.
		w.Write([]byte(grantListBody))
	}))
	defer srv.Close()

	sharing := NewSharingService(api.NewClient(srv.URL, 5*time.Second))
	require.NoError(t, sharing.Unshare(context.Background(), testSession(), 7, 9))

	grants, err := sharing.SharedByMe(context.Background(), testSession())
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, "carol", grants[0].SharedWithName)
}

func TestUnshareFailureChangesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail": "Share not found"}`))
			return
		}
		w.Write([]byte(grantListBody))
	}))
	defer srv.Close()

	sharing := NewSharingService(api.NewClient(srv.URL, 5*time.Second))
	err := sharing.Unshare(context.Background(), testSession(), 7, 9)
	require.Error(t, err)

	grants, err := sharing.SharedByMe(context.Background(), testSession())
	require.NoError(t, err)
	assert.Len(t, grants, 2)
}

func TestSharedWithMePassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sharing/shared-with-me", r.URL.Path)
		w.Write([]byte(grantListBody))
	}))
	defer srv.Close()

	sharing := NewSharingService(api.NewClient(srv.URL, 5*time.Second))
	grants, err := sharing.SharedWithMe(context.Background(), testSession())
	require.NoError(t, err)
	assert.Len(t, grants, 2)
}
