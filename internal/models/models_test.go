package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCapabilities(t *testing.T) {
	img := Image{
		ID:            7,
		OwnerID:       42,
		OwnerUsername: "alice",
		Visibility:    VisibilityPrivate,
		CreatedAt:     time.Now(),
	}

	tests := []struct {
		name string
		sess Session
		want Caps
	}{
		{
			name: "owner by id",
			sess: Session{Token: "t", UserID: 42, Username: "alice"},
			want: Caps{CanDelete: true, CanShare: true},
		},
		{
			name: "owner by username when ids unknown",
			sess: Session{Token: "t", Username: "alice"},
			want: Caps{CanDelete: true, CanShare: true},
		},
		{
			name: "grantee gets nothing",
			sess: Session{Token: "t", UserID: 99, Username: "bob"},
			want: Caps{},
		},
		{
			name: "id mismatch wins over matching username",
			sess: Session{Token: "t", UserID: 99, Username: "alice"},
			want: Caps{},
		},
		{
			name: "unauthenticated",
			sess: Session{},
			want: Caps{},
		},
		{
			name: "token only session without identity",
			sess: Session{Token: "t"},
			want: Caps{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Capabilities(tt.sess, img))
		})
	}
}

func TestCapabilitiesIgnoreVisibility(t *testing.T) {
	// Visibility grants view, never delete or share.
	img := Image{ID: 1, OwnerID: 1, OwnerUsername: "alice", Visibility: VisibilityPublic}
	caps := Capabilities(Session{Token: "t", UserID: 2, Username: "bob"}, img)
	assert.False(t, caps.CanDelete)
	assert.False(t, caps.CanShare)
}

func TestVisibilityValid(t *testing.T) {
	assert.True(t, VisibilityPublic.Valid())
	assert.True(t, VisibilityPrivate.Valid())
	assert.False(t, Visibility("friends").Valid())
	assert.False(t, Visibility("").Valid())
}
