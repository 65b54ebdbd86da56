package models

import "time"

// Visibility of an image
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is a known visibility value
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Image represents an image record as returned by the gallery API
type Image struct {
	ID            int64      `json:"image_id"`
	OwnerID       int64      `json:"user_id"`
	URL           string     `json:"image_url"`
	Caption       string     `json:"caption"`
	Visibility    Visibility `json:"visibility"`
	CreatedAt     time.Time  `json:"created_at"`
	OwnerUsername string     `json:"owner_username,omitempty"`
}

// SharedAccess represents a standing view grant on one private image,
// joined with the image's metadata
type SharedAccess struct {
	AccessID       int64     `json:"access_id"`
	ImageID        int64     `json:"image_id"`
	SharedWithID   int64     `json:"shared_with_user_id"`
	SharedWithName string    `json:"shared_with_username"`
	ImageURL       string    `json:"image_url"`
	ImageCaption   string    `json:"image_caption"`
	GrantedAt      time.Time `json:"granted_at"`
}

// Session is a snapshot of the gateway's credential and identity.
// Token and identity are set together on login; a restored session may
// carry a token with no identity, which is still authenticated.
type Session struct {
	Token    string
	Username string
	UserID   int64
}

// Authenticated reports whether the session holds a credential
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Caps is the capability set derived for one image and one session.
// It governs which actions the UI offers; the gallery API re-checks
// every mutation regardless of what is derived here.
type Caps struct {
	CanDelete bool
	CanShare  bool
}

// Capabilities derives the capability set for img under s. Ownership is
// matched by user ID when both sides carry one, otherwise by username.
// Grantees and strangers get neither delete nor share.
func Capabilities(s Session, img Image) Caps {
	owner := false
	switch {
	case !s.Authenticated():
	case s.UserID != 0 && img.OwnerID != 0:
		owner = s.UserID == img.OwnerID
	case s.Username != "":
		owner = s.Username == img.OwnerUsername
	}
	return Caps{CanDelete: owner, CanShare: owner}
}
