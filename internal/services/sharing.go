package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"shared-gallery-gateway/internal/api"
	"shared-gallery-gateway/internal/models"
)

// SharingService handles view grants on private images
type SharingService struct {
	client *api.Client
	tombs  *tombstones
}

// NewSharingService creates a new sharing service
func NewSharingService(client *api.Client) *SharingService {
	return &SharingService{
		client: client,
		tombs:  newTombstones(tombstoneTTL),
	}
}

func grantKey(imageID, userID int64) string {
	return fmt.Sprintf("grant/%d/%d", imageID, userID)
}

// Share grants username view access to imageID. The target must be
// non-empty before any call goes out; an unknown target or a duplicate
// grant is the server's verdict to make and is passed through as-is.
func (s *SharingService) Share(ctx context.Context, sess models.Session, imageID int64, username string) (*models.SharedAccess, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username to share with must not be empty")
	}

	grant, err := s.client.Share(ctx, sess.Token, imageID, username)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("image_id", imageID).
		Str("shared_with", username).
		Msg("Image shared")
	return grant, nil
}

// Unshare revokes a grant and tombstones it locally so shared-by-me
// renders racing the revocation do not show it again
func (s *SharingService) Unshare(ctx context.Context, sess models.Session, imageID, sharedWithUserID int64) error {
	if err := s.client.Unshare(ctx, sess.Token, imageID, sharedWithUserID); err != nil {
		return err
	}

	s.tombs.add(grantKey(imageID, sharedWithUserID))
	log.Info().
		Int64("image_id", imageID).
		Int64("shared_with_user_id", sharedWithUserID).
		Msg("Grant revoked")
	return nil
}

// SharedByMe lists grants the session owner has created
func (s *SharingService) SharedByMe(ctx context.Context, sess models.Session) ([]models.SharedAccess, error) {
	grants, err := s.client.SharedByMe(ctx, sess.Token)
	if err != nil {
		return nil, err
	}

	out := grants[:0]
	for _, g := range grants {
		if s.tombs.contains(grantKey(g.ImageID, g.SharedWithID)) {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

// SharedWithMe lists grants where the session owner is the grantee
func (s *SharingService) SharedWithMe(ctx context.Context, sess models.Session) ([]models.SharedAccess, error) {
	return s.client.SharedWithMe(ctx, sess.Token)
}
