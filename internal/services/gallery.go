package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"shared-gallery-gateway/internal/api"
	"shared-gallery-gateway/internal/models"
)

const tombstoneTTL = 30 * time.Second

// GalleryService handles image listing, upload and deletion
type GalleryService struct {
	client *api.Client
	tombs  *tombstones
}

// NewGalleryService creates a new gallery service
func NewGalleryService(client *api.Client) *GalleryService {
	return &GalleryService{
		client: client,
		tombs:  newTombstones(tombstoneTTL),
	}
}

func imageKey(id int64) string {
	return fmt.Sprintf("image/%d", id)
}

// MyImages lists the session owner's images. The owner username on the
// rows defaults to the session identity when the server omits it.
func (s *GalleryService) MyImages(ctx context.Context, sess models.Session) ([]models.Image, error) {
	images, err := s.client.MyImages(ctx, sess.Token)
	if err != nil {
		return nil, err
	}

	out := images[:0]
	for _, img := range images {
		if s.tombs.contains(imageKey(img.ID)) {
			continue
		}
		if img.OwnerUsername == "" {
			img.OwnerUsername = sess.Username
		}
		out = append(out, img)
	}
	return out, nil
}

// PublicImages lists all public images
func (s *GalleryService) PublicImages(ctx context.Context, sess models.Session) ([]models.Image, error) {
	images, err := s.client.PublicImages(ctx, sess.Token)
	if err != nil {
		return nil, err
	}

	out := images[:0]
	for _, img := range images {
		if s.tombs.contains(imageKey(img.ID)) {
			continue
		}
		out = append(out, img)
	}
	return out, nil
}

// GetImage fetches a single image record
func (s *GalleryService) GetImage(ctx context.Context, sess models.Session, imageID int64) (*models.Image, error) {
	return s.client.GetImage(ctx, sess.Token, imageID)
}

// Upload validates and submits a new image
func (s *GalleryService) Upload(ctx context.Context, sess models.Session, filename string, file io.Reader, caption string, visibility models.Visibility) (*models.Image, error) {
	if filename == "" || file == nil {
		return nil, fmt.Errorf("an image file is required")
	}
	if !visibility.Valid() {
		return nil, fmt.Errorf("visibility must be public or private")
	}

	image, err := s.client.Upload(ctx, sess.Token, filename, file, caption, visibility)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("image_id", image.ID).
		Str("visibility", string(image.Visibility)).
		Msg("Image uploaded")
	return image, nil
}

// Delete removes an image. On success the id is tombstoned so list
// renders racing this call do not show the deleted row again. On
// failure nothing local changes; the server's verdict stands even if
// the derived capabilities said the delete would be allowed.
func (s *GalleryService) Delete(ctx context.Context, sess models.Session, imageID int64) error {
	if err := s.client.DeleteImage(ctx, sess.Token, imageID); err != nil {
		return err
	}

	s.tombs.add(imageKey(imageID))
	log.Info().Int64("image_id", imageID).Msg("Image deleted")
	return nil
}
