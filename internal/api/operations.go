package api

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"shared-gallery-gateway/internal/models"
)

// TokenResponse is the payload returned by a successful login exchange
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token. The endpoint expects
// a urlencoded form, not JSON.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var resp TokenResponse
	if err := c.PostForm(ctx, "/auth/login", "", form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new account
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	return c.PostJSON(ctx, "/auth/register", "", body, nil)
}

// MyImages lists images owned by the authenticated user
func (c *Client) MyImages(ctx context.Context, token string) ([]models.Image, error) {
	var images []models.Image
	if err := c.GetJSON(ctx, "/images/my-images", token, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// PublicImages lists all public images
func (c *Client) PublicImages(ctx context.Context, token string) ([]models.Image, error) {
	var images []models.Image
	if err := c.GetJSON(ctx, "/images/public", token, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// GetImage fetches one image record. The server decides view access;
// a caller without the view right gets the server's error back.
func (c *Client) GetImage(ctx context.Context, token string, imageID int64) (*models.Image, error) {
	var image models.Image
	if err := c.GetJSON(ctx, fmt.Sprintf("/images/%d", imageID), token, &image); err != nil {
		return nil, err
	}
	return &image, nil
}

// Upload submits a new image as multipart form data
func (c *Client) Upload(ctx context.Context, token, filename string, file io.Reader, caption string, visibility models.Visibility) (*models.Image, error) {
	var image models.Image
	err := c.PostMultipart(ctx, "/images/upload", token,
		FilePart{Field: "file", Filename: filename, Reader: file},
		map[string]string{
			"caption":    caption,
			"visibility": string(visibility),
		},
		&image,
	)
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// DeleteImage removes an image; ownership is checked server-side
func (c *Client) DeleteImage(ctx context.Context, token string, imageID int64) error {
	return c.Delete(ctx, fmt.Sprintf("/images/%d", imageID), token)
}

// Share grants one user view access to one private image
func (c *Client) Share(ctx context.Context, token string, imageID int64, username string) (*models.SharedAccess, error) {
	body := map[string]string{"shared_with_username": username}

	var grant models.SharedAccess
	if err := c.PostJSON(ctx, fmt.Sprintf("/sharing/share/%d", imageID), token, body, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

// Unshare revokes a previously created grant
func (c *Client) Unshare(ctx context.Context, token string, imageID, sharedWithUserID int64) error {
	return c.Delete(ctx, fmt.Sprintf("/sharing/unshare/%d/%d", imageID, sharedWithUserID), token)
}

// SharedByMe lists grants the authenticated user has created
func (c *Client) SharedByMe(ctx context.Context, token string) ([]models.SharedAccess, error) {
	var grants []models.SharedAccess
	if err := c.GetJSON(ctx, "/sharing/shared-by-me", token, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}

// SharedWithMe lists grants where the authenticated user is the grantee
func (c *Client) SharedWithMe(ctx context.Context, token string) ([]models.SharedAccess, error) {
	var grants []models.SharedAccess
	if err := c.GetJSON(ctx, "/sharing/shared-with-me", token, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}
