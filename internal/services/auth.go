package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"shared-gallery-gateway/internal/api"
	"shared-gallery-gateway/internal/models"
	"shared-gallery-gateway/internal/session"
)

// AuthService handles the login/register/logout lifecycle against the
// gallery API and keeps the session store in step
type AuthService struct {
	client *api.Client
	store  *session.Store
}

// NewAuthService creates a new auth service
func NewAuthService(client *api.Client, store *session.Store) *AuthService {
	return &AuthService{
		client: client,
		store:  store,
	}
}

// Login exchanges credentials for a token and installs the resulting
// session. The username is kept as the identity and enriched with
// whatever identity claims the token itself carries.
func (s *AuthService) Login(ctx context.Context, username, password string) error {
	resp, err := s.client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	sess := models.Session{
		Token:    resp.AccessToken,
		Username: username,
	}
	enrichFromClaims(&sess)

	if err := s.store.Login(sess); err != nil {
		return fmt.Errorf("failed to install session: %w", err)
	}

	log.Info().Str("username", sess.Username).Msg("Logged in")
	return nil
}

// Register creates a new account; the caller logs in separately
func (s *AuthService) Register(ctx context.Context, username, email, password string) error {
	return s.client.Register(ctx, username, email, password)
}

// Logout clears the session. Safe to call when already logged out.
func (s *AuthService) Logout() error {
	if err := s.store.Logout(); err != nil {
		return err
	}
	log.Info().Msg("Logged out")
	return nil
}

// ClearSession drops the session without treating it as a user action.
// Used when the API rejects the credential as unauthorized.
func (s *AuthService) ClearSession() {
	if err := s.store.Logout(); err != nil {
		log.Error().Err(err).Msg("Failed to clear rejected session")
	}
}

// enrichFromClaims fills identity fields from the token's claims when
// the server included them. The token is decoded without verification:
// the gateway holds no signing secret and the claims only seed display
// identity, never an access decision.
func enrichFromClaims(sess *models.Session) {
	token, _, err := jwt.NewParser().ParseUnverified(sess.Token, jwt.MapClaims{})
	if err != nil {
		log.Debug().Err(err).Msg("Token claims not decodable, keeping supplied identity")
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return
	}

	if sess.UserID == 0 {
		sess.UserID = numericClaim(claims, "user_id", "sub")
	}
	if sess.Username == "" {
		for _, key := range []string{"username", "sub"} {
			if v, ok := claims[key].(string); ok && v != "" {
				if _, err := strconv.ParseInt(v, 10, 64); err == nil {
					continue // numeric subject is an id, not a name
				}
				sess.Username = v
				break
			}
		}
	}
}

func numericClaim(claims jwt.MapClaims, keys ...string) int64 {
	for _, key := range keys {
		switch v := claims[key].(type) {
		case float64:
			return int64(v)
		case string:
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				return id
			}
		}
	}
	return 0
}
