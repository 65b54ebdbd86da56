package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"shared-gallery-gateway/internal/services"
	"shared-gallery-gateway/internal/session"
	"shared-gallery-gateway/internal/web"
)

// AuthHandler serves the login/register pages and their form posts
type AuthHandler struct {
	renderer *web.Renderer
	auth     *services.AuthService
	store    *session.Store
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(renderer *web.Renderer, auth *services.AuthService, store *session.Store) *AuthHandler {
	return &AuthHandler{
		renderer: renderer,
		auth:     auth,
		store:    store,
	}
}

type loginPage struct {
	Next string
}

// LoginPage handles GET /auth/login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	data := newPageData(r, h.store.Current(), loginPage{Next: safeNext(r.URL.Query().Get("next"))})
	render(w, h.renderer, "login.html", data)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWith(w, r, "/auth/login", "err", "invalid form submission")
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		redirectWith(w, r, "/auth/login", "err", "username and password are required")
		return
	}

	if err := h.auth.Login(r.Context(), username, password); err != nil {
		log.Warn().Err(err).Str("username", username).Msg("Login rejected")
		redirectWith(w, r, "/auth/login", "err", err.Error())
		return
	}

	next := safeNext(r.PostFormValue("next"))
	if next == "" {
		next = "/images/my-images"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// RegisterPage handles GET /auth/register
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	render(w, h.renderer, "register.html", newPageData(r, h.store.Current(), nil))
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWith(w, r, "/auth/register", "err", "invalid form submission")
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	if username == "" || email == "" || password == "" {
		redirectWith(w, r, "/auth/register", "err", "all fields are required")
		return
	}

	if err := h.auth.Register(r.Context(), username, email, password); err != nil {
		redirectWith(w, r, "/auth/register", "err", err.Error())
		return
	}

	redirectWith(w, r, "/auth/login", "msg", "Account created, log in to continue")
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(); err != nil {
		log.Error().Err(err).Msg("Failed to log out")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// safeNext keeps post-login redirects on this site
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	if _, err := url.Parse(next); err != nil {
		return ""
	}
	return next
}
