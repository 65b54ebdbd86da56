package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"shared-gallery-gateway/internal/api"
	"shared-gallery-gateway/internal/middleware"
	"shared-gallery-gateway/internal/models"
	"shared-gallery-gateway/internal/services"
	"shared-gallery-gateway/internal/web"
)

// SharingHandler serves the grant listing pages and revocations
type SharingHandler struct {
	renderer *web.Renderer
	sharing  *services.SharingService
	auth     *services.AuthService
}

// NewSharingHandler creates a new sharing handler
func NewSharingHandler(renderer *web.Renderer, sharing *services.SharingService, auth *services.AuthService) *SharingHandler {
	return &SharingHandler{
		renderer: renderer,
		sharing:  sharing,
		auth:     auth,
	}
}

type grantListPage struct {
	Items []models.SharedAccess
}

// SharedByMe handles GET /sharing/shared-by-me
func (h *SharingHandler) SharedByMe(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	data := newPageData(r, sess, &grantListPage{})
	grants, err := h.sharing.SharedByMe(r.Context(), sess)
	if err != nil {
		h.listError(w, r, err, &data, "shared_by_me.html")
		return
	}

	data.Data = &grantListPage{Items: grants}
	render(w, h.renderer, "shared_by_me.html", data)
}

// SharedWithMe handles GET /sharing/shared-with-me
func (h *SharingHandler) SharedWithMe(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	data := newPageData(r, sess, &grantListPage{})
	grants, err := h.sharing.SharedWithMe(r.Context(), sess)
	if err != nil {
		h.listError(w, r, err, &data, "shared_with_me.html")
		return
	}

	data.Data = &grantListPage{Items: grants}
	render(w, h.renderer, "shared_with_me.html", data)
}

// Unshare handles POST /sharing/unshare/{imageID}/{userID}
func (h *SharingHandler) Unshare(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	imageID, err := parseID(chi.URLParam(r, "imageID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	userID, err := parseID(chi.URLParam(r, "userID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.sharing.Unshare(r.Context(), sess, imageID, userID); err != nil {
		failMutation(w, r, h.auth, "/sharing/shared-by-me", err)
		return
	}

	redirectWith(w, r, "/sharing/shared-by-me", "msg", "Access removed")
}

func (h *SharingHandler) listError(w http.ResponseWriter, r *http.Request, err error, data *pageData, tmpl string) {
	if api.IsUnauthorized(err) {
		h.auth.ClearSession()
		redirectWith(w, r, "/auth/login", "err", err.Error())
		return
	}
	log.Error().Err(err).Str("path", r.URL.Path).Msg("Failed to load grants")
	data.Err = err.Error()
	render(w, h.renderer, tmpl, *data)
}
