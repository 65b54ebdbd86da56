package handlers

import (
	"net/http"

	"shared-gallery-gateway/internal/session"
	"shared-gallery-gateway/internal/web"
)

// HomeHandler serves the landing page
type HomeHandler struct {
	renderer *web.Renderer
	store    *session.Store
}

// NewHomeHandler creates a new home handler
func NewHomeHandler(renderer *web.Renderer, store *session.Store) *HomeHandler {
	return &HomeHandler{renderer: renderer, store: store}
}

// Home handles GET /
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	render(w, h.renderer, "home.html", newPageData(r, h.store.Current(), nil))
}
