package handlers

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"shared-gallery-gateway/internal/api"
	"shared-gallery-gateway/internal/models"
	"shared-gallery-gateway/internal/services"
	"shared-gallery-gateway/internal/web"
)

// pageData is the envelope handed to every template
type pageData struct {
	Session models.Session
	Msg     string
	Err     string
	Data    interface{}
}

func newPageData(r *http.Request, sess models.Session, data interface{}) pageData {
	q := r.URL.Query()
	return pageData{
		Session: sess,
		Msg:     q.Get("msg"),
		Err:     q.Get("err"),
		Data:    data,
	}
}

func render(w http.ResponseWriter, renderer *web.Renderer, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderer.Render(w, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("Failed to render page")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// redirectWith sends the browser to path with one message query param
// attached, so the next render shows it inline
func redirectWith(w http.ResponseWriter, r *http.Request, path, key, value string) {
	u := url.URL{Path: path}
	if value != "" {
		q := url.Values{}
		q.Set(key, value)
		u.RawQuery = q.Encode()
	}
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}

// failMutation handles a rejected mutating call. An unauthorized
// verdict means the credential is dead: the session is cleared and the
// browser goes back to login. Anything else is a locally recoverable
// error shown inline on back, with all other state untouched.
func failMutation(w http.ResponseWriter, r *http.Request, auth *services.AuthService, back string, err error) {
	if api.IsUnauthorized(err) {
		auth.ClearSession()
		redirectWith(w, r, "/auth/login", "err", err.Error())
		return
	}
	redirectWith(w, r, back, "err", err.Error())
}
