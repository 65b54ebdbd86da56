package middleware

import (
	"context"
	"net/http"
	"net/url"

	"shared-gallery-gateway/internal/models"
	"shared-gallery-gateway/internal/session"
)

type contextKey string

const sessionKey contextKey = "session"

// RequireSession gates privileged routes. The store is consulted on
// every request, never cached, so a logout from another tab takes
// effect on the next navigation. No credential means a redirect to the
// login page with the original destination preserved; the guarded
// handler never runs. The credential is not validated against the
// gallery API here; the API's own verdict on the forwarded call is the
// authority.
func RequireSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := store.Current()
			if !sess.Authenticated() {
				target := "/auth/login"
				if r.Method == http.MethodGet && r.URL.Path != "/" {
					target += "?next=" + url.QueryEscape(r.URL.RequestURI())
				}
				http.Redirect(w, r, target, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession extracts the session placed in the context by
// RequireSession; zero value when the route was not gated
func GetSession(ctx context.Context) models.Session {
	sess, ok := ctx.Value(sessionKey).(models.Session)
	if !ok {
		return models.Session{}
	}
	return sess
}
