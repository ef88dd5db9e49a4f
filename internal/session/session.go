// Package session issues and propagates the opaque per-visit session id that
// scopes every document and query.
package session

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const cookieName = "docchat_session"

type ctxKey struct{}

// Middleware ensures every request carries a session id: it reads the
// session cookie, issuing a fresh uuid cookie when absent, and stores the id
// on the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
			id = c.Value
		} else {
			id = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}

// WithID returns a context carrying the session id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the session id, or "" when the middleware did not run.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
