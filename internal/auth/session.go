package auth

import (
	"context"
	"log"
	"net/http"
)

// SessionCookie is the name of the login cookie.
const SessionCookie = "session"

type ctxKey struct{}

// Middleware resolves the session cookie into a *User stored in the
// request context. Requests without a valid session pass through with
// no user.
func Middleware(store *Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(SessionCookie); err == nil {
				u, err := store.UserBySession(r.Context(), c.Value)
				if err != nil {
					log.Printf("auth: resolving session: %v", err)
				} else if u != nil {
					r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, u))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// FromContext returns the logged-in user, or nil.
func FromContext(ctx context.Context) *User {
	u, _ := ctx.Value(ctxKey{}).(*User)
	return u
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
