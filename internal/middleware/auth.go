package middleware

import (
	"net/http"

	"famiglia/internal/auth"
)

// SessionCookieName carries the gate session token.
const SessionCookieName = "famiglia_session"

// RequireSession rejects requests that do not carry a live gate
// session. The API is JSON-only, so the rejection is a plain 401
// rather than a login redirect; the frontend shows the icon gate.
func RequireSession(sessions *auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || !sessions.Valid(cookie.Value) {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
