package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"famiglia/internal/auth"
	"famiglia/internal/middleware"
	"famiglia/internal/store"
)

// AuthHandler runs the icon-sequence gate. The gate keeps houseguests
// out of the finances, nothing more; the real defense against abuse is
// the rate limit on Login.
type AuthHandler struct {
	settings *store.SettingsStore
	sessions *auth.Sessions
	logger   *slog.Logger
}

func NewAuthHandler(settings *store.SettingsStore, sessions *auth.Sessions, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{settings: settings, sessions: sessions, logger: logger}
}

// Login checks the submitted icon sequence and sets the session
// cookie on success. A wrong sequence gets a 401 with no hint of
// which position was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sequence []string `json:"sequence"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	want, err := h.settings.LoginSequence()
	if err != nil {
		h.logger.Error("load login sequence", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to check sequence")
		return
	}

	if !auth.VerifySequence(req.Sequence, want) {
		h.logger.Warn("failed login attempt", "remote", middleware.RealIP(r))
		writeError(w, http.StatusUnauthorized, "wrong sequence")
		return
	}

	token, err := h.sessions.Create()
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.DefaultTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Logout revokes the session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		h.sessions.Revoke(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
