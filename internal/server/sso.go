package server

import (
	"errors"
	"net/http"
	"time"

	"haven-planner/internal/auth"

	"go.uber.org/zap"
)

const stateCookie = "haven_oauth_state"

func (s *Server) mockLogin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	email := q.Get("email")
	if email == "" {
		email = "user@example.com"
	}
	org := q.Get("org_id")
	if org == "" {
		org = "demo"
	}
	if err := s.validate.validate.Var(email, "email"); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "email must be a valid email address")
		return
	}

	login, err := s.app.MockSSOLogin(r.Context(), email, org)
	if err != nil {
		s.internalError(w, "mock login", err)
		return
	}
	respondJSON(w, http.StatusOK, login)
}

// me echoes the claims of the bearer token, if any.
func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusOK, map[string]any{"ok": true, "authenticated": false})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"ok":            true,
		"authenticated": true,
		"email":         claims.Email(),
		"org":           claims.Org,
	})
}

func (s *Server) googleAuthURL(w http.ResponseWriter, r *http.Request) {
	if !s.app.GoogleEnabled() {
		respondJSON(w, http.StatusOK, map[string]any{
			"ok":      false,
			"message": "Google integration disabled; set ENABLE_GOOGLE=true",
		})
		return
	}
	state := auth.NewState()
	url, err := s.app.GoogleAuthURL(state)
	if err != nil {
		s.internalError(w, "google auth url", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/integrations/google",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "auth_url": url})
}

func (s *Server) googleCallback(w http.ResponseWriter, r *http.Request) {
	if !s.app.GoogleEnabled() {
		respondError(w, http.StatusBadRequest, "DISABLED", "Disabled")
		return
	}
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		respondError(w, http.StatusBadRequest, "BAD_STATE", "missing or mismatched OAuth state")
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "missing code")
		return
	}

	if _, err := s.app.CompleteGoogleLogin(r.Context(), code); err != nil {
		if errors.Is(err, auth.ErrGoogleDisabled) {
			respondError(w, http.StatusBadRequest, "DISABLED", "Disabled")
			return
		}
		s.logger.Warn("google login failed", zap.Error(err))
		respondError(w, http.StatusBadGateway, "UPSTREAM", "google login failed")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/integrations/google", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusFound)
}
