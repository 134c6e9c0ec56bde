// Package adapthttp implements the HTTP adapter of the authentication API.
package adapthttp

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"

	"njaboot/internal/app"
	"njaboot/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
)

const (
	sessionCookie = "session"
	stateCookie   = "oauth_state"
)

type userResponse struct {
	User *domain.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := parseJSON(w, r, &req); err != nil {
		s.metrics.authAttempt("login", outcomeRejected)
		writeError(w, http.StatusBadRequest, errInvalidRequest)
		return
	}

	user, token, err := s.authSvc.Login(r.Context(), req.Email, req.Password, r.UserAgent(), clientIP(r))
	if errors.Is(err, app.ErrInvalidCredentials) {
		s.metrics.authAttempt("login", outcomeFailure)
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	if err != nil {
		s.metrics.authAttempt("login", outcomeError)
		s.log.Error(r.Context(), "login failed", err)
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}

	s.metrics.authAttempt("login", outcomeSuccess)
	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, userResponse{User: user})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req domain.Registration
	if err := parseJSON(w, r, &req); err != nil {
		s.metrics.authAttempt("register", outcomeRejected)
		writeError(w, http.StatusBadRequest, errInvalidRequest)
		return
	}

	user, token, err := s.authSvc.Register(r.Context(), req, r.UserAgent(), clientIP(r))
	switch {
	case errors.Is(err, app.ErrInvalidRegistration):
		s.metrics.authAttempt("register", outcomeRejected)
		writeError(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, domain.ErrEmailTaken):
		s.metrics.authAttempt("register", outcomeFailure)
		writeError(w, http.StatusConflict, err)
		return
	case err != nil:
		s.metrics.authAttempt("register", outcomeError)
		s.log.Error(r.Context(), "registration failed", err)
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}

	s.metrics.authAttempt("register", outcomeSuccess)
	ctx := s.log.WithUserID(r.Context(), user.ID)
	s.log.Info(ctx, "customer registered")
	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, userResponse{User: user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if err := s.authSvc.Logout(r.Context(), cookie.Value); err != nil {
			s.log.Warn(r.Context(), "deleting session failed", err)
		}
	}
	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, errUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: user})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sso_enabled": s.oidcConfig.Enabled,
	})
}

func (s *Server) handleSSOLogin(w http.ResponseWriter, r *http.Request) {
	if !s.oidcConfig.Enabled {
		writeError(w, http.StatusNotFound, errors.New("sso disabled"))
		return
	}
	state := generateState()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil || s.secureCookies,
		SameSite: http.SameSiteLaxMode, // Lax required for cross-site redirect returns
		MaxAge:   300,
	})
	http.Redirect(w, r, s.oidcConfig.OAuth2Config.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleSSOCallback(w http.ResponseWriter, r *http.Request) {
	if !s.oidcConfig.Enabled {
		writeError(w, http.StatusNotFound, errors.New("sso disabled"))
		return
	}

	state, err := r.Cookie(stateCookie)
	if err != nil || state.Value == "" || r.URL.Query().Get("state") != state.Value {
		s.metrics.authAttempt("sso", outcomeRejected)
		writeError(w, http.StatusBadRequest, errors.New("invalid state"))
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, MaxAge: -1, Path: "/"})

	token, err := s.oidcConfig.OAuth2Config.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		s.ssoFailed(w, r, "failed to exchange token", err)
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		s.ssoFailed(w, r, "no id_token", errors.New("token response carries no id_token"))
		return
	}

	verifier := s.oidcConfig.Provider.Verifier(&oidc.Config{ClientID: s.oidcConfig.OAuth2Config.ClientID})
	idToken, err := verifier.Verify(r.Context(), rawIDToken)
	if err != nil {
		s.ssoFailed(w, r, "failed to verify token", err)
		return
	}

	var claims struct {
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
	}
	if err = idToken.Claims(&claims); err != nil {
		s.ssoFailed(w, r, "failed to parse claims", err)
		return
	}
	if claims.Email == "" {
		s.metrics.authAttempt("sso", outcomeRejected)
		writeError(w, http.StatusBadRequest, errors.New("identity provider returned no email"))
		return
	}

	_, sessionToken, err := s.authSvc.LoginWithUser(r.Context(), claims.Email, claims.GivenName, claims.FamilyName, r.UserAgent(), clientIP(r))
	if err != nil {
		s.ssoFailed(w, r, "login failed", err)
		return
	}

	s.metrics.authAttempt("sso", outcomeSuccess)
	s.setSessionCookie(w, sessionToken)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) ssoFailed(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.metrics.authAttempt("sso", outcomeError)
	s.log.Error(r.Context(), msg, err)
	writeError(w, http.StatusInternalServerError, errors.New(msg))
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(s.authSvc.SessionTTL().Seconds()),
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func generateState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
