package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/petsit/internal/web/route"
	"github.com/aussiebroadwan/petsit/internal/web/session"
	"github.com/aussiebroadwan/petsit/pkg/httpx"
	"github.com/aussiebroadwan/petsit/pkg/jwtx"
	"github.com/aussiebroadwan/petsit/pkg/petsdk"
	"github.com/aussiebroadwan/petsit/pkg/slogx"
)

// LoginRequest is the body of POST /api/session.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Redirect string `json:"redirect,omitempty"`
}

// SessionResponse reports the browser session and where to go next.
type SessionResponse struct {
	Session  session.State `json:"session"`
	Redirect string        `json:"redirect,omitempty"`
}

// SessionHandler owns the login, logout and profile-fetch flows, the only
// callers of the session mutators.
type SessionHandler struct {
	Client *petsdk.Client
}

// syncProfile copies a freshly fetched profile into the browser session.
func syncProfile(ctx context.Context, p *petsdk.Profile) {
	s, ok := session.FromContext(ctx)
	if !ok {
		return
	}
	if err := s.SetAuthenticated(p.ID, p.Username, p.IsAdmin()); err != nil {
		slogx.FromContext(ctx).Warn("profile carried no identity", "error", err)
	}
}

func currentSession(w http.ResponseWriter, r *http.Request) (*session.Store, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		slogx.FromContext(r.Context()).Error("session middleware missing")
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
	return s, ok
}

// HandleLogin handles POST /api/session
//
//	@Summary		Sign in
//	@Description	Exchanges credentials for an API token, persists it for this browser and loads the member profile.
//	@Description	A 401 from the API clears the session and answers with a login redirect.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest			true	"Credentials and optional return path"
//	@Success		200		{object}	SessionResponse			"session snapshot and post-login redirect"
//	@Failure		400		{object}	httpx.ErrorResponse		"error, message"
//	@Failure		401		{object}	httpx.ErrorResponse		"error, message, redirect"
//	@Failure		429		{object}	httpx.ErrorResponse		"error, message"
//	@Failure		502		{object}	httpx.ErrorResponse		"error, message"
//	@Router			/api/session [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON in request body")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Username and password are required")
		return
	}

	login, err := h.Client.Login(ctx, petsdk.LoginRequest{Username: req.Username, Password: req.Password})
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	if login.AccessToken == "" {
		log.Error("login response carried no token")
		httpx.WriteError(w, http.StatusBadGateway, "upstream_invalid", "The API returned no access token")
		return
	}

	expiresAt, _ := jwtx.ExpiresAt(login.AccessToken)
	if err := s.PersistToken(ctx, login.AccessToken, expiresAt); err != nil {
		log.Error("failed to persist token", "error", err)
		httpx.WriteError(w, http.StatusServiceUnavailable, "token_store_unavailable", "Could not store the session")
		return
	}

	profile, err := h.Client.GetProfile(ctx)
	if err != nil {
		if clearErr := s.ClearAuthenticated(ctx); clearErr != nil {
			log.Error("failed to clear session", "error", clearErr)
		}
		writeUpstreamError(w, r, err)
		return
	}
	if err := s.SetAuthenticated(profile.ID, profile.Username, profile.IsAdmin()); err != nil {
		_ = s.ClearAuthenticated(ctx)
		log.Error("profile carried no identity", "error", err)
		httpx.WriteError(w, http.StatusBadGateway, "upstream_invalid", "The API returned an incomplete profile")
		return
	}

	log.Info("member signed in", "member_id", profile.ID, "admin", profile.IsAdmin())
	httpx.WriteJSON(w, http.StatusOK, SessionResponse{
		Session:  s.Snapshot(),
		Redirect: route.SafeReturn(req.Redirect),
	})
}

// HandleGet handles GET /api/session
//
//	@Summary		Current session
//	@Description	Returns this browser's session snapshot without contacting the API.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	SessionResponse	"session snapshot"
//	@Router			/api/session [get].
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, SessionResponse{Session: s.Snapshot()})
}

// HandleRefresh handles POST /api/session/refresh
//
//	@Summary		Revalidate session
//	@Description	Checks the persisted token with the API and reloads the profile. Restores a session after a frontend restart.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	SessionResponse		"session snapshot"
//	@Failure		401	{object}	httpx.ErrorResponse	"error, message, redirect"
//	@Failure		502	{object}	httpx.ErrorResponse	"error, message"
//	@Router			/api/session/refresh [post].
func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	token, err := s.Token(ctx)
	if err != nil {
		log.Error("failed to read token", "error", err)
		httpx.WriteError(w, http.StatusServiceUnavailable, "token_store_unavailable", "Could not read the session")
		return
	}
	if token == "" {
		if err := s.ClearAuthenticated(ctx); err != nil {
			log.Error("failed to clear session", "error", err)
		}
		httpx.WriteJSON(w, http.StatusOK, SessionResponse{Session: s.Snapshot()})
		return
	}

	if _, err := h.Client.CheckAuth(ctx); err != nil {
		writeUpstreamError(w, r, err)
		return
	}

	profile, err := h.Client.GetProfile(ctx)
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	syncProfile(ctx, profile)

	httpx.WriteJSON(w, http.StatusOK, SessionResponse{Session: s.Snapshot()})
}

// HandleLogout handles DELETE /api/session
//
//	@Summary		Sign out
//	@Description	Ends the API session and clears this browser's session and persisted token.
//	@Description	The local session is cleared even when the API call fails.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	SessionResponse		"cleared session"
//	@Failure		503	{object}	httpx.ErrorResponse	"error, message"
//	@Router			/api/session [delete].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	if err := h.Client.Logout(ctx); err != nil {
		log.Warn("api logout failed, clearing local session anyway", "error", err)
	}

	if err := s.ClearAuthenticated(ctx); err != nil {
		log.Error("failed to clear session", "error", err)
		httpx.WriteError(w, http.StatusServiceUnavailable, "token_store_unavailable", "Could not clear the session")
		return
	}

	log.Info("member signed out")
	httpx.WriteJSON(w, http.StatusOK, SessionResponse{
		Session:  s.Snapshot(),
		Redirect: route.HomePath,
	})
}
