package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/petsit/internal/web/route"
	"github.com/aussiebroadwan/petsit/pkg/httpx"
	"github.com/aussiebroadwan/petsit/pkg/petsdk"
	"github.com/aussiebroadwan/petsit/pkg/slogx"
)

// ResetPasswordRequest is the body of PUT /api/auth/reset.
type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// HandleSignup handles POST /api/members
//
//	@Summary		Sign up
//	@Tags			Members
//	@Accept			json
//	@Produce		json
//	@Param			request	body		petsdk.SignupRequest	true	"New member"
//	@Success		201		{object}	petsdk.SignupResponse	"new member id"
//	@Failure		400		{object}	petsdk.Envelope[any]	"API validation error"
//	@Failure		429		{object}	httpx.ErrorResponse		"error, message"
//	@Router			/api/members [post].
func (h *APIHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req petsdk.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := h.Client.Signup(r.Context(), req)
	respond(w, r, http.StatusCreated, out, err)
}

// HandleResetPassword handles PUT /api/auth/reset
//
//	@Summary		Reset password
//	@Description	Asks the API to mail a password reset.
//	@Tags			Members
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ResetPasswordRequest	true	"Account email"
//	@Success		200		{object}	StatusResponse			"ok"
//	@Failure		400		{object}	httpx.ErrorResponse		"error, message"
//	@Router			/api/auth/reset [put].
func (h *APIHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Email is required")
		return
	}
	err := h.Client.ResetPassword(r.Context(), strings.TrimSpace(req.Email))
	respond(w, r, http.StatusOK, statusOK, err)
}

// HandleGetProfile handles GET /api/members/me
//
//	@Summary		Member profile
//	@Description	Loads the signed-in member and refreshes the session identity from it.
//	@Tags			Members
//	@Produce		json
//	@Success		200	{object}	petsdk.Profile		"profile"
//	@Failure		401	{object}	httpx.ErrorResponse	"error, message, redirect"
//	@Router			/api/members/me [get].
func (h *APIHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Client.GetProfile(r.Context())
	if err == nil {
		syncProfile(r.Context(), profile)
	}
	respond(w, r, http.StatusOK, profile, err)
}

// HandleUpdateProfile handles PATCH /api/members/me
//
//	@Summary		Update profile
//	@Tags			Members
//	@Accept			json
//	@Produce		json
//	@Param			request	body		petsdk.UpdateProfileRequest	true	"Fields to change"
//	@Success		200		{object}	petsdk.Profile				"updated profile"
//	@Failure		401		{object}	httpx.ErrorResponse			"error, message, redirect"
//	@Router			/api/members/me [patch].
func (h *APIHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req petsdk.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	profile, err := h.Client.UpdateProfile(r.Context(), req)
	if err == nil && profile.ID != 0 {
		syncProfile(r.Context(), profile)
	}
	respond(w, r, http.StatusOK, profile, err)
}

// HandleChangePassword handles PUT /api/members/me/password
//
//	@Summary		Change password
//	@Tags			Members
//	@Accept			json
//	@Produce		json
//	@Param			request	body		petsdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		200		{object}	StatusResponse					"ok"
//	@Failure		401		{object}	httpx.ErrorResponse				"error, message, redirect"
//	@Router			/api/members/me/password [put].
func (h *APIHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req petsdk.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Current and new password are required")
		return
	}
	err := h.Client.ChangePassword(r.Context(), req)
	respond(w, r, http.StatusOK, statusOK, err)
}

// HandleWithdraw handles DELETE /api/members/me
//
//	@Summary		Withdraw
//	@Description	Deletes the member account and clears this browser's session.
//	@Tags			Members
//	@Produce		json
//	@Success		200	{object}	SessionResponse		"cleared session"
//	@Failure		401	{object}	httpx.ErrorResponse	"error, message, redirect"
//	@Router			/api/members/me [delete].
func (h *APIHandler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.Client.Withdraw(ctx); err != nil {
		writeUpstreamError(w, r, err)
		return
	}

	s, ok := currentSession(w, r)
	if !ok {
		return
	}
	if err := s.ClearAuthenticated(ctx); err != nil {
		log.Error("failed to clear session after withdrawal", "error", err)
	}

	log.Info("member withdrew")
	httpx.WriteJSON(w, http.StatusOK, SessionResponse{Session: s.Snapshot(), Redirect: route.HomePath})
}
