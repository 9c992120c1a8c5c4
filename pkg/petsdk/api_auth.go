package petsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Member and authentication endpoints.

// Signup registers a new member. Public.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	out, err := call[SignupResponse](ctx, c.Public(), http.MethodPost, "/members", req)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a bearer token. Public; the caller
// persists the returned token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	out, err := call[LoginResponse](ctx, c.Public(), http.MethodPost, "/auth", req)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword asks the API to mail a reset to email. Public.
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	return send(ctx, c.Public(), http.MethodPut, "/auth/reset?email="+url.QueryEscape(email), nil)
}

// Logout ends the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return send(ctx, c.Credentialed(), http.MethodPost, "/auth/logout", nil)
}

// CheckAuth asks the API whether the persisted token is still accepted.
func (c *Client) CheckAuth(ctx context.Context) (*AuthCheck, error) {
	out, err := call[AuthCheck](ctx, c.Credentialed(), http.MethodGet, "/auth/check", nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProfile returns the authenticated member.
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	out, err := call[Profile](ctx, c.Credentialed(), http.MethodGet, "/members", nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile patches the authenticated member and returns the new record.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*Profile, error) {
	out, err := call[Profile](ctx, c.Credentialed(), http.MethodPatch, "/members", req)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword replaces the authenticated member's password.
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	return send(ctx, c.Credentialed(), http.MethodPut, "/members/password", req)
}

// Withdraw deletes the authenticated member's account.
func (c *Client) Withdraw(ctx context.Context) error {
	return send(ctx, c.Credentialed(), http.MethodDelete, "/members", nil)
}
