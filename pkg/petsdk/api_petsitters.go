package petsdk

import (
	"context"
	"net/http"
	"strconv"
)

// ListPetSitters returns the pet sitters visible to the member.
func (c *Client) ListPetSitters(ctx context.Context) ([]PetSitter, error) {
	return call[[]PetSitter](ctx, c.Credentialed(), http.MethodGet, "/pet-sitters", nil)
}

// RegisterPetSitter registers the authenticated member as a pet sitter.
func (c *Client) RegisterPetSitter(ctx context.Context, req RegisterPetSitterRequest) (*PetSitter, error) {
	out, err := call[PetSitter](ctx, c.Credentialed(), http.MethodPost, "/pet-sitters", req)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPetSitter returns a public pet sitter profile.
func (c *Client) GetPetSitter(ctx context.Context, id int64) (*PetSitter, error) {
	out, err := call[PetSitter](ctx, c.Public(), http.MethodGet, "/pet-sitters/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePetSitter removes a pet sitter registration.
func (c *Client) DeletePetSitter(ctx context.Context, id int64) error {
	return send(ctx, c.Credentialed(), http.MethodDelete, "/pet-sitters/"+strconv.FormatInt(id, 10), nil)
}
