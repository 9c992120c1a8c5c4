package petsdk

import (
	"context"
	"net/http"
	"strconv"
)

// MyPets lists the authenticated member's pets.
func (c *Client) MyPets(ctx context.Context) ([]Pet, error) {
	return call[[]Pet](ctx, c.Credentialed(), http.MethodGet, "/pets/my", nil)
}

// MyPet returns one of the authenticated member's pets.
func (c *Client) MyPet(ctx context.Context, petID int64) (*Pet, error) {
	out, err := call[Pet](ctx, c.Credentialed(), http.MethodGet, "/pets/my/"+strconv.FormatInt(petID, 10), nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
