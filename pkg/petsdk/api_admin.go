package petsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Common-code administration. All calls are credentialed; the API decides
// whether the member may perform them.

func (c *Client) ListCodeGroups(ctx context.Context) ([]CodeGroup, error) {
	return call[[]CodeGroup](ctx, c.Credentialed(), http.MethodGet, "/code-group", nil)
}

// CreateCodeGroup fails with a 400 *APIError when the id is already taken.
func (c *Client) CreateCodeGroup(ctx context.Context, group CodeGroup) (*CodeGroup, error) {
	out, err := call[CodeGroup](ctx, c.Credentialed(), http.MethodPost, "/code-group", group)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCodeGroup(ctx context.Context, id string, group CodeGroup) (*CodeGroup, error) {
	out, err := call[CodeGroup](ctx, c.Credentialed(), http.MethodPatch, "/code-group/"+url.PathEscape(id), group)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCodeGroup(ctx context.Context, id string) error {
	return send(ctx, c.Credentialed(), http.MethodDelete, "/code-group/"+url.PathEscape(id), nil)
}

func (c *Client) ListCodeDetails(ctx context.Context, groupID string) ([]CodeDetail, error) {
	return call[[]CodeDetail](ctx, c.Credentialed(), http.MethodGet, "/code-details/group/"+url.PathEscape(groupID), nil)
}

func (c *Client) GetCodeDetail(ctx context.Context, id string) (*CodeDetail, error) {
	out, err := call[CodeDetail](ctx, c.Credentialed(), http.MethodGet, "/code-details/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCodeDetail(ctx context.Context, detail CodeDetail) (*CodeDetail, error) {
	out, err := call[CodeDetail](ctx, c.Credentialed(), http.MethodPost, "/code-details", detail)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCodeDetail(ctx context.Context, id string, detail CodeDetail) (*CodeDetail, error) {
	out, err := call[CodeDetail](ctx, c.Credentialed(), http.MethodPatch, "/code-details/"+url.PathEscape(id), detail)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCodeDetail(ctx context.Context, id string) error {
	return send(ctx, c.Credentialed(), http.MethodDelete, "/code-details/"+url.PathEscape(id), nil)
}
