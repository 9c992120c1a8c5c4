package petsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ChannelName labels a channel in logs and metrics.
type ChannelName string

const (
	ChannelPublic       ChannelName = "public"
	ChannelCredentialed ChannelName = "credentialed"
)

// Channel issues verb-based requests against the API.
type Channel struct {
	client       *Client
	name         ChannelName
	credentialed bool
}

func (ch *Channel) Name() ChannelName { return ch.name }

func (ch *Channel) Get(ctx context.Context, path string) (*Response, error) {
	return ch.Do(ctx, http.MethodGet, path, nil)
}

func (ch *Channel) Post(ctx context.Context, path string, body any) (*Response, error) {
	return ch.Do(ctx, http.MethodPost, path, body)
}

func (ch *Channel) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return ch.Do(ctx, http.MethodPatch, path, body)
}

func (ch *Channel) Put(ctx context.Context, path string, body any) (*Response, error) {
	return ch.Do(ctx, http.MethodPut, path, body)
}

func (ch *Channel) Delete(ctx context.Context, path string) (*Response, error) {
	return ch.Do(ctx, http.MethodDelete, path, nil)
}

// Do sends one request through both interceptors. body, when non-nil, is
// encoded as JSON. Every failure is either *APIError or *TransportError.
func (ch *Channel) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	c := ch.client

	url := c.url(path)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, &TransportError{Method: method, URL: url, Err: fmt.Errorf("encode request body: %w", err)}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: fmt.Errorf("create request: %w", err)}
	}

	if err := ch.prepare(ctx, req); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	return ch.intercept(ctx, req, resp, err, time.Since(start))
}
