package petsdk

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/aussiebroadwan/petsit/pkg/slogx"
)

// maxBodyBytes caps how much of a response body is buffered.
const maxBodyBytes = 4 << 20

// prepare is the request interceptor. Both channels speak JSON; only the
// credentialed channel consults the token source.
func (ch *Channel) prepare(ctx context.Context, req *http.Request) error {
	req.Header.Set("Content-Type", "application/json")

	if !ch.credentialed {
		return nil
	}

	req.Header.Set("Accept", "application/json;charset=UTF-8")

	if ch.client.Tokens == nil {
		return nil
	}

	token, err := ch.client.Tokens.Token(ctx)
	if err != nil {
		return &TransportError{Method: req.Method, URL: req.URL.Redacted(), Err: err}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return nil
}

// intercept is the response interceptor shared by both channels.
//
//   - no response: *TransportError
//   - 2xx: passed through
//   - 401: the reauthentication hook fires once, then *APIError
//   - anything else: *APIError built from the server envelope when present
func (ch *Channel) intercept(
	ctx context.Context,
	req *http.Request,
	resp *http.Response,
	doErr error,
	elapsed time.Duration,
) (*Response, error) {
	c := ch.client
	log := slogx.FromContext(ctx)

	if doErr != nil {
		c.observe(ch.name, req.Method, 0, elapsed)
		terr := &TransportError{Method: req.Method, URL: req.URL.Redacted(), Err: doErr}
		log.Warn("api transport error",
			"channel", ch.name,
			"method", req.Method,
			"path", req.URL.Path,
			"timeout", terr.Timeout(),
			"err", doErr,
		)
		return nil, terr
	}
	defer resp.Body.Close()

	c.observe(ch.name, req.Method, resp.StatusCode, elapsed)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL.Redacted(), Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
			method:     req.Method,
			url:        req.URL.Redacted(),
		}, nil
	}

	apiErr := newAPIError(resp.StatusCode, body)
	log.Warn("api error",
		"channel", ch.name,
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"message", apiErr.Message,
	)

	if resp.StatusCode == http.StatusUnauthorized && c.Reauth != nil {
		c.Reauth.ForceReauthenticate(ctx)
	}

	return nil, apiErr
}

func (c *Client) observe(channel ChannelName, method string, status int, elapsed time.Duration) {
	if c.Recorder != nil {
		c.Recorder.ObserveRequest(channel, method, status, elapsed)
	}
}
