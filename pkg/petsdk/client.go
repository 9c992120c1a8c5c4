package petsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is used when no environment override is configured.
	DefaultBaseURL = "http://localhost:8080/api/v1"

	// DefaultTimeout bounds every request on both channels.
	DefaultTimeout = 10 * time.Second
)

// TokenSource supplies the persisted bearer token for the caller in ctx.
// An empty token with a nil error means no token is stored.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// StaticToken always returns the same token. Useful for scripts and tests.
func StaticToken(token string) TokenSource {
	return TokenSourceFunc(func(context.Context) (string, error) { return token, nil })
}

// Reauthenticator is the force-reauthenticate hook. The response
// interceptor calls it once for every 401 it sees; the implementation
// decides how the caller is sent to the login surface.
type Reauthenticator interface {
	ForceReauthenticate(ctx context.Context)
}

// ReauthenticatorFunc adapts a function to Reauthenticator.
type ReauthenticatorFunc func(ctx context.Context)

func (f ReauthenticatorFunc) ForceReauthenticate(ctx context.Context) { f(ctx) }

// Recorder observes every exchange. status is 0 when no response arrived.
type Recorder interface {
	ObserveRequest(channel ChannelName, method string, status int, elapsed time.Duration)
}

// Client is the transport client for the marketplace API.
//
// Requests go out on one of two channels: Public, which never carries a
// credential, and Credentialed, which attaches the persisted bearer token
// when one exists. Configure the exported fields before first use; they
// are read without locking afterwards.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Tokens feeds the credentialed channel. A nil source sends every
	// request unmodified.
	Tokens TokenSource

	// Reauth is invoked on 401 responses from either channel. Optional.
	Reauth Reauthenticator

	// Recorder observes request outcomes. Optional.
	Recorder Recorder

	public       *Channel
	credentialed *Channel
}

// NewClient creates a client for baseURL with the default timeout.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	c.public = &Channel{client: c, name: ChannelPublic}
	c.credentialed = &Channel{client: c, name: ChannelCredentialed, credentialed: true}
	return c
}

// Public returns the channel that never attaches a credential.
func (c *Client) Public() *Channel { return c.public }

// Credentialed returns the channel that attaches the persisted token.
func (c *Client) Credentialed() *Channel { return c.credentialed }

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.BaseURL + path
}
