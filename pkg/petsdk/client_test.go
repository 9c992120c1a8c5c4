package petsdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/petsit/pkg/petsdk"
	"github.com/stretchr/testify/require"
)

// upstream records the last request it saw and replies with a fixed status/body.
type upstream struct {
	mu     sync.Mutex
	last   *http.Request
	status int
	body   string
}

func newUpstream(t *testing.T, status int, body string) (*upstream, *httptest.Server) {
	t.Helper()

	u := &upstream{status: status, body: body}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.last = r.Clone(context.Background())
		u.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(u.status)
		_, _ = w.Write([]byte(u.body))
	}))
	t.Cleanup(srv.Close)
	return u, srv
}

func (u *upstream) lastRequest() *http.Request {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.last
}

type reauthCounter struct{ n atomic.Int32 }

func (r *reauthCounter) ForceReauthenticate(context.Context) { r.n.Add(1) }

type recorded struct {
	channel petsdk.ChannelName
	method  string
	status  int
}

type recorder struct {
	mu  sync.Mutex
	got []recorded
}

func (r *recorder) ObserveRequest(channel petsdk.ChannelName, method string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, recorded{channel, method, status})
}

func TestNewClientDefaults(t *testing.T) {
	t.Parallel()

	c := petsdk.NewClient("")
	require.Equal(t, petsdk.DefaultBaseURL, c.BaseURL)
	require.Equal(t, petsdk.DefaultTimeout, c.HTTPClient.Timeout)

	c = petsdk.NewClient("http://api.example.com/api/v1/")
	require.Equal(t, "http://api.example.com/api/v1", c.BaseURL)
	require.Equal(t, petsdk.ChannelPublic, c.Public().Name())
	require.Equal(t, petsdk.ChannelCredentialed, c.Credentialed().Name())
}

func TestCredentialedChannelAttachesToken(t *testing.T) {
	t.Parallel()

	methods := []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete}

	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			t.Parallel()

			u, srv := newUpstream(t, http.StatusOK, `{"status":"success","message":"ok","data":null}`)
			c := petsdk.NewClient(srv.URL)
			c.Tokens = petsdk.StaticToken("tok-123")

			_, err := c.Credentialed().Do(context.Background(), method, "/pets/my", nil)
			require.NoError(t, err)

			req := u.lastRequest()
			require.Equal(t, method, req.Method)
			require.Equal(t, "/pets/my", req.URL.Path)
			require.Equal(t, "Bearer tok-123", req.Header.Get("Authorization"))
			require.Equal(t, "application/json;charset=UTF-8", req.Header.Get("Accept"))
		})
	}
}

func TestCredentialedChannelWithoutToken(t *testing.T) {
	t.Parallel()

	u, srv := newUpstream(t, http.StatusOK, `{}`)

	t.Run("empty token", func(t *testing.T) {
		c := petsdk.NewClient(srv.URL)
		c.Tokens = petsdk.StaticToken("")

		_, err := c.Credentialed().Get(context.Background(), "/auth/check")
		require.NoError(t, err)
		_, present := u.lastRequest().Header["Authorization"]
		require.False(t, present)
	})

	t.Run("no token source", func(t *testing.T) {
		c := petsdk.NewClient(srv.URL)

		_, err := c.Credentialed().Get(context.Background(), "/auth/check")
		require.NoError(t, err)
		_, present := u.lastRequest().Header["Authorization"]
		require.False(t, present)
	})
}

func TestPublicChannelNeverAttachesToken(t *testing.T) {
	t.Parallel()

	u, srv := newUpstream(t, http.StatusOK, `{}`)
	c := petsdk.NewClient(srv.URL)
	c.Tokens = petsdk.StaticToken("tok-123")

	_, err := c.Public().Post(context.Background(), "/auth", petsdk.LoginRequest{Username: "a", Password: "b"})
	require.NoError(t, err)

	req := u.lastRequest()
	require.Empty(t, req.Header.Get("Authorization"))
	require.Equal(t, "application/json", req.Header.Get("Content-Type"))
}

func TestTokenSourceFailureIsTransportError(t *testing.T) {
	t.Parallel()

	_, srv := newUpstream(t, http.StatusOK, `{}`)
	c := petsdk.NewClient(srv.URL)
	boom := errors.New("store offline")
	c.Tokens = petsdk.TokenSourceFunc(func(context.Context) (string, error) { return "", boom })

	_, err := c.Credentialed().Get(context.Background(), "/members")

	var terr *petsdk.TransportError
	require.ErrorAs(t, err, &terr)
	require.ErrorIs(t, err, boom)
}

func TestUnauthorizedTriggersExactlyOneReauth(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name    string
		channel func(*petsdk.Client) *petsdk.Channel
		method  string
	}{
		{"credentialed get", (*petsdk.Client).Credentialed, http.MethodGet},
		{"credentialed delete", (*petsdk.Client).Credentialed, http.MethodDelete},
		{"public post", (*petsdk.Client).Public, http.MethodPost},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, srv := newUpstream(t, http.StatusUnauthorized, `{"status":"error","message":"token expired","data":null}`)
			c := petsdk.NewClient(srv.URL)
			reauth := &reauthCounter{}
			c.Reauth = reauth

			_, err := tc.channel(c).Do(context.Background(), tc.method, "/members", nil)
			require.Error(t, err)
			require.True(t, petsdk.IsUnauthorized(err))
			require.EqualValues(t, 1, reauth.n.Load())

			apiErr, ok := petsdk.AsAPIError(err)
			require.True(t, ok)
			require.Equal(t, "token expired", apiErr.Message)
		})
	}
}

func TestNonAuthFailuresDoNotReauth(t *testing.T) {
	t.Parallel()

	_, srv := newUpstream(t, http.StatusForbidden, `{"status":"error","message":"forbidden","data":null}`)
	c := petsdk.NewClient(srv.URL)
	reauth := &reauthCounter{}
	c.Reauth = reauth

	_, err := c.Credentialed().Get(context.Background(), "/code-group")
	require.Error(t, err)
	require.False(t, petsdk.IsUnauthorized(err))
	require.Zero(t, reauth.n.Load())
}

func TestErrorNormalisation(t *testing.T) {
	t.Parallel()

	t.Run("server envelope is preserved", func(t *testing.T) {
		_, srv := newUpstream(t, http.StatusBadRequest,
			`{"status":"error","message":"duplicate code group","data":{"field":"codeGroupId"}}`)
		c := petsdk.NewClient(srv.URL)

		_, err := c.Credentialed().Post(context.Background(), "/code-group", map[string]string{"codeGroupId": "PET"})

		apiErr, ok := petsdk.AsAPIError(err)
		require.True(t, ok)
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		require.Equal(t, "error", apiErr.Status)
		require.Equal(t, "duplicate code group", apiErr.Message)
		require.True(t, apiErr.Structured())
		require.JSONEq(t, `{"field":"codeGroupId"}`, string(apiErr.Data))
	})

	t.Run("foreign body falls back to status text", func(t *testing.T) {
		_, srv := newUpstream(t, http.StatusNotFound, `<html>nope</html>`)
		c := petsdk.NewClient(srv.URL)

		_, err := c.Public().Get(context.Background(), "/pet-sitters/9")

		apiErr, ok := petsdk.AsAPIError(err)
		require.True(t, ok)
		require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		require.Equal(t, "Not Found", apiErr.Message)
		require.False(t, apiErr.Structured())
		require.Equal(t, "<html>nope</html>", string(apiErr.Body))
		require.Contains(t, apiErr.Error(), "HTTP 404")
	})
}

func TestTransportFailures(t *testing.T) {
	t.Parallel()

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		t.Cleanup(srv.Close)
		t.Cleanup(func() { close(release) })

		c := petsdk.NewClient(srv.URL)
		c.HTTPClient.Timeout = 50 * time.Millisecond
		reauth := &reauthCounter{}
		c.Reauth = reauth

		_, err := c.Credentialed().Get(context.Background(), "/pets/my")

		var terr *petsdk.TransportError
		require.ErrorAs(t, err, &terr)
		require.True(t, terr.Timeout())
		require.Zero(t, reauth.n.Load())
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := petsdk.NewClient(url)
		_, err := c.Public().Get(context.Background(), "/pet-sitters/1")

		var terr *petsdk.TransportError
		require.ErrorAs(t, err, &terr)
		require.False(t, terr.Timeout())
	})
}

func TestLocalFailuresAreTransportErrors(t *testing.T) {
	t.Parallel()

	up, srv := newUpstream(t, http.StatusOK, `<html>maintenance</html>`)
	c := petsdk.NewClient(srv.URL)

	t.Run("unencodable body", func(t *testing.T) {
		_, err := c.Public().Post(context.Background(), "/members", map[string]any{"bad": make(chan int)})

		var terr *petsdk.TransportError
		require.ErrorAs(t, err, &terr)
		require.Equal(t, http.MethodPost, terr.Method)
	})

	t.Run("invalid method", func(t *testing.T) {
		_, err := c.Public().Do(context.Background(), "BAD METHOD", "/members", nil)

		var terr *petsdk.TransportError
		require.ErrorAs(t, err, &terr)
	})

	t.Run("malformed 2xx body", func(t *testing.T) {
		_, err := c.GetPetSitter(context.Background(), 1)

		var terr *petsdk.TransportError
		require.ErrorAs(t, err, &terr)
		require.ErrorIs(t, err, petsdk.ErrMalformedResponse)
		require.Equal(t, http.MethodGet, terr.Method)
		require.Contains(t, terr.URL, "/pet-sitters/1")
		require.False(t, terr.Timeout())
		require.NotNil(t, up.lastRequest())
	})
}

func TestRecorderSeesEveryExchange(t *testing.T) {
	t.Parallel()

	_, srv := newUpstream(t, http.StatusUnauthorized, `{}`)
	c := petsdk.NewClient(srv.URL)
	rec := &recorder{}
	c.Recorder = rec

	_, _ = c.Credentialed().Get(context.Background(), "/members")
	_, _ = c.Public().Put(context.Background(), "/auth/reset?email=a%40b.c", nil)

	require.Equal(t, []recorded{
		{petsdk.ChannelCredentialed, http.MethodGet, http.StatusUnauthorized},
		{petsdk.ChannelPublic, http.MethodPut, http.StatusUnauthorized},
	}, rec.got)
}

func TestSuccessPassesThrough(t *testing.T) {
	t.Parallel()

	_, srv := newUpstream(t, http.StatusCreated, `{"status":"success","message":"created","data":{"id":7}}`)
	c := petsdk.NewClient(srv.URL)

	resp, err := c.Public().Post(context.Background(), "/members", map[string]string{"username": "mina"})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "created", resp.Message())

	var out petsdk.SignupResponse
	require.NoError(t, resp.Decode(&out))
	require.EqualValues(t, 7, out.ID)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(resp.Body, &raw))
	require.Equal(t, "success", raw["status"])
}
