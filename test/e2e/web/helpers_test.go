package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/petsit/internal/web/app"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

/*
 * End-to-end helpers: a stand-in marketplace API, a fully wired frontend
 * application and a cookie-keeping browser.
 */

const (
	memberUsername = "mina"
	memberPassword = "S3cret!"
	sealKey        = "e2e-token-seal-key"
)

// startMarketplaceAPI starts a minimal marketplace API that knows one member.
func startMarketplaceAPI(t *testing.T) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("e2e"))
	require.NoError(t, err)

	reply := func(w http.ResponseWriter, status int, data any) {
		state := "success"
		if status >= 400 {
			state = "error"
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": state, "message": http.StatusText(status), "data": data})
	}
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+token {
				reply(w, http.StatusUnauthorized, nil)
				return
			}
			h(w, r)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Username, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Username != memberUsername || req.Password != memberPassword {
			reply(w, http.StatusUnauthorized, nil)
			return
		}
		reply(w, http.StatusOK, map[string]any{"accessToken": token, "memberId": 7, "username": memberUsername, "role": "USER"})
	})
	mux.HandleFunc("GET /api/v1/members", authed(func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{"id": 7, "username": memberUsername, "email": "mina@example.com", "role": "USER"})
	}))
	mux.HandleFunc("GET /api/v1/auth/check", authed(func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{"memberId": 7, "username": memberUsername, "role": "USER"})
	}))
	mux.HandleFunc("POST /api/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, nil)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL + "/api/v1"
}

// frontendConfig returns a config backed by a SQLite token store in dir.
func frontendConfig(apiURL, dir string) app.Config {
	return app.Config{
		APIBaseURL:           apiURL,
		APITimeout:           2 * time.Second,
		Env:                  "test",
		LogLevel:             "warn",
		LogFormat:            "json",
		ShutdownGracePeriod:  time.Second,
		SessionIdleTTL:       time.Hour,
		SessionSweepInterval: time.Minute,
		TokenStore:           app.TokenStoreSQLite,
		TokenDatabaseFile:    filepath.Join(dir, "tokens.db"),
		TokenSealKey:         sealKey,
	}
}

// startFrontend boots the application and returns its base URL and a stop func.
func startFrontend(t *testing.T, cfg app.Config) (string, func()) {
	t.Helper()

	application, err := app.New(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(application.Handler())
	stopped := false
	stop := func() {
		if stopped {
			return
		}
		stopped = true
		srv.Close()
		require.NoError(t, application.Shutdown())
	}
	t.Cleanup(stop)

	return srv.URL, stop
}

type browser struct {
	t      *testing.T
	client *http.Client
}

func newBrowser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, client: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

// call sends a request and returns the status, Location header and decoded JSON body (if any).
func (b *browser) call(method, url string, body any, accept string) (int, string, map[string]any) {
	b.t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(b.t, err)
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(b.t, err)
	req.Header.Set("Accept", accept)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()

	var out map[string]any
	if accept == "application/json" {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp.StatusCode, resp.Header.Get("Location"), out
}

func (b *browser) api(method, url string, body any) (int, map[string]any) {
	status, _, out := b.call(method, url, body, "application/json")
	return status, out
}

func (b *browser) navigate(url string) (int, string) {
	status, location, _ := b.call(http.MethodGet, url, nil, "text/html")
	return status, location
}

func (b *browser) login(baseURL, password string) (int, map[string]any) {
	return b.api(http.MethodPost, baseURL+"/api/session", map[string]string{
		"username": memberUsername,
		"password": password,
		"redirect": "/mypage",
	})
}

func authenticated(t *testing.T, body map[string]any) bool {
	t.Helper()
	session, ok := body["session"].(map[string]any)
	require.True(t, ok, "response has no session: %v", body)
	return session["isAuthenticated"] == true
}
