package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	webhttp "github.com/aussiebroadwan/petsit/internal/web/http"
	"github.com/aussiebroadwan/petsit/internal/web/metrics"
	"github.com/aussiebroadwan/petsit/internal/web/route"
	"github.com/aussiebroadwan/petsit/internal/web/session"
	"github.com/aussiebroadwan/petsit/pkg/petsdk"
	"github.com/aussiebroadwan/petsit/pkg/tokenstore"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Fake marketplace API
// ============================================================================

type fakeAPI struct {
	t      *testing.T
	server *httptest.Server

	token        string
	role         string
	revoked      atomic.Bool
	logoutStatus atomic.Int32

	mu    sync.Mutex
	calls []string
}

func envelope(w http.ResponseWriter, status int, state, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": state, "message": message, "data": data})
}

func newFakeAPI(t *testing.T, role string) *fakeAPI {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	api := &fakeAPI{t: t, token: token, role: role}
	api.logoutStatus.Store(http.StatusOK)

	mux := http.NewServeMux()

	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if api.revoked.Load() || r.Header.Get("Authorization") != "Bearer "+api.token {
				envelope(w, http.StatusUnauthorized, "error", "invalid token", nil)
				return
			}
			h(w, r)
		}
	}

	mux.HandleFunc("POST /auth", func(w http.ResponseWriter, r *http.Request) {
		var req petsdk.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Username != "mina" || req.Password != "pw" {
			envelope(w, http.StatusUnauthorized, "error", "bad credentials", nil)
			return
		}
		envelope(w, http.StatusOK, "success", "ok", petsdk.LoginResponse{
			AccessToken: api.token, MemberID: 42, Username: "mina", Role: api.role,
		})
	})
	mux.HandleFunc("GET /members", authed(func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, "success", "ok", petsdk.Profile{
			ID: 42, Username: "mina", Email: "mina@example.com", Role: api.role,
		})
	}))
	mux.HandleFunc("GET /auth/check", authed(func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, "success", "ok", petsdk.AuthCheck{MemberID: 42, Username: "mina", Role: api.role})
	}))
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		status := int(api.logoutStatus.Load())
		envelope(w, status, "success", "bye", nil)
	})
	mux.HandleFunc("GET /pets/my", authed(func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, "success", "ok", []petsdk.Pet{{ID: 1, Name: "Bori", Species: "dog"}})
	}))
	mux.HandleFunc("GET /pet-sitters", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, "success", "ok", []petsdk.PetSitter{{ID: 3, Name: "Jun"}})
	})
	mux.HandleFunc("GET /code-group", authed(func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, "success", "ok", []petsdk.CodeGroup{{ID: "PET", Name: "Pet type", Use: true}})
	}))
	mux.HandleFunc("POST /code-group", authed(func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusBadRequest, "error", "duplicate code group", map[string]string{"codeGroupId": "PET"})
	}))

	api.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.calls = append(api.calls, r.Method+" "+r.URL.Path)
		api.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(api.server.Close)

	return api
}

func (api *fakeAPI) callCount() int {
	api.mu.Lock()
	defer api.mu.Unlock()
	return len(api.calls)
}

// ============================================================================
// Frontend under test
// ============================================================================

type frontend struct {
	t        *testing.T
	server   *httptest.Server
	browser  *http.Client
	tokens   *tokenstore.Memory
	sessions *session.Registry
	gatherer *prometheus.Registry
}

func newFrontend(t *testing.T, apiURL string, tokens *tokenstore.Memory) *frontend {
	t.Helper()

	if tokens == nil {
		tokens = tokenstore.NewMemory()
	}

	table, err := route.Default()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := session.NewRegistry(tokens, time.Hour)

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg, sessions.Len)

	client := petsdk.NewClient(apiURL)
	client.HTTPClient.Timeout = 2 * time.Second
	client.Tokens = sessions
	client.Recorder = collector
	client.Reauth = &webhttp.Reauthenticator{OnReauth: collector.RecordReauthentication}

	router := webhttp.NewRouter(table, sessions, client, "test", logger)
	router.Metrics = collector
	router.Gatherer = reg
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &frontend{
		t:        t,
		server:   srv,
		browser:  newBrowser(t),
		tokens:   tokens,
		sessions: sessions,
		gatherer: reg,
	}
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

type result struct {
	status int
	header http.Header
	body   []byte
}

func (r result) json(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(r.body, &out), string(r.body))
	return out
}

func (f *frontend) do(method, path string, body any, accept string) result {
	f.t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(f.t, err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(f.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := f.browser.Do(req)
	require.NoError(f.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(f.t, err)
	return result{status: resp.StatusCode, header: resp.Header, body: data}
}

func (f *frontend) page(path string) result {
	return f.do(http.MethodGet, path, nil, "text/html,application/xhtml+xml")
}

func (f *frontend) api(method, path string, body any) result {
	return f.do(method, path, body, "application/json")
}

func (f *frontend) login(t *testing.T, password string) result {
	t.Helper()
	return f.api(http.MethodPost, "/api/session", webhttp.LoginRequest{Username: "mina", Password: password, Redirect: "/mypage"})
}

func (f *frontend) sessionState(t *testing.T) map[string]any {
	t.Helper()
	res := f.api(http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, res.status)
	return res.json(t)["session"].(map[string]any)
}

// pageState extracts the JSON state embedded in a rendered page shell.
func pageState(t *testing.T, body []byte) map[string]any {
	t.Helper()

	html := string(body)
	const open = `<script type="application/json" id="petsit-state">`
	start := strings.Index(html, open)
	require.NotEqual(t, -1, start, html)
	rest := html[start+len(open):]
	end := strings.Index(rest, "</script>")
	require.NotEqual(t, -1, end)

	var state map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(rest[:end])), &state))
	return state
}
