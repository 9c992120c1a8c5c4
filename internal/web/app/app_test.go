package app

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/petsit/pkg/tokenstore"
	"github.com/aussiebroadwan/petsit/pkg/tokenstore/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		APIBaseURL:          "http://127.0.0.1:1/api/v1",
		APITimeout:          time.Second,
		Env:                 "test",
		LogLevel:            "error",
		LogFormat:           "text",
		Port:                0,
		ShutdownGracePeriod: time.Second,
		SessionIdleTTL:      time.Hour,
		TokenStore:          TokenStoreMemory,
	}
}

func TestNewServesSystemEndpoints(t *testing.T) {
	t.Parallel()

	app, err := New(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, app.Shutdown()) })

	_, ok := app.tokens.(*tokenstore.Memory)
	require.True(t, ok)

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/livez")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "go_goroutines")
	require.Contains(t, string(body), "petsit_sessions 0")
}

func TestNewWithSQLiteTokenStore(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.TokenStore = TokenStoreSQLite
	cfg.TokenDatabaseFile = filepath.Join(t.TempDir(), "tokens.db")

	app, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, app.Shutdown()) })

	_, ok := app.tokens.(*sqlite.Store)
	require.True(t, ok)

	_, err = os.Stat(cfg.TokenDatabaseFile)
	require.NoError(t, err)
}

func TestNewRejectsBadConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.TokenStore = "etcd"
	_, err := New(cfg)
	require.ErrorContains(t, err, "unknown token store")

	cfg = testConfig(t)
	cfg.RoutesFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = New(cfg)
	require.ErrorContains(t, err, "failed to load route table")
}
