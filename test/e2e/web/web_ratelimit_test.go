package web_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/aussiebroadwan/petsit/pkg/httpx"
	"github.com/stretchr/testify/require"
)

// TestRateLimitLoginEndpoint verifies that credential submission is rate
// limited per client IP.
func TestRateLimitLoginEndpoint(t *testing.T) {
	original := httpx.StrictLimit
	httpx.StrictLimit = httpx.RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute, Burst: 3}
	t.Cleanup(func() { httpx.StrictLimit = original })

	apiURL := startMarketplaceAPI(t)
	baseURL, _ := startFrontend(t, frontendConfig(apiURL, t.TempDir()))
	b := newBrowser(t)

	for i := range 3 {
		status, _ := b.login(baseURL, "wrong")
		require.Equal(t, http.StatusUnauthorized, status, "request %d should reach the API", i+1)
	}

	status, body := b.login(baseURL, memberPassword)
	require.Equal(t, http.StatusTooManyRequests, status)
	require.Equal(t, "rate_limit_exceeded", body["error"])

	// Reads are on the lenient limiter and unaffected.
	status, _ = b.api(http.MethodGet, baseURL+"/api/session", nil)
	require.Equal(t, http.StatusOK, status)
}

// TestLivezEndpoint verifies the liveness endpoint on a fully wired frontend.
func TestLivezEndpoint(t *testing.T) {
	apiURL := startMarketplaceAPI(t)
	baseURL, _ := startFrontend(t, frontendConfig(apiURL, t.TempDir()))

	status, body := newBrowser(t).api(http.MethodGet, baseURL+"/livez", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", body["status"])
}
