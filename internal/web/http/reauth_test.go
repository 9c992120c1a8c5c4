package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/petsit/internal/web/session"
	"github.com/aussiebroadwan/petsit/pkg/idx"
	"github.com/aussiebroadwan/petsit/pkg/petsdk"
	"github.com/aussiebroadwan/petsit/pkg/tokenstore"
	"github.com/stretchr/testify/require"
)

func signedInStore(t *testing.T) *session.Store {
	t.Helper()

	s := session.NewStore(tokenstore.NewMemory(), idx.New().String())
	require.NoError(t, s.PersistToken(context.Background(), "tok-42", time.Time{}))
	require.NoError(t, s.SetAuthenticated(42, "mina", false))
	return s
}

func rejectingAPI(t *testing.T) *petsdk.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","message":"token expired","data":null}`))
	}))
	t.Cleanup(srv.Close)

	return petsdk.NewClient(srv.URL)
}

func TestReauthHookOnlyFlagsTheRequest(t *testing.T) {
	t.Parallel()

	s := signedInStore(t)
	client := rejectingAPI(t)
	fired := 0
	client.Reauth = &Reauthenticator{OnReauth: func() { fired++ }}

	var (
		afterCall      session.State
		tokenAfterCall string
		flagged        bool
	)
	h := reauthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := client.Public().Get(r.Context(), "/pet-sitters/1")
		require.True(t, petsdk.IsUnauthorized(err))

		afterCall = s.Snapshot()
		tokenAfterCall, _ = s.Token(r.Context())
		flagged = reauthFired(r.Context())

		writeUpstreamError(w, r, err)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/pet-sitters/1", nil)
	req = req.WithContext(session.WithSession(req.Context(), idx.New(), s))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	// The call itself left the session alone.
	require.True(t, afterCall.IsAuthenticated)
	require.Equal(t, "tok-42", tokenAfterCall)
	require.True(t, flagged)
	require.Equal(t, 1, fired)

	// The handler cleared it on its way out.
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, session.State{}, s.Snapshot())
	token, err := s.Token(context.Background())
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestReauthHookWithoutRequestSignal(t *testing.T) {
	t.Parallel()

	s := signedInStore(t)
	client := rejectingAPI(t)
	client.Reauth = &Reauthenticator{}

	ctx := session.WithSession(context.Background(), idx.New(), s)
	_, err := client.Credentialed().Get(ctx, "/members")
	require.True(t, petsdk.IsUnauthorized(err))

	require.True(t, s.Snapshot().IsAuthenticated)
	require.False(t, reauthFired(ctx))
}
