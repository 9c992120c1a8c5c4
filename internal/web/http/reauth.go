package http

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/aussiebroadwan/petsit/internal/web/route"
	"github.com/aussiebroadwan/petsit/internal/web/session"
	"github.com/aussiebroadwan/petsit/pkg/httpx"
	"github.com/aussiebroadwan/petsit/pkg/slogx"
)

// Reauthenticator is the force-reauthenticate hook handed to the API
// client. It only flags the request; the handler that made the call
// clears the session once the call has returned and answers with a login
// redirect.
type Reauthenticator struct {
	// OnReauth, when set, is called once per fired hook.
	OnReauth func()
}

// ForceReauthenticate implements petsdk.Reauthenticator.
func (ra *Reauthenticator) ForceReauthenticate(ctx context.Context) {
	if sig, ok := ctx.Value(reauthKey{}).(*reauthSignal); ok {
		sig.fired.Store(true)
	}
	if ra.OnReauth != nil {
		ra.OnReauth()
	}

	slogx.FromContext(ctx).Info("reauthentication required")
}

// signOut clears the browser session after the API rejected its token.
func signOut(ctx context.Context) {
	s, ok := session.FromContext(ctx)
	if !ok {
		return
	}
	if err := s.ClearAuthenticated(ctx); err != nil {
		slogx.FromContext(ctx).Error("failed to clear session after 401", "error", err)
	}
}

type reauthKey struct{}

type reauthSignal struct {
	fired atomic.Bool
}

// reauthMiddleware gives every request a fresh reauthentication signal.
func reauthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), reauthKey{}, &reauthSignal{})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func reauthFired(ctx context.Context) bool {
	sig, ok := ctx.Value(reauthKey{}).(*reauthSignal)
	return ok && sig.fired.Load()
}

// writeLoginRedirect sends the browser to the login page: a 303 for page
// navigations, a 401 carrying the target for script requests.
func writeLoginRedirect(w http.ResponseWriter, r *http.Request, message string) {
	if httpx.WantsJSON(r) {
		httpx.WriteJSON(w, http.StatusUnauthorized, httpx.ErrorResponse{
			Error:    "unauthorized",
			Message:  message,
			Redirect: route.LoginPath,
		})
		return
	}
	httpx.NoCache(w)
	http.Redirect(w, r, route.LoginPath, http.StatusSeeOther)
}
