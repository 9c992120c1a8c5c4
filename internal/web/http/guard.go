package http

import (
	"net/http"

	"github.com/aussiebroadwan/petsit/internal/web/route"
	"github.com/aussiebroadwan/petsit/internal/web/session"
	"github.com/aussiebroadwan/petsit/pkg/httpx"
	"github.com/aussiebroadwan/petsit/pkg/slogx"
)

func snapshot(r *http.Request) session.State {
	if s, ok := session.FromContext(r.Context()); ok {
		return s.Snapshot()
	}
	return session.State{}
}

// guard applies the route guard to a page navigation.
func (r *Router) guard(d route.Descriptor) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			dec := route.Evaluate(d, snapshot(req), req.URL.RequestURI())
			if r.Metrics != nil {
				r.Metrics.RecordGuardDecision(d.Path, dec.Outcome)
			}

			if dec.Outcome != route.Allow {
				slogx.FromContext(req.Context()).Info("navigation redirected",
					"route", d.Path,
					"outcome", dec.Outcome.String(),
					"location", dec.Location,
				)
				httpx.NoCache(w)
				http.Redirect(w, req, dec.Location, http.StatusFound)
				return
			}

			next.ServeHTTP(w, req)
		})
	}
}

// requireSession guards JSON endpoints with the same rules as pages,
// answering with 401 or 403 bodies instead of redirects.
func (r *Router) requireSession(admin bool) httpx.Middleware {
	d := route.Descriptor{RequiresAuth: true, RequiresAdmin: admin}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			switch route.Evaluate(d, snapshot(req), "").Outcome {
			case route.RedirectLogin:
				writeLoginRedirect(w, req, "Authentication required")
			case route.RedirectHome:
				httpx.WriteJSON(w, http.StatusForbidden, httpx.ErrorResponse{
					Error:    "forbidden",
					Message:  "Admin role required",
					Redirect: route.HomePath,
				})
			default:
				next.ServeHTTP(w, req)
			}
		})
	}
}
