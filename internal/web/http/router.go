package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/petsit/internal/web/metrics"
	"github.com/aussiebroadwan/petsit/internal/web/route"
	"github.com/aussiebroadwan/petsit/internal/web/session"
	"github.com/aussiebroadwan/petsit/pkg/httpx"
	"github.com/aussiebroadwan/petsit/pkg/petsdk"
	"github.com/aussiebroadwan/petsit/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/aussiebroadwan/petsit/api/web" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:generate swag init -g router.go --parseDependency --parseInternal --outputTypes go -o ../../../api/web

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	routes       *route.Table
	sessions     *session.Registry
	client       *petsdk.Client
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	// Metrics and Gatherer are optional; /metrics is only served when
	// Gatherer is set.
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	// AssetsDir, when set, is served under /assets/.
	AssetsDir string
}

func NewRouter(
	routes *route.Table,
	sessions *session.Registry,
	client *petsdk.Client,
	buildVersion string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		routes:       routes,
		sessions:     sessions,
		client:       client,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		reauthMiddleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerPages()
	r.registerSession()
	r.registerMembers()
	r.registerMarketplace()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Petsit Web Frontend API
//	@version		0.1.0
//	@description	Browser-facing JSON API of the pet-sitter marketplace frontend.
//	@description
//	@description	The frontend keeps one session per browser (cookie petsit_sid), stores the API token for it,
//	@description	and relays calls to the marketplace API. A 401 from the API clears the session and answers
//	@description	with {"error":"unauthorized","redirect":"/login"}.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/petsit
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:3000
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// browser wraps h with the browser session middleware followed by mws.
func (r *Router) browser(h http.Handler, mws ...httpx.Middleware) http.Handler {
	return httpx.Chain(h, append([]httpx.Middleware{r.sessions.Middleware()}, mws...)...)
}

func (r *Router) registerPages() {
	for _, d := range r.routes.Routes() {
		pattern := "GET " + d.Path
		if d.Path == route.HomePath {
			pattern = "GET /{$}"
		}

		if d.Redirect != "" {
			r.Mux.Handle(pattern, http.RedirectHandler(d.Redirect, http.StatusFound))
			continue
		}

		// Pages - lenient rate limit, guard runs after the session is resolved
		r.Mux.Handle(pattern, r.browser(r.pageHandler(d),
			httpx.RateLimitByIP(httpx.LenientLimit),
			r.guard(d),
		))
	}

	if r.AssetsDir != "" {
		r.Mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(r.AssetsDir))))
	}
}

func (r *Router) registerSession() {
	h := &SessionHandler{Client: r.client}

	// POST /api/session - strict rate limit by IP (credential submission)
	r.Mux.Handle("POST /api/session", r.browser(http.HandlerFunc(h.HandleLogin),
		httpx.RateLimitByIP(httpx.StrictLimit),
	))
	r.Mux.Handle("GET /api/session", r.browser(http.HandlerFunc(h.HandleGet)))
	r.Mux.Handle("POST /api/session/refresh", r.browser(http.HandlerFunc(h.HandleRefresh),
		httpx.RateLimitByIP(httpx.LenientLimit),
	))
	r.Mux.Handle("DELETE /api/session", r.browser(http.HandlerFunc(h.HandleLogout)))
}

func (r *Router) registerMembers() {
	h := &APIHandler{Client: r.client}
	signedIn := r.requireSession(false)

	// Public account endpoints - strict rate limit by IP
	r.Mux.Handle("POST /api/members", r.browser(http.HandlerFunc(h.HandleSignup),
		httpx.RateLimitByIP(httpx.StrictLimit),
	))
	r.Mux.Handle("PUT /api/auth/reset", r.browser(http.HandlerFunc(h.HandleResetPassword),
		httpx.RateLimitByIP(httpx.StrictLimit),
	))

	r.Mux.Handle("GET /api/members/me", r.browser(http.HandlerFunc(h.HandleGetProfile), signedIn))
	r.Mux.Handle("PATCH /api/members/me", r.browser(http.HandlerFunc(h.HandleUpdateProfile), signedIn))
	r.Mux.Handle("DELETE /api/members/me", r.browser(http.HandlerFunc(h.HandleWithdraw), signedIn))
	r.Mux.Handle("PUT /api/members/me/password", r.browser(http.HandlerFunc(h.HandleChangePassword),
		signedIn,
		httpx.RateLimitByIP(httpx.StrictLimit),
	))
}

func (r *Router) registerMarketplace() {
	h := &APIHandler{Client: r.client}
	signedIn := r.requireSession(false)
	lenient := httpx.RateLimitByIP(httpx.LenientLimit)

	r.Mux.Handle("GET /api/pets", r.browser(http.HandlerFunc(h.HandleMyPets), signedIn))
	r.Mux.Handle("GET /api/pets/{id}", r.browser(http.HandlerFunc(h.HandleMyPet), signedIn))

	// Pet sitter browsing is open; the API decides what a guest may see
	r.Mux.Handle("GET /api/pet-sitters", r.browser(http.HandlerFunc(h.HandleListPetSitters), lenient))
	r.Mux.Handle("GET /api/pet-sitters/{id}", r.browser(http.HandlerFunc(h.HandleGetPetSitter), lenient))
	r.Mux.Handle("POST /api/pet-sitters", r.browser(http.HandlerFunc(h.HandleRegisterPetSitter), signedIn))
	r.Mux.Handle("DELETE /api/pet-sitters/{id}", r.browser(http.HandlerFunc(h.HandleDeletePetSitter), signedIn))

	r.Mux.Handle("GET /api/bookings", r.browser(http.HandlerFunc(h.HandleMyBookings), signedIn))
	r.Mux.Handle("GET /api/bookings/{id}", r.browser(http.HandlerFunc(h.HandleGetBooking), signedIn))
	r.Mux.Handle("POST /api/bookings", r.browser(http.HandlerFunc(h.HandleCreateBooking), signedIn))
	r.Mux.Handle("POST /api/bookings/{id}/cancel", r.browser(http.HandlerFunc(h.HandleCancelBooking), signedIn))
}

func (r *Router) registerAdmin() {
	h := &APIHandler{Client: r.client}
	admin := r.requireSession(true)

	r.Mux.Handle("GET /api/code-groups", r.browser(http.HandlerFunc(h.HandleListCodeGroups), admin))
	r.Mux.Handle("POST /api/code-groups", r.browser(http.HandlerFunc(h.HandleCreateCodeGroup), admin))
	r.Mux.Handle("PATCH /api/code-groups/{id}", r.browser(http.HandlerFunc(h.HandleUpdateCodeGroup), admin))
	r.Mux.Handle("DELETE /api/code-groups/{id}", r.browser(http.HandlerFunc(h.HandleDeleteCodeGroup), admin))
	r.Mux.Handle("GET /api/code-groups/{id}/details", r.browser(http.HandlerFunc(h.HandleListCodeDetails), admin))

	r.Mux.Handle("GET /api/code-details/{id}", r.browser(http.HandlerFunc(h.HandleGetCodeDetail), admin))
	r.Mux.Handle("POST /api/code-details", r.browser(http.HandlerFunc(h.HandleCreateCodeDetail), admin))
	r.Mux.Handle("PATCH /api/code-details/{id}", r.browser(http.HandlerFunc(h.HandleUpdateCodeDetail), admin))
	r.Mux.Handle("DELETE /api/code-details/{id}", r.browser(http.HandlerFunc(h.HandleDeleteCodeDetail), admin))
}

func (r *Router) registerSystem() {
	// Health check - lenient rate limit (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion, r.sessions.Len),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.sessions.Tokens),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	if r.Gatherer != nil {
		r.Mux.Handle("GET /metrics", metrics.Handler(r.Gatherer))
	}
}
