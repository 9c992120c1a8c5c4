package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/petsit/pkg/httpx"
	"github.com/aussiebroadwan/petsit/pkg/tokenstore"
)

// ReadyChecks reports the state of each dependency.
type ReadyChecks struct {
	TokenStore string `json:"tokenStore"`
}

// ReadyResponse is the body of GET /readyz.
type ReadyResponse struct {
	Status  string      `json:"status"`
	Uptime  string      `json:"uptime"`
	Version string      `json:"version"`
	Checks  ReadyChecks `json:"checks"`
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness check against the token store. Stores without a connection (memory) are always ready.
//	@Description	The marketplace API is not checked; its failures surface per request.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	ReadyResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	ReadyResponse	"status, uptime, version, checks - not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, tokens tokenstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := ReadyChecks{TokenStore: "ok"}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if p, ok := tokens.(tokenstore.Pinger); ok {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := p.Ping(ctx); err != nil {
				checks.TokenStore = "error: " + err.Error()
				overallStatus = "degraded"
				statusCode = http.StatusServiceUnavailable
			}
		}

		httpx.WriteJSON(w, statusCode, ReadyResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
