package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/petsit/pkg/httpx"
)

// HealthResponse is the body of GET /livez.
type HealthResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Version  string `json:"version"`
	Sessions int    `json:"sessions"`
}

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness check returning status, uptime, version and the number of live browser sessions.
//	@Description	This endpoint always returns 200 OK if the frontend is running; it does not contact the API.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	HealthResponse	"status, uptime, version, sessions"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string, sessions func() int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:   "ok",
			Uptime:   time.Since(startTime).String(),
			Version:  version,
			Sessions: sessions(),
		})
	}
}
