package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/petsit/pkg/httpx"
	"github.com/aussiebroadwan/petsit/pkg/petsdk"
)

// APIHandler relays JSON calls from the browser to the marketplace API.
// It adds no business rules; the API decides what is allowed.
type APIHandler struct {
	Client *petsdk.Client
}

// StatusResponse acknowledges calls whose API response carries no data.
type StatusResponse struct {
	Status string `json:"status"`
}

var statusOK = StatusResponse{Status: "ok"}

// respond writes v with status, or the upstream failure.
func respond[T any](w http.ResponseWriter, r *http.Request, status int, v T, err error) {
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	httpx.WriteJSON(w, status, v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON in request body")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid "+name)
		return 0, false
	}
	return id, true
}
