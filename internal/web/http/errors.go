package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/petsit/pkg/httpx"
	"github.com/aussiebroadwan/petsit/pkg/petsdk"
	"github.com/aussiebroadwan/petsit/pkg/slogx"
)

// upstreamFailure maps an API client error to a status, code and message.
func upstreamFailure(err error) (int, string, string) {
	if apiErr, ok := petsdk.AsAPIError(err); ok {
		return apiErr.StatusCode, "upstream_error", apiErr.Message
	}

	var terr *petsdk.TransportError
	if errors.As(err, &terr) {
		if errors.Is(terr, petsdk.ErrMalformedResponse) {
			return http.StatusBadGateway, "upstream_invalid", "The API returned an unreadable response"
		}
		if terr.Timeout() {
			return http.StatusGatewayTimeout, "upstream_timeout", "The API did not respond in time"
		}
		return http.StatusBadGateway, "upstream_unavailable", "The API is unavailable"
	}

	return http.StatusInternalServerError, "internal_error", "Internal server error"
}

// writeUpstreamError turns an API client failure into a JSON response.
// A fired reauthentication wins over everything else: the session is
// cleared and the browser sent to login. Structured API errors are
// relayed as-is.
func writeUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	if reauthFired(r.Context()) {
		signOut(r.Context())
		msg := "Authentication required"
		if apiErr, ok := petsdk.AsAPIError(err); ok {
			msg = apiErr.Message
		}
		writeLoginRedirect(w, r, msg)
		return
	}

	if apiErr, ok := petsdk.AsAPIError(err); ok && apiErr.Structured() {
		writeAPIError(w, apiErr)
		return
	}

	status, code, msg := upstreamFailure(err)
	if status >= http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("upstream request failed", "status", status, "error", err)
	}
	httpx.WriteError(w, status, code, msg)
}

// writeAPIError relays the API's status and envelope.
func writeAPIError(w http.ResponseWriter, apiErr *petsdk.APIError) {
	data := apiErr.Data
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	httpx.WriteJSON(w, apiErr.StatusCode, petsdk.Envelope[json.RawMessage]{
		Status:  apiErr.Status,
		Message: apiErr.Message,
		Data:    data,
	})
}
