package petsdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// APIError is the single error shape for any non-2xx API response.
// Status, Message and Data come from the server envelope when the body
// carried one; Body always holds the raw payload.
type APIError struct {
	StatusCode int             `json:"-"`
	Status     string          `json:"status,omitempty"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data,omitempty"`
	Body       []byte          `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("petsdk: HTTP %d: %s", e.StatusCode, e.Message)
}

// Unauthorized reports a 401, which has already triggered reauthentication.
func (e *APIError) Unauthorized() bool { return e.StatusCode == http.StatusUnauthorized }

// Structured reports whether the server sent an envelope (rather than an
// empty or foreign body).
func (e *APIError) Structured() bool { return e.Status != "" }

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: body}

	var env struct {
		Status  string          `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && (env.Status != "" || env.Message != "") {
		apiErr.Status = env.Status
		apiErr.Message = env.Message
		if len(env.Data) > 0 && string(env.Data) != "null" {
			apiErr.Data = env.Data
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// ErrMalformedResponse marks a 2xx response whose body is not a valid envelope.
var ErrMalformedResponse = errors.New("malformed response body")

// TransportError reports a request that produced no usable response:
// timeout, refused connection, cancelled context, unreadable token store,
// a request that could not be built, or a 2xx body that does not decode.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("petsdk: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the request hit the client timeout or a context deadline.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// AsAPIError unwraps err to an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// IsUnauthorized reports whether err is a 401 APIError.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Unauthorized()
}
