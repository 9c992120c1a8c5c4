package petsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is a successful (2xx) raw transport response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte

	method string
	url    string
}

// Envelope is the API's BaseResponse wrapper.
type Envelope[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Decode unmarshals the envelope's data field into target.
// An empty body leaves target untouched. A body that does not decode is
// reported as a *TransportError with ErrMalformedResponse.
func (r *Response) Decode(target any) error {
	if len(r.Body) == 0 {
		return nil
	}

	env := Envelope[json.RawMessage]{}
	if err := json.Unmarshal(r.Body, &env); err != nil {
		return r.malformed(err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		return r.malformed(err)
	}
	return nil
}

func (r *Response) malformed(err error) error {
	return &TransportError{Method: r.method, URL: r.url, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
}

// Message returns the envelope message, if any.
func (r *Response) Message() string {
	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(r.Body, &env); err != nil {
		return ""
	}
	return env.Message
}

// call sends one request and decodes the envelope data into T.
func call[T any](ctx context.Context, ch *Channel, method, path string, body any) (T, error) {
	var out T

	resp, err := ch.Do(ctx, method, path, body)
	if err != nil {
		return out, err
	}
	if err := resp.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// send is call for endpoints whose data the caller does not need.
func send(ctx context.Context, ch *Channel, method, path string, body any) error {
	_, err := ch.Do(ctx, method, path, body)
	return err
}
