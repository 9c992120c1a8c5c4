/*
Package petsdk is the transport client for the pet-sitter marketplace API.

# Channels

Every request goes out on one of two logical channels:

  - Public: never carries a credential (signup, login, password reset,
    public pet sitter profiles).
  - Credentialed: before transmission the request interceptor asks the
    client's TokenSource for the persisted bearer token and, when one
    exists, sets "Authorization: Bearer <token>". Without a token the
    request is sent unmodified.

Both channels expose the same verbs:

	client := petsdk.NewClient("http://localhost:8080/api/v1")
	client.Tokens = tokenSource

	resp, err := client.Credentialed().Get(ctx, "/pets/my")
	resp, err = client.Public().Post(ctx, "/auth", petsdk.LoginRequest{...})

Base URL and timeout are fixed once the client is configured. Nothing is
retried or cached.

# Response interceptor

Every response on both channels passes through one interceptor:

  - 2xx responses are returned unchanged as *Response.
  - 401 responses invoke the client's Reauthenticator exactly once and
    then fail with *APIError. The hook is the only side effect; the call
    is never retried.
  - Other non-2xx responses fail with *APIError holding the server's
    envelope ({status, message, data}) when the body has one, or the raw
    body and status text otherwise.
  - Requests that never got a response (timeout, connection refused,
    cancelled context) fail with *TransportError.

Callers therefore see exactly two error shapes and decide themselves what
to show the user:

	pets, err := client.MyPets(ctx)
	if apiErr, ok := petsdk.AsAPIError(err); ok && apiErr.StatusCode == http.StatusNotFound {
		// ...
	}

# Endpoint wrappers

Typed wrappers cover the API surface the frontend uses: members and
authentication (api_auth.go), common codes (api_admin.go), pets
(api_pets.go), pet sitters (api_petsitters.go) and bookings
(api_bookings.go). They decode the envelope's data field and never touch
session state; persisting the login token and updating the session is the
caller's job.
*/
package petsdk
