// Package tokenstore is the durable storage behind persisted bearer tokens.
//
// Each browser session owns a namespace; inside it the access token lives
// under the fixed key TokenKey. Drivers seal values at rest.
package tokenstore

import (
	"context"
	"errors"
	"time"
)

// TokenKey is the fixed storage key of the access token within a namespace.
const TokenKey = "accessToken"

// ErrNotFound is returned when no live value exists for a key.
var ErrNotFound = errors.New("tokenstore: not found")

// Store persists opaque token values.
type Store interface {
	// Get returns the value stored under key. Expired values read as ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key. A zero expiresAt keeps the value until Delete.
	Set(ctx context.Context, key, value string, expiresAt time.Time) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases driver resources.
	Close() error
}

// Expirer is implemented by drivers that need explicit cleanup of expired
// entries. Redis expires keys itself and does not implement it.
type Expirer interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Pinger is implemented by drivers backed by a remote or on-disk database.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Key returns the access-token key within namespace.
func Key(namespace string) string {
	return namespace + "/" + TokenKey
}
