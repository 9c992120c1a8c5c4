// Package session holds the authentication state of each browser talking
// to the frontend and the registry that owns those states.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aussiebroadwan/petsit/pkg/tokenstore"
)

// ErrInvalidIdentity is returned by SetAuthenticated when the member id or
// username is missing.
var ErrInvalidIdentity = errors.New("session: member id and username are required")

// State is a point-in-time copy of a session. MemberID 0 and an empty
// Username are the null values; IsAuthenticated is false exactly when
// both are null.
type State struct {
	MemberID        int64
	Username        string
	IsAuthenticated bool
	IsAdmin         bool
}

type stateJSON struct {
	MemberID        *int64  `json:"memberId"`
	Username        *string `json:"username"`
	IsAuthenticated bool    `json:"isAuthenticated"`
	IsAdmin         bool    `json:"isAdmin"`
}

// MarshalJSON renders the null identity as JSON null.
func (s State) MarshalJSON() ([]byte, error) {
	out := stateJSON{IsAuthenticated: s.IsAuthenticated, IsAdmin: s.IsAdmin}
	if s.IsAuthenticated {
		out.MemberID = &s.MemberID
		out.Username = &s.Username
	}
	return json.Marshal(out)
}

// Store is the session store of one browser. It also fronts that
// browser's persisted token.
type Store struct {
	mu    sync.RWMutex
	state State

	tokens   tokenstore.Store
	tokenKey string

	// onWrite runs after SetAuthenticated or PersistToken succeeds. The
	// registry uses it to keep sessions that were handed out unregistered.
	onWrite func()
}

// NewStore returns a cleared session whose persisted token lives in tokens
// under namespace.
func NewStore(tokens tokenstore.Store, namespace string) *Store {
	return &Store{
		tokens:   tokens,
		tokenKey: tokenstore.Key(namespace),
	}
}

// SetAuthenticated marks the session signed in as memberID/username.
func (s *Store) SetAuthenticated(memberID int64, username string, isAdmin bool) error {
	if memberID == 0 || username == "" {
		return ErrInvalidIdentity
	}

	s.mu.Lock()
	s.state = State{
		MemberID:        memberID,
		Username:        username,
		IsAuthenticated: true,
		IsAdmin:         isAdmin,
	}
	s.mu.Unlock()

	s.written()
	return nil
}

// ClearAuthenticated resets the session and deletes the persisted token.
// Calling it on a cleared session is a no-op apart from the token delete.
func (s *Store) ClearAuthenticated(ctx context.Context) error {
	s.mu.Lock()
	s.state = State{}
	s.mu.Unlock()

	if err := s.tokens.Delete(ctx, s.tokenKey); err != nil {
		return fmt.Errorf("failed to delete persisted token: %w", err)
	}
	return nil
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// PersistToken stores the access token returned by login. A zero
// expiresAt keeps it until ClearAuthenticated.
func (s *Store) PersistToken(ctx context.Context, token string, expiresAt time.Time) error {
	if err := s.tokens.Set(ctx, s.tokenKey, token, expiresAt); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	s.written()
	return nil
}

func (s *Store) written() {
	if s.onWrite != nil {
		s.onWrite()
	}
}

// Token returns the persisted access token, or "" when none is stored.
func (s *Store) Token(ctx context.Context) (string, error) {
	token, err := s.tokens.Get(ctx, s.tokenKey)
	if errors.Is(err, tokenstore.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read persisted token: %w", err)
	}
	return token, nil
}
