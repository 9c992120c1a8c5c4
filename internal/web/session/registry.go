package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/aussiebroadwan/petsit/pkg/httpx"
	"github.com/aussiebroadwan/petsit/pkg/idx"
	"github.com/aussiebroadwan/petsit/pkg/slogx"
	"github.com/aussiebroadwan/petsit/pkg/tokenstore"
)

// CookieName carries the browser session id.
const CookieName = "petsit_sid"

// DefaultIdleTTL is how long an untouched session is kept.
const DefaultIdleTTL = 24 * time.Hour

type entry struct {
	store    *Store
	lastSeen time.Time
}

// Registry owns one Store per browser session id.
type Registry struct {
	Tokens       tokenstore.Store
	IdleTTL      time.Duration
	CookieSecure bool

	// Now is replaceable in tests.
	Now func() time.Time

	mu       sync.Mutex
	sessions map[idx.ID]*entry
}

func NewRegistry(tokens tokenstore.Store, idleTTL time.Duration) *Registry {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Registry{
		Tokens:   tokens,
		IdleTTL:  idleTTL,
		Now:      time.Now,
		sessions: make(map[idx.ID]*entry),
	}
}

// Open returns the Store for id, registering a cleared one when the id is
// unknown, and marks the session as seen.
func (r *Registry) Open(id idx.ID) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		e = &entry{store: NewStore(r.Tokens, id.String())}
		r.sessions[id] = e
	}
	e.lastSeen = r.Now()
	return e.store
}

// touch returns the registered Store for id and marks it as seen.
func (r *Registry) touch(id idx.ID) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.Now()
	return e.store, true
}

// transient returns a cleared Store for id that is not registered. Its
// first successful write registers it and calls issue. If another request
// registered the same id meanwhile, the latest write wins.
func (r *Registry) transient(id idx.ID, issue func()) *Store {
	s := NewStore(r.Tokens, id.String())

	var once sync.Once
	s.onWrite = func() {
		once.Do(func() {
			r.mu.Lock()
			r.sessions[id] = &entry{store: s, lastSeen: r.Now()}
			r.mu.Unlock()

			if issue != nil {
				issue()
			}
		})
	}
	return s
}

// Lookup returns the Store for id without creating or touching it.
func (r *Registry) Lookup(id idx.ID) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	return e.store, true
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than IdleTTL and clears their
// persisted tokens. It returns the number of sessions dropped.
//
// Each token is deleted while its entry is still registered and under the
// registry lock, so a request for the same id either touches the entry
// first (and the session survives) or arrives after it is gone.
func (r *Registry) Sweep(ctx context.Context) int {
	cutoff := r.Now().Add(-r.IdleTTL)

	r.mu.Lock()
	var candidates []idx.ID
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			candidates = append(candidates, id)
		}
	}
	r.mu.Unlock()

	log := slogx.FromContext(ctx)
	dropped := 0
	for _, id := range candidates {
		r.mu.Lock()
		e, ok := r.sessions[id]
		if !ok || !e.lastSeen.Before(cutoff) {
			r.mu.Unlock()
			continue
		}
		if err := e.store.ClearAuthenticated(ctx); err != nil {
			log.Error("failed to clear idle session", "error", err)
		}
		delete(r.sessions, id)
		r.mu.Unlock()
		dropped++
	}
	return dropped
}

// Token implements petsdk.TokenSource for the session carried by ctx.
// Requests outside a browser session have no token.
func (r *Registry) Token(ctx context.Context) (string, error) {
	s, ok := FromContext(ctx)
	if !ok {
		return "", nil
	}
	return s.Token(ctx)
}

// Middleware resolves the browser session from the cookie and injects it
// into the request context. Requests without a registered session get a
// cleared, unregistered Store; it is registered, and a missing or
// malformed cookie replaced, only once the session is written to (login,
// refresh). Anonymous traffic therefore leaves no state behind.
func (r *Registry) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id, hasCookie := r.cookieID(req)
			if !hasCookie {
				id = idx.New()
			}

			s, ok := r.touch(id)
			if !ok {
				var issue func()
				if !hasCookie {
					issue = func() { http.SetCookie(w, r.cookie(id)) }
				}
				s = r.transient(id, issue)
			}

			ctx := WithSession(req.Context(), id, s)
			ctx = slogx.With(ctx, "sid", id.String())
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

func (r *Registry) cookieID(req *http.Request) (idx.ID, bool) {
	c, err := req.Cookie(CookieName)
	if err != nil {
		return idx.Zero, false
	}
	id, err := idx.Parse(c.Value)
	if err != nil {
		return idx.Zero, false
	}
	return id, true
}

func (r *Registry) cookie(id idx.ID) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    id.String(),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ============================================================================
// Context
// ============================================================================

type ctxKey struct{}

type handle struct {
	id    idx.ID
	store *Store
}

// WithSession attaches a browser session to ctx.
func WithSession(ctx context.Context, id idx.ID, s *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, handle{id: id, store: s})
}

// FromContext returns the session store of the current browser.
func FromContext(ctx context.Context) (*Store, bool) {
	h, ok := ctx.Value(ctxKey{}).(handle)
	if !ok || h.store == nil {
		return nil, false
	}
	return h.store, true
}

// IDFromContext returns the browser session id.
func IDFromContext(ctx context.Context) (idx.ID, bool) {
	h, ok := ctx.Value(ctxKey{}).(handle)
	if !ok {
		return idx.Zero, false
	}
	return h.id, true
}
