// Package route holds the static page route table and the guard that
// decides whether a navigation may proceed.
package route

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// LoginPath is where unauthenticated navigations are sent.
	LoginPath = "/login"

	// HomePath is where non-admins are sent from admin routes.
	HomePath = "/"

	// RedirectParam carries the intended path through the login page.
	RedirectParam = "redirect"
)

//go:embed routes.yaml
var defaultRoutes []byte

var ErrInvalidTable = errors.New("route: invalid route table")

// reserved paths belong to the JSON API and system endpoints.
var reserved = []string{"/api", "/swagger", "/assets", "/metrics", "/livez", "/readyz"}

func isReserved(path string) bool {
	for _, p := range reserved {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Prefetch names the initial data a page embeds before rendering.
type Prefetch string

const (
	PrefetchNone       Prefetch = ""
	PrefetchProfile    Prefetch = "profile"
	PrefetchPets       Prefetch = "pets"
	PrefetchBookings   Prefetch = "bookings"
	PrefetchCodeGroups Prefetch = "code-groups"
)

func (p Prefetch) valid() bool {
	switch p {
	case PrefetchNone, PrefetchProfile, PrefetchPets, PrefetchBookings, PrefetchCodeGroups:
		return true
	}
	return false
}

// Descriptor is one page route. Exactly one of View or Redirect is set.
type Descriptor struct {
	Path          string   `yaml:"path"`
	Name          string   `yaml:"name,omitempty"`
	View          string   `yaml:"view,omitempty"`
	Redirect      string   `yaml:"redirect,omitempty"`
	RequiresAuth  bool     `yaml:"requiresAuth,omitempty"`
	RequiresAdmin bool     `yaml:"requiresAdmin,omitempty"`
	Prefetch      Prefetch `yaml:"prefetch,omitempty"`
}

// Table is the immutable set of page routes.
type Table struct {
	routes []Descriptor
	byPath map[string]int
}

type tableFile struct {
	Routes []Descriptor `yaml:"routes"`
}

// Default returns the built-in route table.
func Default() (*Table, error) {
	return Parse(defaultRoutes)
}

// Load reads a route table from a YAML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read route table: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML route table.
func Parse(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	if len(f.Routes) == 0 {
		return nil, fmt.Errorf("%w: no routes", ErrInvalidTable)
	}

	t := &Table{
		routes: f.Routes,
		byPath: make(map[string]int, len(f.Routes)),
	}
	for i, d := range f.Routes {
		if !strings.HasPrefix(d.Path, "/") {
			return nil, fmt.Errorf("%w: path %q must start with /", ErrInvalidTable, d.Path)
		}
		if strings.ContainsAny(d.Path, "{}? #") || isReserved(d.Path) {
			return nil, fmt.Errorf("%w: path %q is not a plain page path", ErrInvalidTable, d.Path)
		}
		if _, dup := t.byPath[d.Path]; dup {
			return nil, fmt.Errorf("%w: duplicate path %q", ErrInvalidTable, d.Path)
		}
		if (d.View == "") == (d.Redirect == "") {
			return nil, fmt.Errorf("%w: %q needs exactly one of view or redirect", ErrInvalidTable, d.Path)
		}
		if d.Redirect != "" && !strings.HasPrefix(d.Redirect, "/") {
			return nil, fmt.Errorf("%w: redirect %q of %q must be a local path", ErrInvalidTable, d.Redirect, d.Path)
		}
		if !d.Prefetch.valid() {
			return nil, fmt.Errorf("%w: %q has unknown prefetch %q", ErrInvalidTable, d.Path, d.Prefetch)
		}
		t.byPath[d.Path] = i
	}

	for _, d := range t.routes {
		if d.Redirect == "" {
			continue
		}
		if _, ok := t.byPath[d.Redirect]; !ok {
			return nil, fmt.Errorf("%w: %q redirects to unknown path %q", ErrInvalidTable, d.Path, d.Redirect)
		}
	}

	return t, nil
}

// Routes returns the descriptors in table order.
func (t *Table) Routes() []Descriptor {
	out := make([]Descriptor, len(t.routes))
	copy(out, t.routes)
	return out
}

// Lookup finds the descriptor registered for path.
func (t *Table) Lookup(path string) (Descriptor, bool) {
	i, ok := t.byPath[path]
	if !ok {
		return Descriptor{}, false
	}
	return t.routes[i], true
}
