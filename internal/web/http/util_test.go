package http_test

import (
	"net/url"
	"testing"

	"github.com/aussiebroadwan/petsit/internal/web/session"
	"github.com/aussiebroadwan/petsit/pkg/idx"
	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func sessionID(t *testing.T, f *frontend) idx.ID {
	t.Helper()
	for _, c := range f.browser.Jar.Cookies(mustURL(t, f.server.URL)) {
		if c.Name == session.CookieName {
			id, err := idx.Parse(c.Value)
			require.NoError(t, err)
			return id
		}
	}
	t.Fatal("no session cookie")
	return idx.Zero
}

// counterValue reads an unlabelled counter from the frontend registry.
func counterValue(t *testing.T, f *frontend, name string) float64 {
	t.Helper()

	families, err := f.gatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			require.Len(t, mf.GetMetric(), 1)
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not registered", name)
	return 0
}
