package route_test

import (
	"testing"

	"github.com/aussiebroadwan/petsit/internal/web/route"
	"github.com/aussiebroadwan/petsit/internal/web/session"
	"github.com/stretchr/testify/require"
)

var (
	signedOut = session.State{}
	member    = session.State{MemberID: 1, Username: "mina", IsAuthenticated: true}
	admin     = session.State{MemberID: 2, Username: "root", IsAuthenticated: true, IsAdmin: true}
)

func TestEvaluateDecisionTable(t *testing.T) {
	t.Parallel()

	public := route.Descriptor{Path: "/shop", View: "Shop"}
	publicAdminFlag := route.Descriptor{Path: "/odd", View: "Odd", RequiresAdmin: true}
	authOnly := route.Descriptor{Path: "/mypage", View: "Mypage", RequiresAuth: true}
	adminOnly := route.Descriptor{Path: "/admin/code-groups", View: "AdminCodeGroups", RequiresAuth: true, RequiresAdmin: true}

	tests := []struct {
		name     string
		route    route.Descriptor
		state    session.State
		intended string
		want     route.Decision
	}{
		{"public signed out", public, signedOut, "/shop", route.Decision{Outcome: route.Allow}},
		{"public member", public, member, "/shop", route.Decision{Outcome: route.Allow}},
		{"admin flag without auth flag", publicAdminFlag, signedOut, "/odd", route.Decision{Outcome: route.Allow}},
		{"auth route signed out", authOnly, signedOut, "/mypage",
			route.Decision{Outcome: route.RedirectLogin, Location: "/login?redirect=/mypage"}},
		{"auth route member", authOnly, member, "/mypage", route.Decision{Outcome: route.Allow}},
		{"auth route admin", authOnly, admin, "/mypage", route.Decision{Outcome: route.Allow}},
		{"admin route member", adminOnly, member, "/admin/code-groups",
			route.Decision{Outcome: route.RedirectHome, Location: "/"}},
		{"admin route admin", adminOnly, admin, "/admin/code-groups", route.Decision{Outcome: route.Allow}},
		{"admin route signed out short-circuits", adminOnly, signedOut, "/admin/code-groups",
			route.Decision{Outcome: route.RedirectLogin, Location: "/login?redirect=/admin/code-groups"}},
		{"admin route signed out with stale admin flag", adminOnly, session.State{IsAdmin: true}, "/admin/code-groups",
			route.Decision{Outcome: route.RedirectLogin, Location: "/login?redirect=/admin/code-groups"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, route.Evaluate(tt.route, tt.state, tt.intended))
		})
	}
}

func TestLoginLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		intended string
		want     string
	}{
		{"/mypage", "/login?redirect=/mypage"},
		{"/admin/code-details", "/login?redirect=/admin/code-details"},
		{"/bookings?page=2&size=10", "/login?redirect=/bookings%3Fpage%3D2%26size%3D10"},
		{"", "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.intended, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, route.LoginLocation(tt.intended))
		})
	}
}

func TestSafeReturn(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                      "/",
		"/mypage":               "/mypage",
		"/bookings?page=2":      "/bookings?page=2",
		"//evil.example.com":    "/",
		"https://evil.example":  "/",
		"mypage":                "/",
		`/\evil.example.com`:    "/",
		"/admin/code-groups#x":  "/admin/code-groups#x",
		"javascript:alert(1)":   "/",
	}

	for in, want := range tests {
		require.Equal(t, want, route.SafeReturn(in), "input %q", in)
	}
}

func TestOutcomeString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "allow", route.Allow.String())
	require.Equal(t, "redirect_login", route.RedirectLogin.String())
	require.Equal(t, "redirect_home", route.RedirectHome.String())
	require.Equal(t, "unknown", route.Outcome(99).String())
}
