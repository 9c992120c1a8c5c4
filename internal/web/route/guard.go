package route

import (
	"net/url"
	"strings"

	"github.com/aussiebroadwan/petsit/internal/web/session"
)

// Outcome is the result of a guard evaluation.
type Outcome int

const (
	Allow Outcome = iota
	RedirectLogin
	RedirectHome
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}

// Decision tells the caller whether to render the route or where to go instead.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Evaluate decides a navigation to d for a browser in state s. intended is
// the path (and query) the visitor asked for; it is carried through login.
//
// Authentication is checked before the admin flag, so a signed-out visitor
// is always sent to login even for admin routes.
func Evaluate(d Descriptor, s session.State, intended string) Decision {
	if !d.RequiresAuth {
		return Decision{Outcome: Allow}
	}
	if !s.IsAuthenticated {
		return Decision{Outcome: RedirectLogin, Location: LoginLocation(intended)}
	}
	if d.RequiresAdmin && !s.IsAdmin {
		return Decision{Outcome: RedirectHome, Location: HomePath}
	}
	return Decision{Outcome: Allow}
}

var keepSlashes = strings.NewReplacer("%2F", "/")

// LoginLocation builds the login URL that returns to intended afterwards.
// Slashes stay literal: /login?redirect=/mypage.
func LoginLocation(intended string) string {
	if intended == "" {
		return LoginPath
	}
	return LoginPath + "?" + RedirectParam + "=" + keepSlashes.Replace(url.QueryEscape(intended))
}

// SafeReturn validates a post-login return target. Anything that is not a
// local absolute path falls back to HomePath.
func SafeReturn(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return HomePath
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return HomePath
	}
	return target
}
