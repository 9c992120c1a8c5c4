package http

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/aussiebroadwan/petsit/internal/web/route"
	"github.com/aussiebroadwan/petsit/internal/web/session"
	"github.com/aussiebroadwan/petsit/pkg/httpx"
	"github.com/aussiebroadwan/petsit/pkg/slogx"
)

// The shell hands the view name and initial state to the client bundle.
var shell = template.Must(template.New("shell").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} | petsit</title>
<script type="application/json" id="petsit-state">{{.State}}</script>
<script type="module" src="/assets/app.js"></script>
</head>
<body>
<div id="app" data-view="{{.View}}"></div>
</body>
</html>
`))

type shellData struct {
	Title string
	View  string
	State pageState
}

// pageState is embedded as JSON for the client bundle.
type pageState struct {
	Path     string        `json:"path"`
	Session  session.State `json:"session"`
	Redirect string        `json:"redirect,omitempty"`
	Data     any           `json:"data,omitempty"`
	Error    *pageError    `json:"error,omitempty"`
}

type pageError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// pageHandler renders the shell for d. The guard has already run.
func (r *Router) pageHandler(d route.Descriptor) http.HandlerFunc {
	title := d.Name
	if title == "" {
		title = d.View
	}

	return func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		status := http.StatusOK

		state := pageState{Path: d.Path, Session: snapshot(req)}
		if d.Path == route.LoginPath {
			state.Redirect = route.SafeReturn(req.URL.Query().Get(route.RedirectParam))
		}

		if d.Prefetch != route.PrefetchNone {
			data, err := r.prefetch(ctx, d.Prefetch)
			switch {
			case err == nil:
				state.Data = data
			case reauthFired(ctx):
				signOut(ctx)
				writeLoginRedirect(w, req, "")
				return
			default:
				var code, msg string
				status, code, msg = upstreamFailure(err)
				state.Error = &pageError{Code: code, Message: msg}
				slogx.FromContext(ctx).Warn("page prefetch failed", "route", d.Path, "prefetch", d.Prefetch, "error", err)
			}
			// The prefetch may have cleared the session.
			state.Session = snapshot(req)
		}

		var buf bytes.Buffer
		if err := shell.Execute(&buf, shellData{Title: title, View: d.View, State: state}); err != nil {
			slogx.FromContext(ctx).Error("failed to render page", "route", d.Path, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		httpx.NoCache(w)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = buf.WriteTo(w)
	}
}

// prefetch loads the initial data a page asked for.
func (r *Router) prefetch(ctx context.Context, p route.Prefetch) (any, error) {
	switch p {
	case route.PrefetchProfile:
		profile, err := r.client.GetProfile(ctx)
		if err != nil {
			return nil, err
		}
		syncProfile(ctx, profile)
		return profile, nil
	case route.PrefetchPets:
		return r.client.MyPets(ctx)
	case route.PrefetchBookings:
		return r.client.MyBookings(ctx)
	case route.PrefetchCodeGroups:
		return r.client.ListCodeGroups(ctx)
	default:
		return nil, fmt.Errorf("unknown prefetch %q", p)
	}
}
