package server

import (
	"net/http"

	"github.com/desertthunder/gaana/internal/auth"
)

// Guard destinations.
const (
	LoginPath     = auth.LoginPath
	ForbiddenPath = "/forbidden"
)

// SessionView is the read side of the session needed to make guard decisions.
type SessionView interface {
	State() auth.State
}

// GuardOptions configures [Guard].
type GuardOptions struct {
	RequireAdmin  bool
	LoginPath     string // defaults to [LoginPath]
	ForbiddenPath string // defaults to [ForbiddenPath]
}

// Guard gates protected pages on the session state.
//
// Loading and unauthenticated sessions are sent to the login page. When RequireAdmin is set,
// authenticated non-admins are sent to the forbidden page. Denied requests never reach next.
// HTMX requests receive an HX-Redirect header and a 401 or 403 instead of a redirect.
func Guard(session SessionView, opts GuardOptions) Middleware {
	if opts.LoginPath == "" {
		opts.LoginPath = LoginPath
	}
	if opts.ForbiddenPath == "" {
		opts.ForbiddenPath = ForbiddenPath
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch state := session.State(); {
			case !state.Authenticated():
				deny(w, r, opts.LoginPath, http.StatusUnauthorized)
			case opts.RequireAdmin && state != auth.StateAuthenticatedAdmin:
				deny(w, r, opts.ForbiddenPath, http.StatusForbidden)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// IsHTMX reports whether r was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// Redirect sends the client to path, using HX-Redirect for htmx requests.
func Redirect(w http.ResponseWriter, r *http.Request, path string) {
	if IsHTMX(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func deny(w http.ResponseWriter, r *http.Request, path string, status int) {
	w.Header().Set("Cache-Control", "no-store")
	if IsHTMX(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(status)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
