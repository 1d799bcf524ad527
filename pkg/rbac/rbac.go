// Package rbac gates pages on the role kept in the browser's session.
//
// The role is a display convenience set at login. The cafe API stays the
// authority: a page that passes this gate can still get a 401 from the API.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/cafefront/pkg/session"
)

// DeniedMessage is flashed when the gate turns a visitor away.
const DeniedMessage = "Access denied"

// RoleKey is the session key holding the signed-in role.
const RoleKey = "role"

// HasRole reports whether the request's session carries one of roles.
func HasRole(r *http.Request, roles ...string) bool {
	current := session.FromCtx(r).GetString(RoleKey)
	if current == "" {
		return false
	}
	for _, role := range roles {
		if role == current {
			return true
		}
	}
	return false
}

// RequireRole lets the request through only when the session role is one
// of roles. Otherwise it flashes DeniedMessage, redirects to "/" and never
// calls the wrapped handler, so nothing behind it reaches the API.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !HasRole(r, roles...) {
				session.FromCtx(r).Flash("error", DeniedMessage)
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
