package router

import (
	"net/http"
	"strconv"

	"github.com/casbin/casbin/v3"

	"github.com/desatrip/desatrip/internal/pkg/jwt"
)

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(next http.Handler) http.Handler

// Chain applies middlewares around h. The first middleware in the list is
// the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	return h
}

// Authorize returns a middleware that checks the authenticated account
// against the Casbin policy for the given object and action. Role grants
// come from grouping rules keyed by "user:<id>".
func Authorize(enforcer *casbin.Enforcer, object, action string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := jwt.GetAuth(r.Context())
			if claims == nil {
				writeJSON(w, errorResponse{Status: statusError, Message: "Authentication required"}, http.StatusUnauthorized)
				return
			}

			if _, err := strconv.ParseInt(claims.Subject, 10, 64); err != nil {
				writeJSON(w, errorResponse{Status: statusError, Message: "Authentication required"}, http.StatusUnauthorized)
				return
			}

			allowed, err := enforcer.Enforce("user:"+claims.Subject, object, action)
			if err != nil || !allowed {
				writeJSON(w, errorResponse{Status: statusError, Message: "You do not have access to this resource"}, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
