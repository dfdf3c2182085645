package middleware

import (
	"net/http"

	"github.com/percytech/hubgate/internal/httputil"
	"github.com/percytech/hubgate/pkg/domain"
)

// RequireAdmin enforces an administrative role for protected endpoints.
// Apply AFTER the Auth middleware: it reads the role placed in context
// and classifies it centrally, never by comparing role strings.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRole(r.Context())
			if !ok {
				httputil.Error(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if !domain.IsAdminRole(role) {
				httputil.Error(w, http.StatusForbidden, "admin role required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin enforces the superadmin role.
func RequireSuperAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRole(r.Context())
			if !ok {
				httputil.Error(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if !domain.IsSuperAdminRole(role) {
				httputil.Error(w, http.StatusForbidden, "superadmin role required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
