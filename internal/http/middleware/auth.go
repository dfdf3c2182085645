package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/percytech/hubgate/internal/httputil"
	"github.com/percytech/hubgate/pkg/auth"
	"github.com/percytech/hubgate/pkg/domain"
	"github.com/percytech/hubgate/pkg/hub"
)

type contextKey string

const (
	// IdentityIDKey is the context key for the authenticated identity ID.
	IdentityIDKey contextKey = "identity_id"
	// ClaimsKey is the context key for the token claims.
	ClaimsKey contextKey = "claims"
	// HubKey is the context key for the identity's hub.
	HubKey contextKey = "hub"
	// RoleKey is the context key for the effective role.
	RoleKey contextKey = "role"
)

// Auth creates middleware that validates JWT access tokens.
// Checks Authorization header first, then falls back to cookie for web clients.
func Auth(sessionService *auth.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				httputil.Error(w, http.StatusUnauthorized, "missing authorization")
				return
			}

			claims, err := sessionService.ValidateAccessToken(tokenString)
			if err != nil {
				httputil.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			identityID, err := uuid.Parse(claims.Subject)
			if err != nil {
				httputil.Error(w, http.StatusUnauthorized, "invalid token subject")
				return
			}

			if !hub.Valid(claims.Hub()) {
				httputil.Error(w, http.StatusUnauthorized, "invalid hub_id in token")
				return
			}

			ctx := context.WithValue(r.Context(), IdentityIDKey, identityID)
			ctx = context.WithValue(ctx, HubKey, claims.Hub())
			ctx = context.WithValue(ctx, RoleKey, claims.EffectiveRole())
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	if token, ok := httputil.GetAccessTokenFromCookie(r); ok {
		return token
	}
	return ""
}

// GetIdentityID extracts the identity ID from the request context.
func GetIdentityID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(IdentityIDKey).(uuid.UUID)
	return id, ok
}

// GetClaims extracts the token claims from the request context.
func GetClaims(ctx context.Context) (*auth.AccessTokenClaims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*auth.AccessTokenClaims)
	return claims, ok
}

// GetHub extracts the hub ID from the request context.
func GetHub(ctx context.Context) (hub.ID, bool) {
	id, ok := ctx.Value(HubKey).(hub.ID)
	return id, ok
}

// GetRole extracts the effective role from the request context.
func GetRole(ctx context.Context) (domain.Role, bool) {
	role, ok := ctx.Value(RoleKey).(domain.Role)
	return role, ok
}
