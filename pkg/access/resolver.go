// Package access implements hub-scoped authorization: effective-role
// resolution, per-route gating decisions, and the cross-tenant guard.
package access

import (
	"time"

	"github.com/percytech/hubgate/pkg/domain"
	"github.com/percytech/hubgate/pkg/hub"
)

// Resolution is the effective role computed for an (identity, hub) pair
// at decision time.
type Resolution struct {
	Role         domain.Role
	IsAdmin      bool
	IsSuperAdmin bool
	// DevOverride marks the role as granted by the development-mode
	// superadmin session rather than a stored role.
	DevOverride bool
}

// Authenticated reports whether the resolution carries any role at all.
func (r Resolution) Authenticated() bool {
	return r.Role != domain.RoleNone
}

// RoleResolver derives the effective role for an identity. The resolver
// is pure: for fixed inputs (tier, dev session, stored role) the output
// is deterministic and idempotent.
type RoleResolver struct {
	tier hub.Tier
	now  func() time.Time
}

// NewRoleResolver creates a resolver for the given environment tier.
func NewRoleResolver(tier hub.Tier) *RoleResolver {
	return &RoleResolver{tier: tier, now: time.Now}
}

// DevOverrideAllowed reports whether the development superadmin bypass
// can ever activate in this environment. It is a deployment property,
// never user input: production builds ignore dev sessions entirely.
func (r *RoleResolver) DevOverrideAllowed() bool {
	return r.tier == hub.TierDevelopment || r.tier == hub.TierStaging
}

// Resolve computes the effective role for an identity.
//
// The dev-mode override is evaluated first: a parseable dev session
// younger than 24 hours grants superadmin outright, bypassing the
// stored role. Absent the override, the identity's persisted role is
// classified; a nil identity or empty role resolves to RoleNone, which
// gating treats as unauthenticated.
func (r *RoleResolver) Resolve(identity *domain.Identity, devSession *domain.DevSession) Resolution {
	if r.DevOverrideAllowed() && devSession != nil && !devSession.Expired(r.now()) {
		return Resolution{
			Role:         domain.RoleSuperadmin,
			IsAdmin:      true,
			IsSuperAdmin: true,
			DevOverride:  true,
		}
	}

	role := domain.RoleNone
	if identity != nil && identity.IsActive {
		role = identity.Role
	}

	return Resolution{
		Role:         role,
		IsAdmin:      domain.IsAdminRole(role),
		IsSuperAdmin: domain.IsSuperAdminRole(role),
	}
}

// ResolveRole is Resolve for callers that already hold a bare role,
// e.g. from validated token claims.
func (r *RoleResolver) ResolveRole(role domain.Role, devSession *domain.DevSession) Resolution {
	if r.DevOverrideAllowed() && devSession != nil && !devSession.Expired(r.now()) {
		return Resolution{
			Role:         domain.RoleSuperadmin,
			IsAdmin:      true,
			IsSuperAdmin: true,
			DevOverride:  true,
		}
	}

	return Resolution{
		Role:         role,
		IsAdmin:      domain.IsAdminRole(role),
		IsSuperAdmin: domain.IsSuperAdminRole(role),
	}
}
