package domain

// Role is the closed set of roles an identity can hold within a hub.
type Role string

const (
	// RoleNone means no role is assigned; for gating purposes the
	// identity is treated as unauthenticated.
	RoleNone       Role = ""
	RoleMember     Role = "member"
	RoleAdmin      Role = "admin"
	RoleOwner      Role = "owner"
	RoleSuperadmin Role = "superadmin"
)

// ParseRole maps a stored role string onto the closed Role set.
// Unknown values collapse to RoleNone rather than erroring.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleMember, RoleAdmin, RoleOwner, RoleSuperadmin:
		return Role(s)
	default:
		return RoleNone
	}
}

// IsAdminRole reports whether the role carries administrative access.
// This is the single place role classification lives; callers must not
// compare role strings directly.
func IsAdminRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleSuperadmin:
		return true
	default:
		return false
	}
}

// IsSuperAdminRole reports whether the role is superadmin. Superadmin
// implies all-hub, all-permission access regardless of membership.
func IsSuperAdminRole(r Role) bool {
	return r == RoleSuperadmin
}

// Valid reports whether r is an assignable role (RoleNone is not).
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleAdmin, RoleOwner, RoleSuperadmin:
		return true
	default:
		return false
	}
}
