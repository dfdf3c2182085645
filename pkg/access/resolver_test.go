package access

import (
	"testing"
	"time"

	"github.com/percytech/hubgate/pkg/domain"
	"github.com/percytech/hubgate/pkg/hub"
)

func identityWithRole(role domain.Role) *domain.Identity {
	return &domain.Identity{
		Email:    "user@gnymble.com",
		HubID:    hub.Gnymble,
		Role:     role,
		IsActive: true,
	}
}

func TestRoleResolver_DevOverride(t *testing.T) {
	fresh := &domain.DevSession{Identity: "dev@percytech.com", IssuedAt: time.Now()}
	stale := &domain.DevSession{Identity: "dev@percytech.com", IssuedAt: time.Now().Add(-25 * time.Hour)}

	tests := []struct {
		name         string
		tier         hub.Tier
		session      *domain.DevSession
		identity     *domain.Identity
		wantRole     domain.Role
		wantOverride bool
	}{
		{
			name:         "development with fresh session overrides stored role",
			tier:         hub.TierDevelopment,
			session:      fresh,
			identity:     identityWithRole(domain.RoleMember),
			wantRole:     domain.RoleSuperadmin,
			wantOverride: true,
		},
		{
			name:         "staging with fresh session overrides",
			tier:         hub.TierStaging,
			session:      fresh,
			identity:     nil,
			wantRole:     domain.RoleSuperadmin,
			wantOverride: true,
		},
		{
			name:         "production ignores dev session",
			tier:         hub.TierProduction,
			session:      fresh,
			identity:     identityWithRole(domain.RoleMember),
			wantRole:     domain.RoleMember,
			wantOverride: false,
		},
		{
			name:         "stale session falls back to stored role",
			tier:         hub.TierDevelopment,
			session:      stale,
			identity:     identityWithRole(domain.RoleMember),
			wantRole:     domain.RoleMember,
			wantOverride: false,
		},
		{
			name:         "no session, stored admin role",
			tier:         hub.TierDevelopment,
			session:      nil,
			identity:     identityWithRole(domain.RoleAdmin),
			wantRole:     domain.RoleAdmin,
			wantOverride: false,
		},
		{
			name:         "no session, no identity",
			tier:         hub.TierProduction,
			session:      nil,
			identity:     nil,
			wantRole:     domain.RoleNone,
			wantOverride: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRoleResolver(tt.tier)
			res := r.Resolve(tt.identity, tt.session)
			if res.Role != tt.wantRole {
				t.Errorf("Role = %q, want %q", res.Role, tt.wantRole)
			}
			if res.DevOverride != tt.wantOverride {
				t.Errorf("DevOverride = %v, want %v", res.DevOverride, tt.wantOverride)
			}
		})
	}
}

func TestRoleResolver_Classification(t *testing.T) {
	r := NewRoleResolver(hub.TierProduction)

	tests := []struct {
		role      domain.Role
		wantAdmin bool
		wantSuper bool
	}{
		{domain.RoleNone, false, false},
		{domain.RoleMember, false, false},
		{domain.RoleAdmin, true, false},
		{domain.RoleOwner, true, false},
		{domain.RoleSuperadmin, true, true},
	}

	for _, tt := range tests {
		res := r.Resolve(identityWithRole(tt.role), nil)
		if res.IsAdmin != tt.wantAdmin {
			t.Errorf("role %q: IsAdmin = %v, want %v", tt.role, res.IsAdmin, tt.wantAdmin)
		}
		if res.IsSuperAdmin != tt.wantSuper {
			t.Errorf("role %q: IsSuperAdmin = %v, want %v", tt.role, res.IsSuperAdmin, tt.wantSuper)
		}
	}
}

func TestRoleResolver_InactiveIdentity(t *testing.T) {
	r := NewRoleResolver(hub.TierProduction)
	identity := identityWithRole(domain.RoleAdmin)
	identity.IsActive = false

	res := r.Resolve(identity, nil)
	if res.Role != domain.RoleNone {
		t.Errorf("deactivated identity resolved role %q, want RoleNone", res.Role)
	}
}

func TestRoleResolver_Deterministic(t *testing.T) {
	r := NewRoleResolver(hub.TierDevelopment)
	session := &domain.DevSession{Identity: "x", IssuedAt: time.Now()}
	identity := identityWithRole(domain.RoleMember)

	first := r.Resolve(identity, session)
	for i := 0; i < 3; i++ {
		if got := r.Resolve(identity, session); got != first {
			t.Fatalf("call %d: %+v != %+v", i, got, first)
		}
	}
}
