package domain

import "testing"

func TestIsAdminRole(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleNone, false},
		{RoleMember, false},
		{RoleAdmin, true},
		{RoleOwner, true},
		{RoleSuperadmin, true},
	}

	for _, tt := range tests {
		if got := IsAdminRole(tt.role); got != tt.want {
			t.Errorf("IsAdminRole(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestIsSuperAdminRole(t *testing.T) {
	for _, r := range []Role{RoleNone, RoleMember, RoleAdmin, RoleOwner} {
		if IsSuperAdminRole(r) {
			t.Errorf("IsSuperAdminRole(%q) = true", r)
		}
	}
	if !IsSuperAdminRole(RoleSuperadmin) {
		t.Error("IsSuperAdminRole(superadmin) = false")
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"member", RoleMember},
		{"admin", RoleAdmin},
		{"owner", RoleOwner},
		{"superadmin", RoleSuperadmin},
		{"", RoleNone},
		{"root", RoleNone},
		{"ADMIN", RoleNone}, // stored roles are lowercase; no fuzzy matching
	}

	for _, tt := range tests {
		if got := ParseRole(tt.in); got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
