package domain

import (
	"time"

	"github.com/google/uuid"
)

// MembershipStatus represents the state of an identity's membership.
type MembershipStatus string

const (
	MembershipStatusInvited   MembershipStatus = "invited"
	MembershipStatusActive    MembershipStatus = "active"
	MembershipStatusSuspended MembershipStatus = "suspended"
)

// Membership associates an identity with a company and a role. An
// identity may hold memberships in more than one company, but at most
// one effective role is computed per (identity, hub) at decision time.
type Membership struct {
	ID         uuid.UUID
	CompanyID  uuid.UUID
	IdentityID uuid.UUID
	Role       Role
	Status     MembershipStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// IsActive returns true if the membership is active.
func (m *Membership) IsActive() bool {
	return m.Status == MembershipStatusActive && m.DeletedAt == nil
}
