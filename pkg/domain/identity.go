package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/percytech/hubgate/pkg/hub"
)

// Identity is an authenticated principal. Each identity is affiliated
// with exactly one hub; cross-hub duplication is refused at signup.
type Identity struct {
	ID                  uuid.UUID
	Email               string
	FirstName           *string
	LastName            *string
	HubID               hub.ID
	Role                Role
	IsActive            bool
	OnboardingCompleted bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           *time.Time
}

// FullName joins first and last name, tolerating either being unset.
func (i *Identity) FullName() string {
	first, last := "", ""
	if i.FirstName != nil {
		first = *i.FirstName
	}
	if i.LastName != nil {
		last = *i.LastName
	}
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	default:
		return last
	}
}

// IdentityCredential stores password credentials separately from the
// identity profile.
type IdentityCredential struct {
	IdentityID        uuid.UUID
	PasswordHash      string
	PasswordUpdatedAt time.Time
}
