package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/percytech/hubgate/pkg/hub"
)

// Session represents an authentication session, backed by an opaque
// refresh token stored hashed at rest.
type Session struct {
	ID         uuid.UUID
	IdentityID uuid.UUID
	HubID      hub.ID
	TokenHash  string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	RevokedAt  *time.Time
	LastSeenAt *time.Time
}

// IsValid checks if the session is valid (not expired and not revoked).
// Expiry is a wall-clock comparison at read time; there is no sweep.
func (s *Session) IsValid() bool {
	if s.RevokedAt != nil {
		return false
	}
	return time.Now().Before(s.ExpiresAt)
}

// TokenPair represents the access and refresh token pair.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}
