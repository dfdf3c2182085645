package domain

import (
	"encoding/json"
	"time"
)

// DevSessionMaxAge bounds how long a development superadmin session
// stays usable. A stored session older than this is treated as absent
// by whoever observes it.
const DevSessionMaxAge = 24 * time.Hour

// DevSession is the client-local record backing the development-mode
// superadmin override. It is non-durable and carries no server-side
// state: just who claimed it and when.
type DevSession struct {
	Identity string    `json:"identity"`
	IssuedAt time.Time `json:"issued_at"`
}

// Expired reports whether the session is older than DevSessionMaxAge
// at the given instant.
func (s *DevSession) Expired(now time.Time) bool {
	return now.Sub(s.IssuedAt) >= DevSessionMaxAge
}

// ParseDevSession decodes a stored dev session payload. A malformed
// payload yields ErrMalformedDevSession; callers discard the stored
// record and proceed as if no override were present.
func ParseDevSession(payload []byte) (*DevSession, error) {
	var s DevSession
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, ErrMalformedDevSession
	}
	if s.Identity == "" || s.IssuedAt.IsZero() {
		return nil, ErrMalformedDevSession
	}
	return &s, nil
}

// Encode serializes the session for client-side storage.
func (s *DevSession) Encode() ([]byte, error) {
	return json.Marshal(s)
}
