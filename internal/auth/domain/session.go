package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is minted only after both factors succeed.
type Session struct {
	ID        string
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
	Active    bool
}

// IsValid reports whether the session is active and not yet expired at now.
func (s *Session) IsValid(now time.Time) bool {
	return s != nil && s.Active && now.Before(s.ExpiresAt)
}
