package domain

import "time"

// Session is a server-side login session. Only the SHA-256 hash of the
// opaque token is persisted; the raw token lives in the client cookie.
type Session struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
