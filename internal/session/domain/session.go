package domain

import "time"

// Session is one refresh-token lineage for a principal. The refresh token
// itself is never stored, only its hash; rotation replaces the jti and hash
// in place.
type Session struct {
	ID               string
	PrincipalID      string
	RefreshJTI       string
	RefreshTokenHash string
	ExpiresAt        time.Time
	CreatedAt        time.Time
	LastSeenAt       *time.Time
	RevokedAt        *time.Time
}

// Usable reports whether the session can still mint access tokens.
func (s *Session) Usable(now time.Time) bool {
	return s != nil && s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
