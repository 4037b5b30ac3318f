package models

import "time"

// Verification token types.
const (
	TokenPasswordReset = "PASSWORD_RESET"
	TokenEmail         = "EMAIL"
)

// VerificationToken is a single-use, expiring token for password reset and
// email verification flows.
type VerificationToken struct {
	Token     string    `json:"token"` // uuid
	UserID    int       `json:"user_id"`
	Type      string    `json:"type"` // PASSWORD_RESET | EMAIL
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
}

// Expired reports whether the token is past its expiry at the given instant.
func (t VerificationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
