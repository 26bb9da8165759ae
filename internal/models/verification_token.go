package models

import "time"

// VerificationToken is the single-use magic-link token for passwordless
// sign-in. At most one live token exists per email: reissue deletes the
// prior rows. Expired rows are filtered out of lookups rather than swept.
type VerificationToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;not null;index" json:"email"`
	Token     string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// VerificationTokenTTL is how long a magic link stays valid.
const VerificationTokenTTL = 15 * time.Minute

// NewVerificationToken returns a token for the email expiring in
// VerificationTokenTTL.
func NewVerificationToken(email, token string) *VerificationToken {
	return &VerificationToken{
		Email:     email,
		Token:     token,
		ExpiresAt: time.Now().Add(VerificationTokenTTL),
	}
}

// Expired reports whether the token is past its expiry at the given time.
func (t *VerificationToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
