package entity

import "time"

// Otp is one issued one-time password. CodeHash never holds the plaintext.
type Otp struct {
	ID         string
	UserID     *int64
	Identifier string
	CodeHash   string
	Channel    Channel
	Purpose    Purpose
	ExpiresAt  time.Time
	Attempts   int
	Used       bool
	CreatedAt  time.Time
}

// Expired reports whether the code can no longer be used at now.
func (o *Otp) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// InCooldown reports whether a new code for the same identifier and purpose
// must still be refused at now.
func (o *Otp) InCooldown(now time.Time, window time.Duration) bool {
	return now.Sub(o.CreatedAt) < window
}
