package uid

import "github.com/google/uuid"

// UUID generates time-ordered UUIDv7 strings. otp_codes and sessions use them
// as primary keys so newer rows sort after older ones.
type UUID struct {
	fallback func() string
}

func NewUUID() *UUID {
	return &UUID{fallback: uuid.NewString}
}

// Generate returns a UUIDv7, or a random v4 when the clock source fails.
func (u *UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return u.fallback()
}
