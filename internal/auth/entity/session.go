package entity

import (
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/valueobject"
)

// Session is a bearer session. TokenHash is the digest of the token handed
// to the client; the token itself is not stored.
type Session struct {
	ID         string
	UserID     int64
	TokenHash  string
	DeviceInfo valueobject.JSONMap
	IP         string
	ExpiresAt  time.Time
	Revoked    bool
	CreatedAt  time.Time
}
