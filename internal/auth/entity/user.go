package entity

import "time"

type User struct {
	ID              int64
	Email           *string
	Phone           *string
	IsEmailVerified bool
	IsPhoneVerified bool
	Role            UserRole
	Status          UserStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewVisitor builds the user created on the first successful verification
// of an identifier nobody owns yet.
func NewVisitor(id int64, identifier string, ch Channel, now time.Time) User {
	u := User{
		ID:        id,
		Role:      RoleVisitor,
		Status:    StatusRegisteredVisitor,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch ch {
	case ChannelEmail:
		u.Email = &identifier
		u.IsEmailVerified = true
	case ChannelSMS:
		u.Phone = &identifier
		u.IsPhoneVerified = true
	}

	return u
}

// Verified reports whether the identifier field of ch is already verified.
func (u *User) Verified(ch Channel) bool {
	switch ch {
	case ChannelEmail:
		return u.IsEmailVerified
	case ChannelSMS:
		return u.IsPhoneVerified
	default:
		return false
	}
}

// MarkVerified flips the verified flag of ch.
func (u *User) MarkVerified(ch Channel) {
	switch ch {
	case ChannelEmail:
		u.IsEmailVerified = true
	case ChannelSMS:
		u.IsPhoneVerified = true
	}
}
