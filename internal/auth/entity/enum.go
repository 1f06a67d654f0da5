package entity

import "strings"

// Channel is the delivery channel of an OTP.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// ParseChannel returns the channel named by s, or "" when unknown.
func ParseChannel(s string) Channel {
	switch Channel(strings.ToLower(strings.TrimSpace(s))) {
	case ChannelEmail:
		return ChannelEmail
	case ChannelSMS:
		return ChannelSMS
	default:
		return ""
	}
}

func (c Channel) String() string { return string(c) }

// Purpose is why an OTP was requested.
type Purpose string

const (
	PurposeLogin  Purpose = "login"
	PurposeSignup Purpose = "signup"
	PurposeVerify Purpose = "verify"
	PurposeForgot Purpose = "forgot"
)

// ParsePurpose returns the purpose named by s, or "" when unknown.
func ParsePurpose(s string) Purpose {
	switch Purpose(strings.ToLower(strings.TrimSpace(s))) {
	case PurposeLogin:
		return PurposeLogin
	case PurposeSignup:
		return PurposeSignup
	case PurposeVerify:
		return PurposeVerify
	case PurposeForgot:
		return PurposeForgot
	default:
		return ""
	}
}

func (p Purpose) String() string { return string(p) }

// UserRole is the authorization role stored on a user.
type UserRole string

const RoleVisitor UserRole = "visitor"

// UserStatus is the membership status of a user.
type UserStatus string

const StatusRegisteredVisitor UserStatus = "registered_visitor"

// TokenTypeBearer is the token type returned with every session.
const TokenTypeBearer = "Bearer"
