package entity

import "strings"

// NormalizeIdentifier canonicalizes an email address or phone number for
// storage and lookup. Emails are trimmed and lower-cased; phone numbers lose
// every whitespace rune, keeping the leading '+' and the digits as typed.
// Applying it twice gives the same result as applying it once.
func NormalizeIdentifier(raw string, ch Channel) string {
	raw = strings.TrimSpace(raw)

	switch ch {
	case ChannelEmail:
		return strings.ToLower(raw)
	case ChannelSMS:
		return strings.Join(strings.Fields(raw), "")
	default:
		return raw
	}
}
