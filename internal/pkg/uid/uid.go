// Package uid generates identifiers: UUIDv7 strings for records and
// correlation ids, snowflake numbers for users, and opaque random tokens.
package uid

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates numeric identifiers.
type NumberID interface {
	Generate() int64
}
