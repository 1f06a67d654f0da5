// Package hash provides helpers for hashing and verifying short secrets.
//
// OTP codes are stored as salted argon2id (or bcrypt) hashes and checked with
// Verify; session tokens use the deterministic HMAC variant so the digest can
// be used as a lookup key.
package hash
