package uid

import (
	"crypto/rand"
	"encoding/base64"
)

const defaultTokenBytes = 32

// Token generates opaque bearer tokens from crypto/rand.
type Token struct {
	size int
}

// NewToken returns a generator producing tokens of size random bytes,
// URL-safe base64 encoded. A non-positive size uses 32 bytes.
func NewToken(size int) *Token {
	if size <= 0 {
		size = defaultTokenBytes
	}
	return &Token{size: size}
}

// Generate returns a new token. crypto/rand.Read never fails on supported
// platforms (it panics instead), so no error is returned.
func (t *Token) Generate() string {
	b := make([]byte, t.size)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
