package hash

import (
	"errors"
	"strings"
)

// ErrUnknownAlgorithm is returned by New for an unsupported algorithm name.
var ErrUnknownAlgorithm = errors.New("hash: unknown algorithm")

// Hash hashes secrets and verifies plaintext against a stored hash.
type Hash interface {
	Hash(str string) ([]byte, error)
	Verify(hashed, str string) bool
}

// Algorithm names accepted by New.
const (
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmHMAC     = "hmac-sha256"
)

// Options configures the hasher built by New.
type Options struct {
	// Pepper is appended to the plaintext (argon2id, bcrypt) or used as the
	// HMAC key (hmac-sha256).
	Pepper string
	// BcryptCost is the bcrypt work factor.
	BcryptCost int
	// Argon2Memory is the argon2id memory cost in KiB.
	Argon2Memory uint32
	// Argon2Iterations is the argon2id time cost.
	Argon2Iterations uint32
}

// New returns the hasher registered under algorithm.
func New(algorithm string, opts Options) (Hash, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case AlgorithmArgon2id, "":
		a := NewArgon2id(opts.Pepper)
		if opts.Argon2Memory > 0 {
			a.memory = opts.Argon2Memory
		}
		if opts.Argon2Iterations > 0 {
			a.iterations = opts.Argon2Iterations
		}
		return a, nil
	case AlgorithmBcrypt:
		return NewBcrypt(opts.BcryptCost, opts.Pepper), nil
	case AlgorithmHMAC:
		return NewHMACSHA256(opts.Pepper), nil
	default:
		return nil, ErrUnknownAlgorithm
	}
}
