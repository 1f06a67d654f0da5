package hash

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores input past 72 bytes; longer code+pepper values are refused.
const bcryptMaxInput = 72

var ErrInputTooLong = errors.New("hash: bcrypt input exceeds 72 bytes")

// Bcrypt is the alternative code hasher selected by hash.code.algorithm.
// The pepper is appended to the code before hashing.
type Bcrypt struct {
	cost   int
	pepper string
}

// NewBcrypt clamps cost to bcrypt.DefaultCost when it is out of range.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost, pepper: pepper}
}

func (h *Bcrypt) input(plaintext string) ([]byte, error) {
	b := []byte(plaintext + h.pepper)
	if len(b) > bcryptMaxInput {
		return nil, fmt.Errorf("%w: %d bytes", ErrInputTooLong, len(b))
	}
	return b, nil
}

func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	b, err := h.input(plaintext)
	if err != nil {
		return nil, err
	}
	return bcrypt.GenerateFromPassword(b, h.cost)
}

func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	if hashed == "" {
		return false
	}
	b, err := h.input(plaintext)
	if err != nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), b) == nil
}
