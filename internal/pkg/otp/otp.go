package otp

import (
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/pquerna/otp"
)

// ErrInvalidDigits is returned for a code width outside MinDigits..MaxDigits.
var ErrInvalidDigits = errors.New("otp: invalid digits")

const (
	// MinDigits is the shortest supported code.
	MinDigits = 4
	// MaxDigits is the longest supported code; it keeps values within int32.
	MaxDigits = 9
)

// Generator produces one-time codes.
type Generator interface {
	Generate() (string, error)
}

// Numeric generates codes of a fixed number of decimal digits.
type Numeric struct {
	digits otp.Digits
	low    int64
	span   *big.Int
}

// NewNumeric returns a generator for codes with the given number of digits.
func NewNumeric(digits int) (*Numeric, error) {
	if digits < MinDigits || digits > MaxDigits {
		return nil, ErrInvalidDigits
	}

	low := pow10(digits - 1)
	high := pow10(digits) - 1

	return &Numeric{
		digits: otp.Digits(digits),
		low:    low,
		span:   big.NewInt(high - low + 1),
	}, nil
}

// Generate returns a new code.
func (n *Numeric) Generate() (string, error) {
	r, err := rand.Int(rand.Reader, n.span)
	if err != nil {
		return "", err
	}

	return n.digits.Format(int32(n.low + r.Int64())), nil
}

// Length returns the code width.
func (n *Numeric) Length() int {
	return n.digits.Length()
}

func pow10(e int) int64 {
	v := int64(1)
	for range e {
		v *= 10
	}
	return v
}
