package domain

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"

	"github.com/google/uuid"
)

var (
	// ErrInvalidLoginAttemptID is returned when an attempt id is not a UUID.
	ErrInvalidLoginAttemptID = errors.New("invalid login attempt id")
	// ErrInvalidTwoFACode is returned when a code is not a 6-digit number in
	// the [100000, 999999] range.
	ErrInvalidTwoFACode = errors.New("invalid 2FA code")
)

// LoginAttemptID identifies one in-flight 2FA challenge. It is UUID-shaped
// but opaque: comparison is exact string equality, never field-wise.
type LoginAttemptID struct {
	value string
}

// NewLoginAttemptID generates a fresh random attempt id.
func NewLoginAttemptID() LoginAttemptID {
	return LoginAttemptID{value: uuid.NewString()}
}

// ParseLoginAttemptID validates raw as a UUID and returns the id in its
// canonical string form.
func ParseLoginAttemptID(raw string) (LoginAttemptID, error) {
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return LoginAttemptID{}, ErrInvalidLoginAttemptID
	}
	return LoginAttemptID{value: parsed.String()}, nil
}

// String returns the canonical UUID string. Attempt ids are handed back to
// the client, so they are not redacted.
func (id LoginAttemptID) String() string {
	return id.value
}

// Equal reports exact string equality with other.
func (id LoginAttemptID) Equal(other LoginAttemptID) bool {
	return id.value == other.value
}

const (
	twoFACodeMin = 100000
	twoFACodeMax = 999999
)

// TwoFACode is a single-use 6-digit numeric code delivered out of band.
// It redacts itself in default formatting; Expose is required to read it at
// the point of delivery or comparison.
type TwoFACode struct {
	value string
}

// NewTwoFACode draws a fresh code from crypto/rand.
func NewTwoFACode() (TwoFACode, error) {
	span := big.NewInt(twoFACodeMax - twoFACodeMin + 1)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return TwoFACode{}, err
	}
	return TwoFACode{value: strconv.FormatInt(n.Int64()+twoFACodeMin, 10)}, nil
}

// ParseTwoFACode validates raw as a 6-digit code in range.
func ParseTwoFACode(raw string) (TwoFACode, error) {
	if len(raw) != 6 {
		return TwoFACode{}, ErrInvalidTwoFACode
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < twoFACodeMin || n > twoFACodeMax {
		return TwoFACode{}, ErrInvalidTwoFACode
	}
	return TwoFACode{value: raw}, nil
}

// Expose returns the raw code for out-of-band delivery and comparison.
func (c TwoFACode) Expose() string {
	return c.value
}

// Equal reports exact string equality with other.
func (c TwoFACode) Equal(other TwoFACode) bool {
	return c.value == other.value
}

// String implements fmt.Stringer and always prints a placeholder.
func (c TwoFACode) String() string {
	return redacted
}

// GoString implements fmt.GoStringer so %#v does not leak the code either.
func (c TwoFACode) GoString() string {
	return "domain.TwoFACode(" + redacted + ")"
}
