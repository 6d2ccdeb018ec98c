package domain

import "errors"

const minPasswordBytes = 8

// ErrInvalidPassword is returned by ParsePassword when the input is shorter
// than the minimum length.
var ErrInvalidPassword = errors.New("password must be at least 8 characters")

const redacted = "[REDACTED]"

// Password wraps a plaintext password so it cannot leak through logging or
// default formatting. Construct through ParsePassword; read through Expose at
// the point of hashing or comparison only.
type Password struct {
	value string
}

// ParsePassword validates raw against the minimum-length policy. Length is
// measured in bytes, exactly as provided (no Unicode normalization).
func ParsePassword(raw string) (Password, error) {
	if len(raw) < minPasswordBytes {
		return Password{}, ErrInvalidPassword
	}
	return Password{value: raw}, nil
}

// Expose returns the wrapped plaintext. Callers other than the hasher have no
// business calling this.
func (p Password) Expose() string {
	return p.value
}

// String implements fmt.Stringer and always prints a placeholder.
func (p Password) String() string {
	return redacted
}

// GoString implements fmt.GoStringer so %#v does not leak the value either.
func (p Password) GoString() string {
	return "domain.Password(" + redacted + ")"
}
