package domain

import (
	"errors"
	"net/mail"
	"strings"
)

// ErrInvalidEmail is returned by ParseEmail when the input is not an
// RFC-shaped address.
var ErrInvalidEmail = errors.New("invalid email address")

// Email is a validated, normalized email address. The zero value is invalid;
// construct through ParseEmail.
//
// Email instances are immutable and safe to use as map keys; equality is
// defined on the normalized (lowercased) value.
type Email struct {
	value string
}

// ParseEmail validates raw as a bare RFC 5322 address and returns the
// normalized Email. Display names, missing domains and domains without a dot
// are rejected.
func ParseEmail(raw string) (Email, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Email{}, ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Name != "" || addr.Address != trimmed {
		return Email{}, ErrInvalidEmail
	}

	at := strings.LastIndexByte(trimmed, '@')
	if at <= 0 || at == len(trimmed)-1 {
		return Email{}, ErrInvalidEmail
	}
	dom := trimmed[at+1:]
	if !strings.Contains(dom, ".") || strings.HasPrefix(dom, ".") || strings.HasSuffix(dom, ".") {
		return Email{}, ErrInvalidEmail
	}

	return Email{value: strings.ToLower(trimmed)}, nil
}

// String returns the normalized address. Addresses are not secret in this
// design; only passwords, codes and tokens are redacted.
func (e Email) String() string {
	return e.value
}

// IsZero reports whether e is the unconstructed zero Email.
func (e Email) IsZero() bool {
	return e.value == ""
}
