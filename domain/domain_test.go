package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParseEmailValid(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"teemo@gmail.com", "teemo@gmail.com"},
		{"Moomin@Hotmail.com", "moomin@hotmail.com"},
		{"a.b+tag@sub.example.org", "a.b+tag@sub.example.org"},
	}
	for _, tc := range cases {
		email, err := ParseEmail(tc.in)
		if err != nil {
			t.Fatalf("ParseEmail(%q): %v", tc.in, err)
		}
		if email.String() != tc.want {
			t.Fatalf("ParseEmail(%q) = %q, want %q", tc.in, email.String(), tc.want)
		}
	}
}

func TestParseEmailInvalid(t *testing.T) {
	cases := []string{
		"",
		"teemo",
		"teemo@",
		"@gmail.com",
		"teemo@gmail@badger.com",
		"woo@min_at_asdsad",
		"Alice <alice@example.com>",
		"a@.com",
		"a@com.",
	}
	for _, in := range cases {
		if _, err := ParseEmail(in); !errors.Is(err, ErrInvalidEmail) {
			t.Fatalf("ParseEmail(%q): expected ErrInvalidEmail, got %v", in, err)
		}
	}
}

func TestParsePassword(t *testing.T) {
	if _, err := ParsePassword("short"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	p, err := ParsePassword("lengthi8")
	if err != nil {
		t.Fatalf("ParsePassword: %v", err)
	}
	if p.Expose() != "lengthi8" {
		t.Fatalf("Expose mismatch: %q", p.Expose())
	}
}

func TestPasswordRedaction(t *testing.T) {
	p, err := ParsePassword("super-secret-value")
	if err != nil {
		t.Fatalf("ParsePassword: %v", err)
	}
	for _, rendered := range []string{
		fmt.Sprint(p),
		fmt.Sprintf("%v", p),
		fmt.Sprintf("%+v", p),
		fmt.Sprintf("%s", p),
		fmt.Sprintf("%#v", p),
	} {
		if strings.Contains(rendered, "super-secret-value") {
			t.Fatalf("plaintext leaked through formatting: %q", rendered)
		}
	}
}

func TestLoginAttemptIDRoundTrip(t *testing.T) {
	id := NewLoginAttemptID()
	parsed, err := ParseLoginAttemptID(id.String())
	if err != nil {
		t.Fatalf("ParseLoginAttemptID(%q): %v", id.String(), err)
	}
	if !parsed.Equal(id) {
		t.Fatalf("round trip mismatch: %q vs %q", parsed.String(), id.String())
	}
}

func TestParseLoginAttemptIDInvalid(t *testing.T) {
	if _, err := ParseLoginAttemptID("should_not_work"); !errors.Is(err, ErrInvalidLoginAttemptID) {
		t.Fatalf("expected ErrInvalidLoginAttemptID, got %v", err)
	}
}

func TestNewTwoFACodeInRange(t *testing.T) {
	for i := 0; i < 64; i++ {
		code, err := NewTwoFACode()
		if err != nil {
			t.Fatalf("NewTwoFACode: %v", err)
		}
		if _, err := ParseTwoFACode(code.Expose()); err != nil {
			t.Fatalf("generated code %q failed to parse back", code.Expose())
		}
	}
}

func TestParseTwoFACodeInvalid(t *testing.T) {
	cases := []string{"", "12345", "1234567", "099999", "abcdef", "1000000"}
	for _, in := range cases {
		if _, err := ParseTwoFACode(in); !errors.Is(err, ErrInvalidTwoFACode) {
			t.Fatalf("ParseTwoFACode(%q): expected ErrInvalidTwoFACode, got %v", in, err)
		}
	}
}

func TestTwoFACodeRedaction(t *testing.T) {
	code, err := ParseTwoFACode("834629")
	if err != nil {
		t.Fatalf("ParseTwoFACode: %v", err)
	}
	if rendered := fmt.Sprintf("%v %s %#v", code, code, code); strings.Contains(rendered, "834629") {
		t.Fatalf("code leaked through formatting: %q", rendered)
	}
	if !code.Equal(code) {
		t.Fatalf("code not equal to itself")
	}
}
