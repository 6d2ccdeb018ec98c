package stores

import (
	"context"
	"errors"

	"github.com/MrEthical07/authcore/domain"
)

var (
	// ErrUserExists is returned by UserStore.Add when the email is taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when no credential record matches the email.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidPassword is returned by Validate when the presented password
	// does not match the stored hash.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrChallengeExists is returned by TwoFACodeStore.Add when a live
	// challenge already exists for the email.
	ErrChallengeExists = errors.New("2FA challenge already exists")
	// ErrChallengeNotFound is returned when no live challenge matches the
	// email.
	ErrChallengeNotFound = errors.New("2FA challenge not found")
	// ErrStoreUnavailable wraps backend faults (connection loss,
	// serialization failure). The cause is folded into the message, not the
	// chain.
	ErrStoreUnavailable = errors.New("store backend unavailable")
)

// UserStore is the credential store contract.
//
// Add must reject duplicate emails atomically: two concurrent signups for the
// same email must not both succeed. Validate must compare the presented
// password against the stored hash with a constant-time primitive, and the
// unknown-user path must be latency-indistinguishable from the wrong-password
// path (implementations burn a decoy verification when the lookup misses).
type UserStore interface {
	Add(ctx context.Context, user domain.User) error
	Get(ctx context.Context, email domain.Email) (domain.User, error)
	Validate(ctx context.Context, email domain.Email, password domain.Password) error
}

// HashUpdater is implemented by user stores that can rewrite a stored password
// hash in place. The engine uses it opportunistically after a successful login
// when the stored hash was produced with weaker parameters than the current
// configuration.
type HashUpdater interface {
	UpdateHash(ctx context.Context, email domain.Email, newHash string) error
}

// BannedTokenStore is the revocation store contract. Ban is idempotent, and
// entries must out-live the token's own validity window before expiring.
type BannedTokenStore interface {
	Ban(ctx context.Context, token string) error
	Contains(ctx context.Context, token string) (bool, error)
}

// TwoFACodeStore is the challenge store contract. Add enforces the
// at-most-one-live-challenge-per-email invariant as a single atomic backend
// operation; entries expire on their own after the configured TTL.
type TwoFACodeStore interface {
	Add(ctx context.Context, email domain.Email, id domain.LoginAttemptID, code domain.TwoFACode) error
	Get(ctx context.Context, email domain.Email) (domain.LoginAttemptID, domain.TwoFACode, error)
	Remove(ctx context.Context, email domain.Email) error
}

// PasswordVerifier is the slice of the password service user stores need for
// Validate. *password.Pool satisfies it.
type PasswordVerifier interface {
	Verify(ctx context.Context, password, encodedHash string) (bool, error)
}
