package authcore

import "errors"

var (
	// ErrInvalidCredentials reports malformed email, password, or 2FA input.
	// It is returned before any store is consulted.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrIncorrectCredentials is the collapsed rejection for unknown users, wrong
	// passwords, and wrong, expired, or already-redeemed 2FA challenges. Callers
	// cannot distinguish the cause.
	ErrIncorrectCredentials = errors.New("incorrect credentials")
	// ErrUserAlreadyExists reports a signup against an email that already has an account.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrChallengePending reports a login while a live 2FA challenge exists for the
	// same email. The pending challenge is left untouched.
	ErrChallengePending = errors.New("2fa challenge already pending")
	// ErrMissingToken reports a token operation called without a token.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken is the collapsed rejection for malformed, expired, and revoked tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnexpected reports a backend or internal failure. The cause is retained
	// only in audit events, never in the returned error.
	ErrUnexpected = errors.New("unexpected error")
)
