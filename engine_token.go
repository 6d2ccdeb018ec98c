package authcore

import (
	"context"

	"github.com/MrEthical07/authcore/jwt"
)

// Logout revokes a bearer token. The token must still be valid at the time of
// the call: malformed, expired, and already-banned tokens are all rejected
// with ErrInvalidToken, so a second logout with the same token fails.
func (e *Engine) Logout(ctx context.Context, token string) error {
	if token == "" {
		return e.fail(ctx, auditEventLogoutFailure, "", ErrMissingToken, nil)
	}

	claims, err := e.tokens.Parse(token)
	if err != nil {
		return e.fail(ctx, auditEventLogoutFailure, "", ErrInvalidToken, nil)
	}

	banned, err := e.banned.Contains(ctx, token)
	if err != nil {
		return e.fail(ctx, auditEventLogoutFailure, claims.Email(), ErrUnexpected, err)
	}
	if banned {
		return e.fail(ctx, auditEventLogoutFailure, claims.Email(), ErrInvalidToken, nil)
	}

	if err := e.banned.Ban(ctx, token); err != nil {
		return e.fail(ctx, auditEventLogoutFailure, claims.Email(), ErrUnexpected, err)
	}

	e.emitAudit(ctx, auditEventLogoutSuccess, true, claims.Email(), nil, nil)
	return nil
}

// VerifyToken checks a bearer token without mutating any state: signature and
// expiry first, then the revocation list. Valid tokens return their claims.
func (e *Engine) VerifyToken(ctx context.Context, token string) (*jwt.Claims, error) {
	if token == "" {
		return nil, e.fail(ctx, auditEventTokenRejected, "", ErrMissingToken, nil)
	}

	claims, err := e.tokens.Parse(token)
	if err != nil {
		return nil, e.fail(ctx, auditEventTokenRejected, "", ErrInvalidToken, nil)
	}

	banned, err := e.banned.Contains(ctx, token)
	if err != nil {
		return nil, e.fail(ctx, auditEventTokenRejected, claims.Email(), ErrUnexpected, err)
	}
	if banned {
		return nil, e.fail(ctx, auditEventTokenRejected, claims.Email(), ErrInvalidToken, nil)
	}

	e.emitAudit(ctx, auditEventTokenVerified, true, claims.Email(), nil, nil)
	return claims, nil
}
