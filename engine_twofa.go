package authcore

import (
	"context"
	"errors"

	"github.com/MrEthical07/authcore/domain"
	"github.com/MrEthical07/authcore/stores"
)

// VerifyTwoFA redeems a pending challenge. Both the login attempt id and the
// code must match the stored pair exactly; on match the challenge is deleted
// before the token is issued, so redemption succeeds at most once. A mismatch
// leaves the challenge untouched.
func (e *Engine) VerifyTwoFA(ctx context.Context, rawEmail, rawAttemptID, rawCode string) (string, error) {
	emailAddr, err := domain.ParseEmail(rawEmail)
	if err != nil {
		return "", e.fail(ctx, auditEventTwoFAFailure, rawEmail, ErrInvalidCredentials, nil)
	}
	attemptID, err := domain.ParseLoginAttemptID(rawAttemptID)
	if err != nil {
		return "", e.fail(ctx, auditEventTwoFAFailure, emailAddr.String(), ErrInvalidCredentials, nil)
	}
	code, err := domain.ParseTwoFACode(rawCode)
	if err != nil {
		return "", e.fail(ctx, auditEventTwoFAFailure, emailAddr.String(), ErrInvalidCredentials, nil)
	}

	storedID, storedCode, err := e.challenges.Get(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, stores.ErrChallengeNotFound) {
			return "", e.fail(ctx, auditEventTwoFAFailure, emailAddr.String(), ErrIncorrectCredentials, nil)
		}
		return "", e.fail(ctx, auditEventTwoFAFailure, emailAddr.String(), ErrUnexpected, err)
	}

	if !storedID.Equal(attemptID) || !storedCode.Equal(code) {
		return "", e.fail(ctx, auditEventTwoFAFailure, emailAddr.String(), ErrIncorrectCredentials, nil)
	}

	if err := e.challenges.Remove(ctx, emailAddr); err != nil {
		if errors.Is(err, stores.ErrChallengeNotFound) {
			// Lost the redemption race or the TTL fired. Either way the
			// challenge is gone and this attempt does not count.
			return "", e.fail(ctx, auditEventTwoFAFailure, emailAddr.String(), ErrIncorrectCredentials, nil)
		}
		return "", e.fail(ctx, auditEventTwoFAFailure, emailAddr.String(), ErrUnexpected, err)
	}

	token, err := e.tokens.Issue(emailAddr.String())
	if err != nil {
		return "", e.fail(ctx, auditEventTwoFAFailure, emailAddr.String(), ErrUnexpected, err)
	}

	e.emitAudit(ctx, auditEventTwoFASuccess, true, emailAddr.String(), nil, nil)
	return token, nil
}
