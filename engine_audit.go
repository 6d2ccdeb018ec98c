package authcore

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/authcore/stores"
)

const (
	auditEventSignupSuccess    = "signup_success"
	auditEventSignupDuplicate  = "signup_duplicate"
	auditEventSignupFailure    = "signup_failure"
	auditEventLoginSuccess     = "login_success"
	auditEventLoginFailure     = "login_failure"
	auditEventChallengeIssued  = "two_fa_challenge_issued"
	auditEventChallengePending = "two_fa_challenge_pending"
	auditEventTwoFASuccess     = "two_fa_success"
	auditEventTwoFAFailure     = "two_fa_failure"
	auditEventPasswordUpgraded = "password_hash_upgraded"
	auditEventLogoutSuccess    = "logout_success"
	auditEventLogoutFailure    = "logout_failure"
	auditEventTokenVerified    = "token_verified"
	auditEventTokenRejected    = "token_rejected"
)

// AuditErrorCode is the stable error label recorded on failed audit events.
type AuditErrorCode string

const (
	auditErrInvalidInput         AuditErrorCode = "invalid_input"
	auditErrIncorrectCredentials AuditErrorCode = "incorrect_credentials"
	auditErrDuplicate            AuditErrorCode = "duplicate"
	auditErrChallengePending     AuditErrorCode = "challenge_pending"
	auditErrMissingToken         AuditErrorCode = "missing_token"
	auditErrInvalidToken         AuditErrorCode = "invalid_token"
	auditErrUnavailable          AuditErrorCode = "backend_unavailable"
	auditErrInternal             AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	email string,
	err error,
	metadata map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Email:     email,
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidInput
	case errors.Is(err, ErrIncorrectCredentials):
		return auditErrIncorrectCredentials
	case errors.Is(err, ErrUserAlreadyExists):
		return auditErrDuplicate
	case errors.Is(err, ErrChallengePending):
		return auditErrChallengePending
	case errors.Is(err, ErrMissingToken):
		return auditErrMissingToken
	case errors.Is(err, ErrInvalidToken):
		return auditErrInvalidToken
	case errors.Is(err, stores.ErrStoreUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
