package authcore

import (
	"context"
	"errors"

	"github.com/MrEthical07/authcore/domain"
	"github.com/MrEthical07/authcore/email"
	"github.com/MrEthical07/authcore/jwt"
	"github.com/MrEthical07/authcore/password"
	"github.com/MrEthical07/authcore/stores"
)

// Engine orchestrates the authentication lifecycle: signup, login with
// optional 2FA, challenge redemption, logout, and token verification. Build
// one through the Builder; an Engine is safe for concurrent use.
type Engine struct {
	config     Config
	users      stores.UserStore
	banned     stores.BannedTokenStore
	challenges stores.TwoFACodeStore
	passwords  *password.Pool
	tokens     *jwt.Manager
	mailer     email.Client
	audit      *auditDispatcher
}

// LoginResult is the outcome of a successful Login call. Exactly one of Token
// and LoginAttemptID is set: Token when the account does not require 2FA,
// LoginAttemptID when a challenge was issued and the code went out by email.
type LoginResult struct {
	Token          string
	TwoFARequired  bool
	LoginAttemptID string
}

// Close drains and stops the audit dispatcher. Stores and clients supplied
// from outside are not closed.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// Signup validates the credential shape, hashes the password, and stores the
// new account. A taken email returns ErrUserAlreadyExists; malformed input
// returns ErrInvalidCredentials before any store access.
func (e *Engine) Signup(ctx context.Context, rawEmail, rawPassword string, requires2FA bool) error {
	emailAddr, err := domain.ParseEmail(rawEmail)
	if err != nil {
		return e.fail(ctx, auditEventSignupFailure, rawEmail, ErrInvalidCredentials, nil)
	}
	pw, err := domain.ParsePassword(rawPassword)
	if err != nil {
		return e.fail(ctx, auditEventSignupFailure, emailAddr.String(), ErrInvalidCredentials, nil)
	}

	hash, err := e.passwords.Hash(ctx, pw.Expose())
	if err != nil {
		return e.fail(ctx, auditEventSignupFailure, emailAddr.String(), ErrUnexpected, err)
	}

	if err := e.users.Add(ctx, domain.NewUser(emailAddr, hash, requires2FA)); err != nil {
		if errors.Is(err, stores.ErrUserExists) {
			return e.fail(ctx, auditEventSignupDuplicate, emailAddr.String(), ErrUserAlreadyExists, nil)
		}
		return e.fail(ctx, auditEventSignupFailure, emailAddr.String(), ErrUnexpected, err)
	}

	e.emitAudit(ctx, auditEventSignupSuccess, true, emailAddr.String(), nil, nil)
	return nil
}

// Login checks the credentials and either issues a bearer token directly or,
// for 2FA accounts, creates a challenge and emails the code. Unknown emails
// and wrong passwords are indistinguishable in both the returned error and
// the time taken.
func (e *Engine) Login(ctx context.Context, rawEmail, rawPassword string) (*LoginResult, error) {
	emailAddr, err := domain.ParseEmail(rawEmail)
	if err != nil {
		return nil, e.fail(ctx, auditEventLoginFailure, rawEmail, ErrInvalidCredentials, nil)
	}
	pw, err := domain.ParsePassword(rawPassword)
	if err != nil {
		return nil, e.fail(ctx, auditEventLoginFailure, emailAddr.String(), ErrInvalidCredentials, nil)
	}

	if err := e.users.Validate(ctx, emailAddr, pw); err != nil {
		switch {
		case errors.Is(err, stores.ErrUserNotFound), errors.Is(err, stores.ErrInvalidPassword):
			return nil, e.fail(ctx, auditEventLoginFailure, emailAddr.String(), ErrIncorrectCredentials, nil)
		default:
			return nil, e.fail(ctx, auditEventLoginFailure, emailAddr.String(), ErrUnexpected, err)
		}
	}

	user, err := e.users.Get(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, stores.ErrUserNotFound) {
			// Deleted between validate and read. Same rejection as a miss.
			return nil, e.fail(ctx, auditEventLoginFailure, emailAddr.String(), ErrIncorrectCredentials, nil)
		}
		return nil, e.fail(ctx, auditEventLoginFailure, emailAddr.String(), ErrUnexpected, err)
	}

	e.maybeUpgradeHash(ctx, user, pw)

	if !user.Requires2FA {
		token, err := e.tokens.Issue(emailAddr.String())
		if err != nil {
			return nil, e.fail(ctx, auditEventLoginFailure, emailAddr.String(), ErrUnexpected, err)
		}
		e.emitAudit(ctx, auditEventLoginSuccess, true, emailAddr.String(), nil, nil)
		return &LoginResult{Token: token}, nil
	}

	return e.issueChallenge(ctx, emailAddr)
}

func (e *Engine) issueChallenge(ctx context.Context, emailAddr domain.Email) (*LoginResult, error) {
	id := domain.NewLoginAttemptID()
	code, err := domain.NewTwoFACode()
	if err != nil {
		return nil, e.fail(ctx, auditEventLoginFailure, emailAddr.String(), ErrUnexpected, err)
	}

	if err := e.challenges.Add(ctx, emailAddr, id, code); err != nil {
		if errors.Is(err, stores.ErrChallengeExists) {
			return nil, e.fail(ctx, auditEventChallengePending, emailAddr.String(), ErrChallengePending, nil)
		}
		return nil, e.fail(ctx, auditEventLoginFailure, emailAddr.String(), ErrUnexpected, err)
	}

	// No rollback if delivery fails: the challenge self-expires via TTL.
	if err := e.mailer.Send(ctx, emailAddr, e.config.Challenge.EmailSubject, code.Expose()); err != nil {
		return nil, e.fail(ctx, auditEventLoginFailure, emailAddr.String(), ErrUnexpected, err)
	}

	e.emitAudit(ctx, auditEventChallengeIssued, true, emailAddr.String(), nil, nil)
	return &LoginResult{
		TwoFARequired:  true,
		LoginAttemptID: id.String(),
	}, nil
}

// maybeUpgradeHash rewrites the stored hash with current parameters after a
// successful password check. Best effort: a failed upgrade never fails the
// login.
func (e *Engine) maybeUpgradeHash(ctx context.Context, user domain.User, pw domain.Password) {
	if !e.config.Password.UpgradeOnLogin {
		return
	}
	updater, ok := e.users.(stores.HashUpdater)
	if !ok {
		return
	}
	needs, err := e.passwords.NeedsUpgrade(user.PasswordHash)
	if err != nil || !needs {
		return
	}

	newHash, err := e.passwords.Hash(ctx, pw.Expose())
	if err != nil {
		return
	}
	if err := updater.UpdateHash(ctx, user.Email, newHash); err != nil {
		return
	}
	e.emitAudit(ctx, auditEventPasswordUpgraded, true, user.Email.String(), nil, nil)
}

// fail emits a failure audit event and returns the public error. The internal
// cause goes into event metadata only, and sharpens the event's error code
// when it identifies a backend fault.
func (e *Engine) fail(ctx context.Context, eventType, email string, public, cause error) error {
	var metadata map[string]string
	classify := public
	if cause != nil {
		metadata = map[string]string{"cause": cause.Error()}
		if errors.Is(cause, stores.ErrStoreUnavailable) {
			classify = cause
		}
	}
	e.emitAudit(ctx, eventType, false, email, classify, metadata)
	return public
}
