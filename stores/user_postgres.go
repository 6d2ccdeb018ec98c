package stores

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrEthical07/authcore/domain"
)

// UsersSchema is the DDL the Postgres backend expects. Running it is the
// operator's job (migration tooling stays outside this library).
const UsersSchema = `
CREATE TABLE IF NOT EXISTS users (
    email         TEXT PRIMARY KEY,
    password_hash TEXT NOT NULL,
    requires_2fa  BOOLEAN NOT NULL DEFAULT FALSE
);
`

const pgUniqueViolation = "23505"

// PostgresUserStore keeps credential records in a users table, one row per
// email. Open the *sql.DB with the pgx stdlib driver:
//
//	import _ "github.com/jackc/pgx/v5/stdlib"
//	db, err := sql.Open("pgx", dsn)
type PostgresUserStore struct {
	db        *sql.DB
	verifier  PasswordVerifier
	decoyHash string
}

// NewPostgresUserStore binds a store to db. decoyHash serves the same
// purpose as in NewMemoryUserStore.
func NewPostgresUserStore(db *sql.DB, verifier PasswordVerifier, decoyHash string) *PostgresUserStore {
	return &PostgresUserStore{
		db:        db,
		verifier:  verifier,
		decoyHash: decoyHash,
	}
}

// Add inserts the credential record. The primary-key constraint makes the
// duplicate check atomic; a unique violation maps to ErrUserExists.
func (s *PostgresUserStore) Add(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (email, password_hash, requires_2fa)
		VALUES ($1, $2, $3)
		`

	if _, err := s.db.ExecContext(ctx, query,
		user.Email.String(), user.PasswordHash, user.Requires2FA); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrUserExists
		}
		return wrapUnavailable(err)
	}

	return nil
}

// Get returns the credential record for email.
func (s *PostgresUserStore) Get(ctx context.Context, email domain.Email) (domain.User, error) {
	query := `
		SELECT email, password_hash, requires_2fa FROM users
		WHERE email = $1
		`

	var (
		rawEmail    string
		hash        string
		requires2FA bool
	)
	err := s.db.QueryRowContext(ctx, query, email.String()).Scan(&rawEmail, &hash, &requires2FA)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, wrapUnavailable(err)
	}

	parsed, err := domain.ParseEmail(rawEmail)
	if err != nil {
		return domain.User{}, wrapUnavailable(err)
	}

	return domain.NewUser(parsed, hash, requires2FA), nil
}

// UpdateHash replaces the stored password hash for email.
func (s *PostgresUserStore) UpdateHash(ctx context.Context, email domain.Email, newHash string) error {
	query := `
		UPDATE users SET password_hash = $2
		WHERE email = $1
		`

	res, err := s.db.ExecContext(ctx, query, email.String(), newHash)
	if err != nil {
		return wrapUnavailable(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return wrapUnavailable(err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Validate fetches the stored hash and compares in constant time. A missing
// row burns a decoy verification so the miss is latency-indistinguishable
// from a mismatch.
func (s *PostgresUserStore) Validate(ctx context.Context, email domain.Email, password domain.Password) error {
	query := `
		SELECT password_hash FROM users
		WHERE email = $1
		`

	var hash string
	err := s.db.QueryRowContext(ctx, query, email.String()).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, verr := s.verifier.Verify(ctx, password.Expose(), s.decoyHash); verr != nil {
				return wrapUnavailable(verr)
			}
			return ErrUserNotFound
		}
		return wrapUnavailable(err)
	}

	match, err := s.verifier.Verify(ctx, password.Expose(), hash)
	if err != nil {
		return wrapUnavailable(err)
	}
	if !match {
		return ErrInvalidPassword
	}
	return nil
}
