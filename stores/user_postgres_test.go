package stores

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/authcore/domain"
)

func newPostgresStoreWithMock(t *testing.T) (*PostgresUserStore, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresUserStore(db, plainVerifier{}, testDecoyHash), mock, db
}

const (
	insertUserPattern   = `(?s)^\s*INSERT\s+INTO\s+users\s*\(email,\s*password_hash,\s*requires_2fa\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*$`
	selectUserPattern   = `(?s)^\s*SELECT\s+email,\s*password_hash,\s*requires_2fa\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	selectHashPattern   = `(?s)^\s*SELECT\s+password_hash\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	storedPasswordHash  = "hash:password123"
	storedAccountEmail  = "alice@example.com"
	candidatePlaintext  = "password123"
	mismatchedPlaintext = "wrong-password"
)

func TestPostgresUserStoreAdd(t *testing.T) {
	store, mock, db := newPostgresStoreWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertUserPattern).
		WithArgs(storedAccountEmail, storedPasswordHash, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Add(context.Background(), domain.NewUser(mustEmail(t, storedAccountEmail), storedPasswordHash, false))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserStoreAddDuplicate(t *testing.T) {
	store, mock, db := newPostgresStoreWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertUserPattern).
		WithArgs(storedAccountEmail, storedPasswordHash, false).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_pkey"})

	err := store.Add(context.Background(), domain.NewUser(mustEmail(t, storedAccountEmail), storedPasswordHash, false))
	require.ErrorIs(t, err, ErrUserExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserStoreAddBackendFault(t *testing.T) {
	store, mock, db := newPostgresStoreWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertUserPattern).
		WithArgs(storedAccountEmail, storedPasswordHash, false).
		WillReturnError(errors.New("connection refused"))

	err := store.Add(context.Background(), domain.NewUser(mustEmail(t, storedAccountEmail), storedPasswordHash, false))
	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.NotErrorIs(t, err, ErrUserExists)
}

func TestPostgresUserStoreGet(t *testing.T) {
	store, mock, db := newPostgresStoreWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"email", "password_hash", "requires_2fa"}).
		AddRow(storedAccountEmail, storedPasswordHash, true)
	mock.ExpectQuery(selectUserPattern).WithArgs(storedAccountEmail).WillReturnRows(rows)

	user, err := store.Get(context.Background(), mustEmail(t, storedAccountEmail))
	require.NoError(t, err)
	require.Equal(t, storedAccountEmail, user.Email.String())
	require.Equal(t, storedPasswordHash, user.PasswordHash)
	require.True(t, user.Requires2FA)
}

func TestPostgresUserStoreGetNotFound(t *testing.T) {
	store, mock, db := newPostgresStoreWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectUserPattern).WithArgs(storedAccountEmail).WillReturnError(sql.ErrNoRows)

	_, err := store.Get(context.Background(), mustEmail(t, storedAccountEmail))
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestPostgresUserStoreValidate(t *testing.T) {
	store, mock, db := newPostgresStoreWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"password_hash"}).AddRow(storedPasswordHash)
	mock.ExpectQuery(selectHashPattern).WithArgs(storedAccountEmail).WillReturnRows(rows)

	err := store.Validate(context.Background(), mustEmail(t, storedAccountEmail), mustPassword(t, candidatePlaintext))
	require.NoError(t, err)
}

func TestPostgresUserStoreValidateWrongPassword(t *testing.T) {
	store, mock, db := newPostgresStoreWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"password_hash"}).AddRow(storedPasswordHash)
	mock.ExpectQuery(selectHashPattern).WithArgs(storedAccountEmail).WillReturnRows(rows)

	err := store.Validate(context.Background(), mustEmail(t, storedAccountEmail), mustPassword(t, mismatchedPlaintext))
	require.ErrorIs(t, err, ErrInvalidPassword)
}

func TestPostgresUserStoreValidateUnknownUser(t *testing.T) {
	store, mock, db := newPostgresStoreWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectHashPattern).WithArgs(storedAccountEmail).WillReturnError(sql.ErrNoRows)

	err := store.Validate(context.Background(), mustEmail(t, storedAccountEmail), mustPassword(t, candidatePlaintext))
	require.ErrorIs(t, err, ErrUserNotFound)
}
