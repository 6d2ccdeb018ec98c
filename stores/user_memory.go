package stores

import (
	"context"
	"sync"

	"github.com/MrEthical07/authcore/domain"
)

// MemoryUserStore keeps credential records in a mutex-guarded map. Readers
// proceed concurrently; Add holds the write lock across the duplicate check
// and the insert, so concurrent signups for one email cannot both succeed.
type MemoryUserStore struct {
	mu        sync.RWMutex
	users     map[string]domain.User
	verifier  PasswordVerifier
	decoyHash string
}

// NewMemoryUserStore returns an empty store. decoyHash is a valid hash of a
// throwaway password; Validate verifies against it when the email lookup
// misses so both failure paths cost one Argon2 computation.
func NewMemoryUserStore(verifier PasswordVerifier, decoyHash string) *MemoryUserStore {
	return &MemoryUserStore{
		users:     make(map[string]domain.User),
		verifier:  verifier,
		decoyHash: decoyHash,
	}
}

// Add stores user, rejecting duplicates atomically.
func (s *MemoryUserStore) Add(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := user.Email.String()
	if _, exists := s.users[key]; exists {
		return ErrUserExists
	}
	s.users[key] = user
	return nil
}

// Get returns the credential record for email.
func (s *MemoryUserStore) Get(_ context.Context, email domain.Email) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[email.String()]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return user, nil
}

// UpdateHash replaces the stored password hash for email.
func (s *MemoryUserStore) UpdateHash(_ context.Context, email domain.Email, newHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := email.String()
	user, ok := s.users[key]
	if !ok {
		return ErrUserNotFound
	}
	user.PasswordHash = newHash
	s.users[key] = user
	return nil
}

// Validate compares password against the stored hash. The lock is released
// before the Argon2 work so a slow verification does not serialize readers.
func (s *MemoryUserStore) Validate(ctx context.Context, email domain.Email, password domain.Password) error {
	s.mu.RLock()
	user, ok := s.users[email.String()]
	s.mu.RUnlock()

	if !ok {
		// Burn a verification anyway so the miss costs as much as a mismatch.
		if _, err := s.verifier.Verify(ctx, password.Expose(), s.decoyHash); err != nil {
			return wrapUnavailable(err)
		}
		return ErrUserNotFound
	}

	match, err := s.verifier.Verify(ctx, password.Expose(), user.PasswordHash)
	if err != nil {
		return wrapUnavailable(err)
	}
	if !match {
		return ErrInvalidPassword
	}
	return nil
}
