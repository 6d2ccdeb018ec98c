package stores

import (
	"context"
	"sync"
	"time"

	"github.com/MrEthical07/authcore/domain"
)

type memoryChallenge struct {
	id        domain.LoginAttemptID
	code      domain.TwoFACode
	expiresAt time.Time
}

// MemoryTwoFACodeStore keeps pending challenges in a mutex-guarded map with
// per-entry expiry stamps. Add performs its existence check and insert under
// one write lock, which is the memory equivalent of Redis SETNX.
type MemoryTwoFACodeStore struct {
	mu         sync.RWMutex
	challenges map[string]memoryChallenge
	ttl        time.Duration
	nowFunc    func() time.Time
}

// NewMemoryTwoFACodeStore returns an empty store whose entries expire after
// ttl.
func NewMemoryTwoFACodeStore(ttl time.Duration) *MemoryTwoFACodeStore {
	return &MemoryTwoFACodeStore{
		challenges: make(map[string]memoryChallenge),
		ttl:        ttl,
		nowFunc:    time.Now,
	}
}

// Add stores the (id, code) pair for email, failing with ErrChallengeExists
// while a live challenge is present. An expired leftover counts as absent and
// is overwritten.
func (s *MemoryTwoFACodeStore) Add(_ context.Context, email domain.Email, id domain.LoginAttemptID, code domain.TwoFACode) error {
	now := s.nowFunc()

	s.mu.Lock()
	defer s.mu.Unlock()

	key := email.String()
	if existing, ok := s.challenges[key]; ok && now.Before(existing.expiresAt) {
		return ErrChallengeExists
	}
	s.challenges[key] = memoryChallenge{
		id:        id,
		code:      code,
		expiresAt: now.Add(s.ttl),
	}
	return nil
}

// Get returns the live challenge pair for email.
func (s *MemoryTwoFACodeStore) Get(_ context.Context, email domain.Email) (domain.LoginAttemptID, domain.TwoFACode, error) {
	s.mu.RLock()
	challenge, ok := s.challenges[email.String()]
	s.mu.RUnlock()

	if !ok || s.nowFunc().After(challenge.expiresAt) {
		return domain.LoginAttemptID{}, domain.TwoFACode{}, ErrChallengeNotFound
	}
	return challenge.id, challenge.code, nil
}

// Remove deletes the live challenge for email.
func (s *MemoryTwoFACodeStore) Remove(_ context.Context, email domain.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := email.String()
	challenge, ok := s.challenges[key]
	if !ok {
		return ErrChallengeNotFound
	}
	delete(s.challenges, key)
	if s.nowFunc().After(challenge.expiresAt) {
		return ErrChallengeNotFound
	}
	return nil
}
