package stores

import (
	"context"
	"sync"
	"time"
)

// MemoryBannedTokenStore keeps revoked tokens in a map stamped with expiry
// times. Stale entries read as absent immediately and are swept opportunistically
// on writes, bounding growth without a background task.
type MemoryBannedTokenStore struct {
	mu      sync.RWMutex
	banned  map[string]time.Time
	ttl     time.Duration
	nowFunc func() time.Time
}

// NewMemoryBannedTokenStore returns an empty store whose ban entries expire
// after ttl. The ttl must be at least the token validity window so a revoked
// token can never outlive its ban.
func NewMemoryBannedTokenStore(ttl time.Duration) *MemoryBannedTokenStore {
	return &MemoryBannedTokenStore{
		banned:  make(map[string]time.Time),
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

// Ban records token. Banning an already-banned token refreshes its expiry and
// is not an error.
func (s *MemoryBannedTokenStore) Ban(_ context.Context, token string) error {
	now := s.nowFunc()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, expiry := range s.banned {
		if now.After(expiry) {
			delete(s.banned, key)
		}
	}
	s.banned[token] = now.Add(s.ttl)
	return nil
}

// Contains reports whether token has a live ban entry.
func (s *MemoryBannedTokenStore) Contains(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	expiry, ok := s.banned[token]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}
	return s.nowFunc().Before(expiry), nil
}
