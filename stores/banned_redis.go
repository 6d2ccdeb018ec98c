package stores

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const bannedTokenPrefix = "banned_token"

// RedisBannedTokenStore keeps revoked tokens as TTL-bound Redis keys, so
// entries age out natively with no sweep.
type RedisBannedTokenStore struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisBannedTokenStore binds a store to redisClient. Entries expire after
// ttl, which must be at least the token validity window.
func NewRedisBannedTokenStore(redisClient redis.UniversalClient, ttl time.Duration) *RedisBannedTokenStore {
	return &RedisBannedTokenStore{
		redis:  redisClient,
		prefix: bannedTokenPrefix,
		ttl:    ttl,
	}
}

func (s *RedisBannedTokenStore) key(token string) string {
	return s.prefix + ":" + token
}

// Ban sets the token key with the configured TTL. SET is idempotent; a repeat
// ban just refreshes the expiry.
func (s *RedisBannedTokenStore) Ban(ctx context.Context, token string) error {
	if err := s.redis.Set(ctx, s.key(token), true, s.ttl).Err(); err != nil {
		return wrapUnavailable(err)
	}
	return nil
}

// Contains reports whether token currently has a ban key.
func (s *RedisBannedTokenStore) Contains(ctx context.Context, token string) (bool, error) {
	n, err := s.redis.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return false, wrapUnavailable(err)
	}
	return n > 0, nil
}
