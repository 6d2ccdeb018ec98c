package stores

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/authcore/domain"
)

const twoFACodePrefix = "two_fa_code"

// twoFATuple is the serialized (login attempt id, code) pair stored per
// email.
type twoFATuple [2]string

// RedisTwoFACodeStore keeps pending challenges as TTL-bound Redis keys, one
// per email. SETNX makes the at-most-one-live-challenge invariant a single
// atomic backend operation.
type RedisTwoFACodeStore struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisTwoFACodeStore binds a store to redisClient with entry lifetime
// ttl.
func NewRedisTwoFACodeStore(redisClient redis.UniversalClient, ttl time.Duration) *RedisTwoFACodeStore {
	return &RedisTwoFACodeStore{
		redis:  redisClient,
		prefix: twoFACodePrefix,
		ttl:    ttl,
	}
}

func (s *RedisTwoFACodeStore) key(email domain.Email) string {
	return s.prefix + ":" + email.String()
}

// Add stores the challenge pair unless a live one already exists for email.
func (s *RedisTwoFACodeStore) Add(ctx context.Context, email domain.Email, id domain.LoginAttemptID, code domain.TwoFACode) error {
	encoded, err := json.Marshal(twoFATuple{id.String(), code.Expose()})
	if err != nil {
		return wrapUnavailable(err)
	}

	set, err := s.redis.SetNX(ctx, s.key(email), encoded, s.ttl).Result()
	if err != nil {
		return wrapUnavailable(err)
	}
	if !set {
		return ErrChallengeExists
	}
	return nil
}

// Get returns the live challenge pair for email.
func (s *RedisTwoFACodeStore) Get(ctx context.Context, email domain.Email) (domain.LoginAttemptID, domain.TwoFACode, error) {
	data, err := s.redis.Get(ctx, s.key(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.LoginAttemptID{}, domain.TwoFACode{}, ErrChallengeNotFound
		}
		return domain.LoginAttemptID{}, domain.TwoFACode{}, wrapUnavailable(err)
	}

	var tuple twoFATuple
	if err := json.Unmarshal(data, &tuple); err != nil {
		return domain.LoginAttemptID{}, domain.TwoFACode{}, wrapUnavailable(err)
	}

	id, err := domain.ParseLoginAttemptID(tuple[0])
	if err != nil {
		return domain.LoginAttemptID{}, domain.TwoFACode{}, wrapUnavailable(err)
	}
	code, err := domain.ParseTwoFACode(tuple[1])
	if err != nil {
		return domain.LoginAttemptID{}, domain.TwoFACode{}, wrapUnavailable(err)
	}

	return id, code, nil
}

// Remove deletes the live challenge for email.
func (s *RedisTwoFACodeStore) Remove(ctx context.Context, email domain.Email) error {
	n, err := s.redis.Del(ctx, s.key(email)).Result()
	if err != nil {
		return wrapUnavailable(err)
	}
	if n == 0 {
		return ErrChallengeNotFound
	}
	return nil
}
