package services

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const idempotencyKeyPrefix = "transfer:idem:"

// IdempotencyStore replays completed transfer responses for retried requests
// carrying the same Idempotency-Key. It is best effort and lives entirely
// outside the transactional core: a Redis outage only disables retry
// deduplication, never a transfer.
type IdempotencyStore struct {
	redis *redis.Client
	ttl   time.Duration
	log   *logrus.Logger
}

func NewIdempotencyStore(client *redis.Client, ttl time.Duration, log *logrus.Logger) *IdempotencyStore {
	return &IdempotencyStore{redis: client, ttl: ttl, log: log}
}

// Lookup returns the stored response payload for key, if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) ([]byte, bool) {
	if s == nil || s.redis == nil {
		return nil, false
	}
	payload, err := s.redis.Get(ctx, idempotencyKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		s.log.Warnf("idempotency lookup failed: %v", err)
		return nil, false
	}
	return payload, true
}

// Save stores the response payload for key.
func (s *IdempotencyStore) Save(ctx context.Context, key string, payload []byte) {
	if s == nil || s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, idempotencyKeyPrefix+key, payload, s.ttl).Err(); err != nil {
		s.log.Warnf("idempotency save failed: %v", err)
	}
}
