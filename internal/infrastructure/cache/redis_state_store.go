package cache

import (
	"context"
	"errors"
	"time"

	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStateStore implements StateStore using Redis. Suitable for
// distributed deployments where the connect redirect and the provider
// callback can land on different instances.
type RedisStateStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStateStore creates a Redis-backed state store with an existing
// client. An empty keyPrefix falls back to the default.
func NewRedisStateStore(client *redis.Client, keyPrefix string) *RedisStateStore {
	if keyPrefix == "" {
		keyPrefix = "accounting:oauth:state:"
	}
	return &RedisStateStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Put stores a state token for a company with a TTL
func (s *RedisStateStore) Put(ctx context.Context, state string, companyID uuid.UUID, ttl time.Duration) error {
	return s.client.Set(ctx, s.keyPrefix+state, companyID.String(), ttl).Err()
}

// Consume returns the company bound to a state and deletes it atomically
func (s *RedisStateStore) Consume(ctx context.Context, state string) (uuid.UUID, error) {
	value, err := s.client.GetDel(ctx, s.keyPrefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, shared.ErrNotFound
		}
		return uuid.Nil, err
	}

	companyID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, shared.ErrNotFound
	}
	return companyID, nil
}
