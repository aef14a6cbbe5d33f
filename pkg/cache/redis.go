package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sternrassler/swapi-reader/pkg/swapi"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps snapshots as redis strings without expiry.
type RedisStore struct {
	redis     *redis.Client
	namespace string
}

// NewRedisStore creates a redis-backed store. An empty namespace uses DefaultNamespace.
func NewRedisStore(redisClient *redis.Client, namespace string) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{
		redis:     redisClient,
		namespace: namespace,
	}
}

func (s *RedisStore) key(name swapi.Name) string {
	return SnapshotKey{Namespace: s.namespace, Collection: name}.String()
}

// Backend implements Store.
func (s *RedisStore) Backend() string {
	return "redis"
}

// Lookup implements Store.
func (s *RedisStore) Lookup(ctx context.Context, name swapi.Name) (Snapshot, error) {
	data, err := s.redis.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Absent(), nil
		}
		CacheErrors.WithLabelValues("get").Inc()
		return Snapshot{}, fmt.Errorf("cache: redis get %s: %w", s.key(name), err)
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return Snapshot{}, fmt.Errorf("cache: %s: %w", s.key(name), err)
	}
	return snap, nil
}

// Save implements Store. SET replaces the value atomically.
func (s *RedisStore) Save(ctx context.Context, name swapi.Name, records swapi.Collection) (int, error) {
	data, err := encodeSnapshot(records)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return 0, err
	}
	if err := s.redis.Set(ctx, s.key(name), data, 0).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return 0, fmt.Errorf("cache: redis set %s: %w", s.key(name), err)
	}
	return len(data), nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, name swapi.Name) error {
	if err := s.redis.Del(ctx, s.key(name)).Err(); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("cache: redis del %s: %w", s.key(name), err)
	}
	return nil
}
