package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed Store implementation. Values are encoded
// as CBOR for compact storage of the table blobs.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store over the given Redis client. The prefix
// namespaces all keys; pass "" for none.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisStore) namespaced(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

// Get decodes the value stored under key into out.
func (s *RedisStore) Get(ctx context.Context, key string, out any) (bool, error) {
	raw, err := s.client.Get(ctx, s.namespaced(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: get %s: %v", ErrStorage, key, err)
	}
	if err := cbor.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("%w: decode %s: %v", ErrStorage, key, err)
	}
	return true, nil
}

// Set stores value under key with no expiry; the marketplace tables are
// durable state, not cache entries.
func (s *RedisStore) Set(ctx context.Context, key string, value any) error {
	raw, err := cbor.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrStorage, key, err)
	}
	if err := s.client.Set(ctx, s.namespaced(key), raw, 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrStorage, key, err)
	}
	return nil
}

// Delete removes key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.namespaced(key)).Err(); err != nil {
		return fmt.Errorf("%w: del %s: %v", ErrStorage, key, err)
	}
	return nil
}
