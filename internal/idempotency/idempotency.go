// Package idempotency remembers which order a client-supplied
// Idempotency-Key produced, so a retried POST /orders returns the same order
// instead of placing a second one.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyOrderCreate = "idem:order:create:%s:%s"
	pending        = "pending"
)

// ErrInProgress is returned by Begin while another request with the same key
// is still being served.
var ErrInProgress = errors.New("request with this idempotency key is in progress")

// Store records the outcome of keyed requests.
type Store interface {
	// Begin claims key for userID. It returns started=true when the caller
	// now owns the key, or the order ID a previous request stored under it.
	Begin(ctx context.Context, userID, key string) (orderID string, started bool, err error)
	// Complete stores the order produced under a claimed key.
	Complete(ctx context.Context, userID, key, orderID string) error
	// Abort releases a claimed key so the request can be retried.
	Abort(ctx context.Context, userID, key string) error
}

// RedisStore is a Store backed by Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Begin(ctx context.Context, userID, key string) (string, bool, error) {
	k := fmt.Sprintf(keyOrderCreate, userID, key)

	ok, err := s.client.SetNX(ctx, k, pending, s.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("redis setnx failed: %w", err)
	}
	if ok {
		return "", true, nil
	}

	orderID, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// Expired or aborted between the two calls; try once more.
		return s.Begin(ctx, userID, key)
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get failed: %w", err)
	}
	if orderID == pending {
		return "", false, ErrInProgress
	}
	return orderID, false, nil
}

func (s *RedisStore) Complete(ctx context.Context, userID, key, orderID string) error {
	if err := s.client.Set(ctx, fmt.Sprintf(keyOrderCreate, userID, key), orderID, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Abort(ctx context.Context, userID, key string) error {
	if err := s.client.Del(ctx, fmt.Sprintf(keyOrderCreate, userID, key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
