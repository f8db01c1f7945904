package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func TestRedisStore_Lifecycle(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	orderID, started, err := store.Begin(ctx, "user-1", "key-1")
	require.NoError(t, err)
	assert.True(t, started)
	assert.Empty(t, orderID)

	_, _, err = store.Begin(ctx, "user-1", "key-1")
	assert.ErrorIs(t, err, ErrInProgress)

	require.NoError(t, store.Complete(ctx, "user-1", "key-1", "order-42"))
	orderID, started, err = store.Begin(ctx, "user-1", "key-1")
	require.NoError(t, err)
	assert.False(t, started)
	assert.Equal(t, "order-42", orderID)

	// Keys are scoped per user.
	_, started, err = store.Begin(ctx, "user-2", "key-1")
	require.NoError(t, err)
	assert.True(t, started)

	mr.FastForward(2 * time.Hour)
	_, started, err = store.Begin(ctx, "user-1", "key-1")
	require.NoError(t, err)
	assert.True(t, started, "expired keys can be reused")
}

func TestRedisStore_Abort(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	_, started, err := store.Begin(ctx, "user-1", "key-1")
	require.NoError(t, err)
	require.True(t, started)
	assert.True(t, mr.Exists("idem:order:create:user-1:key-1"))

	require.NoError(t, store.Abort(ctx, "user-1", "key-1"))
	assert.False(t, mr.Exists("idem:order:create:user-1:key-1"))

	_, started, err = store.Begin(ctx, "user-1", "key-1")
	require.NoError(t, err)
	assert.True(t, started)
}

func TestRedisStore_Unavailable(t *testing.T) {
	store, mr := setupTestRedis(t)
	mr.Close()

	_, _, err := store.Begin(context.Background(), "user-1", "key-1")
	assert.ErrorContains(t, err, "redis setnx failed")
}
