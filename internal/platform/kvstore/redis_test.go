package kvstore

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis instance for testing.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return client
}

func TestNewRedisStore(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, "nexus")

	assert.NotNil(t, store, "store is nil")
	assert.Equal(t, "nexus", store.prefix)
}

func TestRedisStore_SetGet(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, "nexus")
	ctx := context.Background()

	err := store.Set(ctx, "nexus_db_users", []byte(`[{"email":"a@b.c"}]`))
	require.NoError(t, err)

	got, err := store.Get(ctx, "nexus_db_users")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"email":"a@b.c"}]`), got)
}

func TestRedisStore_SetOverwrites(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, "nexus")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("old")))
	require.NoError(t, store.Set(ctx, "k", []byte("new")))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestRedisStore_GetMissingKey(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, "nexus")

	_, err := store.Get(context.Background(), "does-not-exist")

	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisStore_KeysAreNamespaced(t *testing.T) {
	client := setupTestRedis(t)
	a := NewRedisStore(client, "a")
	b := NewRedisStore(client, "b")
	ctx := context.Background()

	require.NoError(t, a.Set(ctx, "k", []byte("va")))

	_, err := b.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

// TestRedisStore_GetError はRedis障害がErrKeyNotFoundに化けないことを検証します。
func TestRedisStore_GetError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, "nexus")

	mock.ExpectGet("nexus:k").SetErr(errors.New("connection refused"))

	_, err := store.Get(context.Background(), "k")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrKeyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
