package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kelly-developers/agriecommerce/pkg/errors"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, time.Hour), mr
}

func TestRedisStoreSetGet(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "guest_cart:abc", []byte(`[{"quantity":2}]`)))

	data, err := store.Get(ctx, "guest_cart:abc")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"quantity":2}]`), data)
}

func TestRedisStoreGetMissingKey(t *testing.T) {
	store, _ := newTestRedisStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestRedisStoreDelete(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestRedisStoreAppliesTTL(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))

	mr.FastForward(2 * time.Hour)

	_, err := store.Get(ctx, "k")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
