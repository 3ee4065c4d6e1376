package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBackendDefaultsToGuestCartKey(t *testing.T) {
	backend := NewLocalBackend(newMemStorage(), "")
	assert.Equal(t, GuestCartKey, backend.key)
}

func TestLocalBackendLoadMissingKeyYieldsEmptyCart(t *testing.T) {
	backend := NewLocalBackend(newMemStorage(), GuestCartKey)

	cart, err := backend.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestLocalBackendPersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()

	backend := NewLocalBackend(storage, GuestCartKey)
	require.NoError(t, backend.AddItem(ctx, maize, 2))
	require.NoError(t, backend.AddItem(ctx, beans, 1))

	// A fresh backend over the same storage sees the same cart, the way a
	// browser reload re-reads local storage.
	reloaded := NewLocalBackend(storage, GuestCartKey)
	cart, err := reloaded.Load(ctx)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, int64(22000), cart.TotalPrice())
}

func TestLocalBackendSetQuantityAbsentProductSkipsWrite(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	backend := NewLocalBackend(storage, GuestCartKey)

	require.NoError(t, backend.SetQuantity(ctx, "missing", 3))
	assert.Empty(t, storage.data)
}

func TestLocalBackendSetQuantityZeroRemoves(t *testing.T) {
	ctx := context.Background()
	backend := NewLocalBackend(newMemStorage(), GuestCartKey)

	require.NoError(t, backend.AddItem(ctx, maize, 2))
	require.NoError(t, backend.SetQuantity(ctx, maize.ID, 0))

	cart, err := backend.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestLocalBackendClearDeletesKey(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	backend := NewLocalBackend(storage, GuestCartKey)

	require.NoError(t, backend.AddItem(ctx, maize, 1))
	require.NoError(t, backend.Clear(ctx))

	assert.Empty(t, storage.data)

	cart, err := backend.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestLocalBackendCorruptDataSurfacesError(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	require.NoError(t, storage.Set(ctx, GuestCartKey, []byte("{not json")))

	backend := NewLocalBackend(storage, GuestCartKey)
	_, err := backend.Load(ctx)
	assert.Error(t, err)
}
