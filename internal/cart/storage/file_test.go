package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kelly-developers/agriecommerce/pkg/errors"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "guest_cart:s1", []byte(`[]`)))

	data, err := store.Get(ctx, "guest_cart:s1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), data)
}

func TestFileStoreGetMissingKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestFileStoreDeleteMissingKeyIsNoOp(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "missing"))
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "guest_cart:s1", []byte(`[{"quantity":1}]`)))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	data, err := reopened.Get(ctx, "guest_cart:s1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"quantity":1}]`), data)
}
