// Package storage provides the durable key-value store backing the guest
// cart. The cart layer serializes line items itself; this package only
// moves bytes under fixed keys.
package storage

import "context"

// Store is a durable key-value store. Implementations return an error
// wrapping apperrors.ErrNotFound from Get when the key holds no value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
