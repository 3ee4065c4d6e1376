package cart

import (
	"context"

	"github.com/kelly-developers/agriecommerce/internal/domain"
)

// Backend is the persistence strategy behind a Store. Guest sessions use
// LocalBackend (durable local storage); authenticated sessions use
// RemoteBackend (the marketplace cart API). The Store's mutation logic is
// backend-agnostic: it attempts the backend call first and falls back to
// its in-memory state when the call fails.
type Backend interface {
	// Load returns the authoritative cart held by the backend. A backend
	// with no stored cart returns an empty cart, not an error.
	Load(ctx context.Context) (*domain.Cart, error)

	// AddItem merges quantity into the backend's line item for the product.
	AddItem(ctx context.Context, product domain.Product, quantity int) error

	// SetQuantity sets the line item's quantity. Zero or less removes it.
	SetQuantity(ctx context.Context, productID string, quantity int) error

	// RemoveItem deletes the line item for the product.
	RemoveItem(ctx context.Context, productID string) error

	// Clear removes every line item.
	Clear(ctx context.Context) error
}
