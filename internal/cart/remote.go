package cart

import (
	"context"

	"github.com/kelly-developers/agriecommerce/internal/domain"
	"github.com/kelly-developers/agriecommerce/internal/marketplace"
)

// RemoteBackend delegates cart persistence to the marketplace cart API
// for an authenticated session. Divergence between the marketplace cart
// and the Store's local mirror after a failed call is accepted; the next
// successful load re-fetches the authoritative state.
type RemoteBackend struct {
	client *marketplace.Client
}

// NewRemoteBackend creates a marketplace-backed cart backend.
func NewRemoteBackend(client *marketplace.Client) *RemoteBackend {
	return &RemoteBackend{client: client}
}

// Load fetches the authenticated user's cart from the marketplace.
func (b *RemoteBackend) Load(ctx context.Context) (*domain.Cart, error) {
	return b.client.GetCart(ctx)
}

// AddItem adds the product to the marketplace cart.
func (b *RemoteBackend) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	return b.client.AddCartItem(ctx, product.ID, quantity)
}

// SetQuantity updates the marketplace cart item's quantity. Zero or less
// removes the item.
func (b *RemoteBackend) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return b.client.RemoveCartItem(ctx, productID)
	}
	return b.client.UpdateCartItem(ctx, productID, quantity)
}

// RemoveItem deletes the item from the marketplace cart.
func (b *RemoteBackend) RemoveItem(ctx context.Context, productID string) error {
	return b.client.RemoveCartItem(ctx, productID)
}

// Clear empties the marketplace cart.
func (b *RemoteBackend) Clear(ctx context.Context) error {
	return b.client.ClearCart(ctx)
}
