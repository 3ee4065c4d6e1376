package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kelly-developers/agriecommerce/internal/cart/storage"
	"github.com/kelly-developers/agriecommerce/internal/domain"
	apperrors "github.com/kelly-developers/agriecommerce/pkg/errors"
)

// GuestCartKey is the fixed storage key for a guest cart. Server sessions
// namespace it with the session ID.
const GuestCartKey = "guest_cart"

// LocalBackend persists the guest cart as a single serialized list of
// line items under a fixed key. Every mutation is written through
// synchronously, so the cart survives a reload.
type LocalBackend struct {
	store storage.Store
	key   string
}

// NewLocalBackend creates a guest cart backend over the given store. An
// empty key defaults to GuestCartKey.
func NewLocalBackend(store storage.Store, key string) *LocalBackend {
	if key == "" {
		key = GuestCartKey
	}
	return &LocalBackend{
		store: store,
		key:   key,
	}
}

// Load reads the persisted guest cart. A missing key yields an empty cart.
func (b *LocalBackend) Load(ctx context.Context) (*domain.Cart, error) {
	data, err := b.store.Get(ctx, b.key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.Cart{Items: []domain.LineItem{}}, nil
		}
		return nil, fmt.Errorf("load guest cart: %w", err)
	}

	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal guest cart: %w", err)
	}

	return &domain.Cart{Items: items}, nil
}

// AddItem merges quantity into the persisted cart.
func (b *LocalBackend) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	cart, err := b.Load(ctx)
	if err != nil {
		return err
	}
	cart.AddItem(product, quantity)
	return b.persist(ctx, cart)
}

// SetQuantity sets the quantity of the persisted line item. Setting an
// absent product is a no-op.
func (b *LocalBackend) SetQuantity(ctx context.Context, productID string, quantity int) error {
	cart, err := b.Load(ctx)
	if err != nil {
		return err
	}
	if !cart.SetQuantity(productID, quantity) {
		return nil
	}
	return b.persist(ctx, cart)
}

// RemoveItem deletes the persisted line item, if present.
func (b *LocalBackend) RemoveItem(ctx context.Context, productID string) error {
	cart, err := b.Load(ctx)
	if err != nil {
		return err
	}
	if !cart.RemoveItem(productID) {
		return nil
	}
	return b.persist(ctx, cart)
}

// Clear deletes the persisted guest cart.
func (b *LocalBackend) Clear(ctx context.Context) error {
	if err := b.store.Delete(ctx, b.key); err != nil {
		return fmt.Errorf("clear guest cart: %w", err)
	}
	return nil
}

func (b *LocalBackend) persist(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("marshal guest cart: %w", err)
	}
	if err := b.store.Set(ctx, b.key, data); err != nil {
		return fmt.Errorf("persist guest cart: %w", err)
	}
	return nil
}
