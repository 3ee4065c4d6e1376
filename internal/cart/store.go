// Package cart implements the session cart: a single source of truth over
// guest (local) and authenticated (marketplace-backed) storage, with
// optimistic local fallback when the backend is unreachable.
package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kelly-developers/agriecommerce/internal/domain"
)

// Store is the authoritative cart for one storefront session. All
// mutations go backend-first; when the backend call fails the same
// mutation is applied to the local mirror instead, so a customer's action
// is never silently dropped. Backend failures are logged, not surfaced.
type Store struct {
	mu      sync.Mutex
	cart    domain.Cart
	backend Backend
	logger  *slog.Logger
}

// NewStore creates a store bound to the given backend and seeds the local
// mirror from it. A failed initial load logs a warning and starts empty.
func NewStore(ctx context.Context, backend Backend, logger *slog.Logger) *Store {
	s := &Store{
		backend: backend,
		logger:  logger,
	}
	s.mu.Lock()
	s.reloadLocked(ctx, nil)
	s.mu.Unlock()
	return s
}

// Items returns a copy of the current line items.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]domain.LineItem, len(s.cart.Items))
	copy(items, s.cart.Items)
	return items
}

// TotalPrice returns the cart total in cents, recomputed from the current
// line items on every call.
func (s *Store) TotalPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalPrice()
}

// TotalItems returns the summed quantity over all line items, recomputed
// on every call.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalItems()
}

// AddItem adds quantity of the product to the cart, merging into an
// existing line item for the same product ID. A quantity below 1 is
// treated as 1. Stock limits are not enforced here; callers decide.
func (s *Store) AddItem(ctx context.Context, product domain.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.AddItem(ctx, product, quantity); err != nil {
		s.logger.WarnContext(ctx, "cart backend add failed, applying local fallback",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		s.cart.AddItem(product, quantity)
		return
	}

	s.reloadLocked(ctx, func() { s.cart.AddItem(product, quantity) })
}

// UpdateQuantity sets the quantity of the line item for the product. A
// quantity of zero or less removes the item.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(ctx, productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.SetQuantity(ctx, productID, quantity); err != nil {
		s.logger.WarnContext(ctx, "cart backend update failed, applying local fallback",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
		s.cart.SetQuantity(productID, quantity)
		return
	}

	s.reloadLocked(ctx, func() { s.cart.SetQuantity(productID, quantity) })
}

// RemoveItem deletes the line item for the product. Removing an absent
// product is a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.RemoveItem(ctx, productID); err != nil {
		s.logger.WarnContext(ctx, "cart backend remove failed, applying local fallback",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
		s.cart.RemoveItem(productID)
		return
	}

	s.reloadLocked(ctx, func() { s.cart.RemoveItem(productID) })
}

// Clear empties the cart. The local mirror is emptied even when the
// backend call fails.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Clear(ctx); err != nil {
		s.logger.WarnContext(ctx, "cart backend clear failed, clearing local state only",
			slog.String("error", err.Error()),
		)
	}
	s.cart.Clear()
}

// SetBackend switches the store to a new backend and replaces the local
// mirror with that backend's cart. The previous state is abandoned, not
// merged: at login the marketplace cart wins over the guest cart, and at
// logout the persisted guest cart is restored.
func (s *Store) SetBackend(ctx context.Context, backend Backend) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.backend = backend
	s.cart.Clear()
	s.reloadLocked(ctx, nil)
}

// reloadLocked refreshes the local mirror from the backend. On load
// failure it runs the fallback mutation (if any) against the existing
// mirror so the customer's action is still reflected. Callers hold mu.
func (s *Store) reloadLocked(ctx context.Context, fallback func()) {
	loaded, err := s.backend.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "cart backend load failed, keeping local state",
			slog.String("error", err.Error()),
		)
		if fallback != nil {
			fallback()
		}
		return
	}
	s.cart = *loaded
}
