// Package session owns per-session state for the storefront: the cart
// store, the session's marketplace client and auth token, and the
// guest/authenticated mode transitions.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kelly-developers/agriecommerce/internal/cart"
	"github.com/kelly-developers/agriecommerce/internal/cart/storage"
	"github.com/kelly-developers/agriecommerce/internal/checkout"
	"github.com/kelly-developers/agriecommerce/internal/domain"
	"github.com/kelly-developers/agriecommerce/internal/marketplace"
	"github.com/kelly-developers/agriecommerce/internal/payment"
)

// Session is one storefront session. The zero mode is guest: the cart
// lives in local durable storage. After Login the cart is backed by the
// marketplace API until Logout.
type Session struct {
	ID string

	Cart     *cart.Store
	Checkout *checkout.Service

	mu    sync.RWMutex
	token string

	client *marketplace.Client
	local  *cart.LocalBackend
}

// Token returns the session's bearer token, or empty for a guest.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether the session has a bearer token.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func (s *Session) setToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Manager creates and tracks sessions, sharing the HTTP transport and
// guest-cart storage across them.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	baseURL     string
	doer        marketplace.Doer
	storage     storage.Store
	logger      *slog.Logger
	payCfg      payment.Config
	deliveryFee int64
}

// NewManager creates a session manager.
func NewManager(baseURL string, doer marketplace.Doer, store storage.Store, logger *slog.Logger, payCfg payment.Config, deliveryFee int64) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		baseURL:     baseURL,
		doer:        doer,
		storage:     store,
		logger:      logger,
		payCfg:      payCfg,
		deliveryFee: deliveryFee,
	}
}

// Get returns the session for id, creating a guest session on first use.
// The guest cart is seeded from durable storage, so it survives restarts.
func (m *Manager) Get(ctx context.Context, id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[id]; ok {
		return sess
	}

	sess := &Session{ID: id}
	log := m.logger.With(slog.String("session_id", id))

	sess.client = marketplace.NewClient(m.baseURL, m.doer, sess.Token)
	sess.local = cart.NewLocalBackend(m.storage, cart.GuestCartKey+":"+id)
	sess.Cart = cart.NewStore(ctx, sess.local, log)

	confirmer := payment.NewConfirmer(sess.client, log, m.payCfg)
	sess.Checkout = checkout.NewService(sess.Cart, confirmer, sess.client, log, m.deliveryFee)

	m.sessions[id] = sess
	return sess
}

// Login switches the session to authenticated mode. The guest cart is
// abandoned and the marketplace cart becomes authoritative; the two are
// not merged.
func (m *Manager) Login(ctx context.Context, id, token string) *Session {
	sess := m.Get(ctx, id)
	sess.setToken(token)
	sess.Cart.SetBackend(ctx, cart.NewRemoteBackend(sess.client))

	m.logger.InfoContext(ctx, "session authenticated",
		slog.String("session_id", id),
		slog.Int("cart_items", sess.Cart.TotalItems()),
	)
	return sess
}

// Logout reverts the session to guest mode, restoring the persisted
// guest cart.
func (m *Manager) Logout(ctx context.Context, id string) *Session {
	sess := m.Get(ctx, id)
	sess.setToken("")
	sess.Cart.SetBackend(ctx, sess.local)

	m.logger.InfoContext(ctx, "session logged out",
		slog.String("session_id", id),
	)
	return sess
}

// Snapshot is the render-ready view of a session cart.
type Snapshot struct {
	Items      []domain.LineItem `json:"items"`
	TotalPrice int64             `json:"total_price"`
	TotalItems int               `json:"total_items"`
}

// Snapshot returns the session cart's current items and totals.
func (s *Session) Snapshot() Snapshot {
	items := s.Cart.Items()
	return Snapshot{
		Items:      items,
		TotalPrice: s.Cart.TotalPrice(),
		TotalItems: s.Cart.TotalItems(),
	}
}
