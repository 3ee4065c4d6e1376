package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kelly-developers/agriecommerce/internal/domain"
	"github.com/kelly-developers/agriecommerce/internal/session"
	"github.com/kelly-developers/agriecommerce/pkg/httputil"
	"github.com/kelly-developers/agriecommerce/pkg/validator"
)

// CartHandler handles HTTP requests for the session cart.
type CartHandler struct {
	sessions *session.Manager
	logger   *slog.Logger
}

// NewCartHandler creates a cart HTTP handler.
func NewCartHandler(sessions *session.Manager, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// AddItemRequest is the JSON body for adding an item to the cart. Product
// details travel with the request so a guest cart can render without
// another catalog round-trip.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Price     int64  `json:"price" validate:"gte=0"`
	Stock     int    `json:"stock" validate:"gte=0"`
	Unit      string `json:"unit"`
	ImageURL  string `json:"image_url"`
	Quantity  int    `json:"quantity"`
}

// UpdateQuantityRequest is the JSON body for setting an item's quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Get(r.Context(), sessionID(r))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess.Snapshot()})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	sess := h.sessions.Get(r.Context(), sessionID(r))
	sess.Cart.AddItem(r.Context(), domain.Product{
		ID:       req.ProductID,
		Name:     req.Name,
		Price:    req.Price,
		Stock:    req.Stock,
		Unit:     req.Unit,
		ImageURL: req.ImageURL,
	}, req.Quantity)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess.Snapshot()})
}

// UpdateQuantity handles PUT /api/v1/cart/items/{productID}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sess := h.sessions.Get(r.Context(), sessionID(r))
	sess.Cart.UpdateQuantity(r.Context(), productID, req.Quantity)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess.Snapshot()})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	sess := h.sessions.Get(r.Context(), sessionID(r))
	sess.Cart.RemoveItem(r.Context(), productID)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess.Snapshot()})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Get(r.Context(), sessionID(r))
	sess.Cart.Clear(r.Context())

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess.Snapshot()})
}
