package http

import (
	"log/slog"
	"net/http"

	"github.com/kelly-developers/agriecommerce/internal/checkout"
	"github.com/kelly-developers/agriecommerce/internal/domain"
	"github.com/kelly-developers/agriecommerce/internal/session"
	apperrors "github.com/kelly-developers/agriecommerce/pkg/errors"
	"github.com/kelly-developers/agriecommerce/pkg/httputil"
	"github.com/kelly-developers/agriecommerce/pkg/validator"
)

// CheckoutHandler handles order placement and session auth transitions.
type CheckoutHandler struct {
	sessions *session.Manager
	logger   *slog.Logger
}

// NewCheckoutHandler creates a checkout HTTP handler.
func NewCheckoutHandler(sessions *session.Manager, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// CustomerInfoRequest mirrors domain.CustomerInfo with validation tags.
type CustomerInfoRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
}

// DeliveryInfoRequest mirrors domain.DeliveryInfo with validation tags.
type DeliveryInfoRequest struct {
	Address       string `json:"address" validate:"required"`
	City          string `json:"city" validate:"required"`
	County        string `json:"county" validate:"required"`
	PostalCode    string `json:"postal_code"`
	DeliveryNotes string `json:"delivery_notes"`
}

// PlaceOrderRequest is the JSON body for POST /api/v1/checkout.
type PlaceOrderRequest struct {
	Customer    CustomerInfoRequest `json:"customer" validate:"required"`
	Delivery    DeliveryInfoRequest `json:"delivery" validate:"required"`
	PhoneNumber string              `json:"phone_number" validate:"required"`
}

// LoginRequest is the JSON body for POST /api/v1/session/login. Token
// issuance is the marketplace's job; the storefront only holds the token.
type LoginRequest struct {
	Token string `json:"token" validate:"required"`
}

// PlaceOrder handles POST /api/v1/checkout. It blocks until the payment
// reaches a terminal outcome or the request context is cancelled; a
// client that disconnects cancels the confirmation.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Get(r.Context(), sessionID(r))
	if !sess.Authenticated() {
		httputil.WriteError(w, r, apperrors.Unauthorized("login required to place an order"), h.logger)
		return
	}

	var req PlaceOrderRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := sess.Checkout.PlaceOrder(r.Context(), checkout.Input{
		Customer: domain.CustomerInfo{
			FirstName: req.Customer.FirstName,
			LastName:  req.Customer.LastName,
			Email:     req.Customer.Email,
			Phone:     req.Customer.Phone,
		},
		Delivery: domain.DeliveryInfo{
			Address:       req.Delivery.Address,
			City:          req.Delivery.City,
			County:        req.Delivery.County,
			PostalCode:    req.Delivery.PostalCode,
			DeliveryNotes: req.Delivery.DeliveryNotes,
		},
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: result})
}

// Login handles POST /api/v1/session/login: the session switches to the
// marketplace-backed cart, replacing (not merging) the guest cart.
func (h *CheckoutHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sess := h.sessions.Login(r.Context(), sessionID(r), req.Token)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess.Snapshot()})
}

// Logout handles POST /api/v1/session/logout: the session reverts to the
// persisted guest cart.
func (h *CheckoutHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Logout(r.Context(), sessionID(r))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess.Snapshot()})
}
