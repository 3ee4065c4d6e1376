// Package checkout orchestrates order placement: payment confirmation
// first, then order creation, and only then clearing the cart. A customer
// who has paid never loses their line items to a failed order call.
package checkout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kelly-developers/agriecommerce/internal/cart"
	"github.com/kelly-developers/agriecommerce/internal/domain"
	apperrors "github.com/kelly-developers/agriecommerce/pkg/errors"
)

// Confirmer drives a payment to a terminal outcome.
type Confirmer interface {
	Confirm(ctx context.Context, amount int64, phoneNumber string) (*domain.PaymentSession, error)
}

// OrderPlacer creates an order on the marketplace.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, customer domain.CustomerInfo, delivery domain.DeliveryInfo, paymentReference string) (*domain.Order, error)
}

// Input holds everything needed to place an order for the session's cart.
type Input struct {
	Customer    domain.CustomerInfo
	Delivery    domain.DeliveryInfo
	PhoneNumber string
}

// Result is the outcome of a completed checkout.
type Result struct {
	Order   *domain.Order          `json:"order"`
	Payment *domain.PaymentSession `json:"payment"`
}

// Service runs the checkout flow for one storefront session.
type Service struct {
	store       *cart.Store
	confirmer   Confirmer
	orders      OrderPlacer
	logger      *slog.Logger
	deliveryFee int64
}

// NewService creates a checkout service. deliveryFee is a flat charge in
// cents added to the cart total.
func NewService(store *cart.Store, confirmer Confirmer, orders OrderPlacer, logger *slog.Logger, deliveryFee int64) *Service {
	return &Service{
		store:       store,
		confirmer:   confirmer,
		orders:      orders,
		logger:      logger,
		deliveryFee: deliveryFee,
	}
}

// Total returns the amount payable right now: cart total plus delivery
// fee, recomputed from current line items.
func (s *Service) Total() int64 {
	return s.store.TotalPrice() + s.deliveryFee
}

// PlaceOrder validates the input, confirms payment for the consolidated
// total, creates the order, and clears the cart. The cart is cleared only
// after order creation succeeds; if the order call fails after a
// successful payment, the error wraps apperrors.ErrOrderFailed and the
// cart is left intact.
func (s *Service) PlaceOrder(ctx context.Context, input Input) (*Result, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	if len(s.store.Items()) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	total := s.Total()

	session, err := s.confirmer.Confirm(ctx, total, input.PhoneNumber)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.CreateOrder(ctx, input.Customer, input.Delivery, session.TransactionID)
	if err != nil {
		// Deliberately keep the cart: the customer has paid.
		s.logger.ErrorContext(ctx, "order creation failed after successful payment",
			slog.String("transaction_id", session.TransactionID),
			slog.Int64("amount", total),
			slog.String("error", err.Error()),
		)
		return &Result{Payment: session}, apperrors.OrderFailed(
			fmt.Sprintf("payment %s succeeded but order creation failed", session.TransactionID),
		)
	}

	s.store.Clear(ctx)

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("transaction_id", session.TransactionID),
		slog.Int64("total", total),
	)

	return &Result{Order: order, Payment: session}, nil
}

func validate(input Input) error {
	switch {
	case input.Customer.FirstName == "", input.Customer.LastName == "":
		return apperrors.InvalidInput("customer name is required")
	case input.Customer.Email == "":
		return apperrors.InvalidInput("customer email is required")
	case input.Customer.Phone == "":
		return apperrors.InvalidInput("customer phone is required")
	case input.Delivery.Address == "", input.Delivery.City == "", input.Delivery.County == "":
		return apperrors.InvalidInput("delivery address, city, and county are required")
	case input.PhoneNumber == "":
		return apperrors.InvalidInput("M-Pesa phone number is required")
	}
	return nil
}
