package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorUnwrapsToSentinel(t *testing.T) {
	err := PaymentFailed("Insufficient funds")

	assert.True(t, errors.Is(err, ErrPaymentFailed))
	assert.False(t, errors.Is(err, ErrPaymentTimeout))
	assert.Contains(t, err.Error(), "Insufficient funds")
}

func TestAppErrorSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("confirm payment: %w", PaymentTimeout())

	var appErr *AppError
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, "PAYMENT_TIMEOUT", appErr.Code)
	assert.True(t, errors.Is(wrapped, ErrPaymentTimeout))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("product", "p1"), http.StatusNotFound},
		{"invalid input", InvalidInput("bad"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("login required"), http.StatusUnauthorized},
		{"conflict", Conflict("taken"), http.StatusConflict},
		{"payment failed", PaymentFailed("declined"), http.StatusUnprocessableEntity},
		{"payment timeout", PaymentTimeout(), http.StatusGatewayTimeout},
		{"order failed", OrderFailed("oops"), http.StatusBadGateway},
		{"bare sentinel", ErrPaymentTimeout, http.StatusGatewayTimeout},
		{"wrapped sentinel", fmt.Errorf("x: %w", ErrNotFound), http.StatusNotFound},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPaymentTimeoutMessageMentionsSupport(t *testing.T) {
	// The outcome is unknown, not failed; the customer must not retry
	// blindly if the charge landed.
	assert.Contains(t, PaymentTimeout().Message, "contact support")
}
