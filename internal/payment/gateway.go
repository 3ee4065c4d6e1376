package payment

import "context"

// InitiateInput holds the parameters for starting an STK push.
type InitiateInput struct {
	Amount           int64
	PhoneNumber      string
	AccountReference string
	Description      string
}

// InitiateResult is the marketplace's answer to an STK push request.
type InitiateResult struct {
	CheckoutRequestID string
}

// StatusResult is one poll response for an in-flight payment.
type StatusResult struct {
	Status        string // PENDING, SUCCESS, or FAILED
	TransactionID string
	Reason        string
}

// Gateway is the payment side of the marketplace API.
type Gateway interface {
	// InitiateSTKPush starts an M-Pesa STK push and returns the checkout
	// request ID used for subsequent status checks.
	InitiateSTKPush(ctx context.Context, input InitiateInput) (*InitiateResult, error)

	// CheckStatus reports the current status of an initiated payment.
	CheckStatus(ctx context.Context, checkoutRequestID string) (*StatusResult, error)
}
