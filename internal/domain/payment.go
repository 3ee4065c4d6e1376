package domain

import "time"

// Payment session status constants. Success, Failed, and Timeout are
// terminal: once reached, no further polling occurs.
const (
	PaymentStatusInitiated = "INITIATED"
	PaymentStatusPending   = "PENDING"
	PaymentStatusSuccess   = "SUCCESS"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusTimeout   = "TIMEOUT"
)

// PaymentSession tracks a single M-Pesa STK-push payment from initiation
// to a terminal outcome. It is mutated only by the confirmation process.
type PaymentSession struct {
	Amount            int64     `json:"amount"`
	PhoneNumber       string    `json:"phone_number"`
	AccountReference  string    `json:"account_reference"`
	CheckoutRequestID string    `json:"checkout_request_id,omitempty"`
	Status            string    `json:"status"`
	TransactionID     string    `json:"transaction_id,omitempty"`
	FailureReason     string    `json:"failure_reason,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Terminal reports whether the session has reached a terminal status.
func (s *PaymentSession) Terminal() bool {
	switch s.Status {
	case PaymentStatusSuccess, PaymentStatusFailed, PaymentStatusTimeout:
		return true
	}
	return false
}
