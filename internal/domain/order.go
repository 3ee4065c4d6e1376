package domain

import "time"

// CustomerInfo identifies the person placing an order.
type CustomerInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// DeliveryInfo is the delivery destination for an order.
type DeliveryInfo struct {
	Address       string `json:"address"`
	City          string `json:"city"`
	County        string `json:"county"`
	PostalCode    string `json:"postal_code,omitempty"`
	DeliveryNotes string `json:"delivery_notes,omitempty"`
}

// Order is the record returned by the marketplace after order creation.
type Order struct {
	ID               string    `json:"id"`
	Status           string    `json:"status"`
	Total            int64     `json:"total"`
	PaymentReference string    `json:"payment_reference"`
	CreatedAt        time.Time `json:"created_at"`
}
