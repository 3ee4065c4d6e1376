// Package marketplace is the REST client for the upstream marketplace
// API: cart persistence for authenticated users, M-Pesa STK-push
// initiation and status checks, and order creation.
package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kelly-developers/agriecommerce/internal/domain"
	"github.com/kelly-developers/agriecommerce/internal/payment"
	apperrors "github.com/kelly-developers/agriecommerce/pkg/errors"
)

// Doer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy it.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// TokenSource supplies the bearer token for the current session. An empty
// token means the request is sent unauthenticated.
type TokenSource func() string

// Client calls the marketplace API. It is cheap to construct, so each
// storefront session gets its own Client bound to that session's token
// while sharing the underlying Doer.
type Client struct {
	baseURL string
	http    Doer
	token   TokenSource
}

// NewClient creates a marketplace client. token may be nil for guest-only
// use.
func NewClient(baseURL string, doer Doer, token TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
		token:   token,
	}
}

// envelope mirrors the marketplace's JSON response shape.
type envelope struct {
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// --- Cart API ---

type cartResponse struct {
	Items []domain.LineItem `json:"items"`
}

// GetCart fetches the authenticated user's cart.
func (c *Client) GetCart(ctx context.Context) (*domain.Cart, error) {
	var out cartResponse
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &out); err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if out.Items == nil {
		out.Items = []domain.LineItem{}
	}
	return &domain.Cart{Items: out.Items}, nil
}

// AddCartItem adds quantity of the product to the user's cart.
func (c *Client) AddCartItem(ctx context.Context, productID string, quantity int) error {
	body := map[string]any{"productId": productID, "quantity": quantity}
	if err := c.do(ctx, http.MethodPost, "/cart/items", body, nil); err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

// UpdateCartItem sets the quantity of a cart item.
func (c *Client) UpdateCartItem(ctx context.Context, productID string, quantity int) error {
	body := map[string]any{"quantity": quantity}
	path := "/cart/items/" + url.PathEscape(productID)
	if err := c.do(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	return nil
}

// RemoveCartItem deletes a cart item.
func (c *Client) RemoveCartItem(ctx context.Context, productID string) error {
	path := "/cart/items/" + url.PathEscape(productID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

// ClearCart empties the user's cart.
func (c *Client) ClearCart(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/cart", nil, nil); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// --- M-Pesa API ---

type stkPushRequest struct {
	Amount           int64  `json:"amount"`
	PhoneNumber      string `json:"phoneNumber"`
	AccountReference string `json:"accountReference"`
	TransactionDesc  string `json:"transactionDesc"`
}

type stkPushResponse struct {
	CheckoutRequestID string `json:"checkoutRequestId"`
}

// InitiateSTKPush starts an M-Pesa STK push. Implements payment.Gateway.
func (c *Client) InitiateSTKPush(ctx context.Context, input payment.InitiateInput) (*payment.InitiateResult, error) {
	body := stkPushRequest{
		Amount:           input.Amount,
		PhoneNumber:      input.PhoneNumber,
		AccountReference: input.AccountReference,
		TransactionDesc:  input.Description,
	}

	var out stkPushResponse
	if err := c.do(ctx, http.MethodPost, "/payments/mpesa/stk-push", body, &out); err != nil {
		return nil, fmt.Errorf("initiate stk push: %w", err)
	}
	if out.CheckoutRequestID == "" {
		return nil, fmt.Errorf("initiate stk push: empty checkout request id")
	}
	return &payment.InitiateResult{CheckoutRequestID: out.CheckoutRequestID}, nil
}

type paymentStatusResponse struct {
	Status        string `json:"status"`
	TransactionID string `json:"transactionId,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// CheckStatus reports the status of an initiated payment. Implements
// payment.Gateway.
func (c *Client) CheckStatus(ctx context.Context, checkoutRequestID string) (*payment.StatusResult, error) {
	path := "/payments/mpesa/status/" + url.PathEscape(checkoutRequestID)

	var out paymentStatusResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("check payment status: %w", err)
	}
	return &payment.StatusResult{
		Status:        out.Status,
		TransactionID: out.TransactionID,
		Reason:        out.Reason,
	}, nil
}

// --- Orders API ---

type createOrderRequest struct {
	CustomerInfo     domain.CustomerInfo `json:"customerInfo"`
	DeliveryInfo     domain.DeliveryInfo `json:"deliveryInfo"`
	PaymentReference string              `json:"paymentReference"`
}

// CreateOrder places an order referencing a completed payment.
func (c *Client) CreateOrder(ctx context.Context, customer domain.CustomerInfo, delivery domain.DeliveryInfo, paymentReference string) (*domain.Order, error) {
	body := createOrderRequest{
		CustomerInfo:     customer,
		DeliveryInfo:     delivery,
		PaymentReference: paymentReference,
	}

	var out domain.Order
	if err := c.do(ctx, http.MethodPost, "/orders", body, &out); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &out, nil
}

// --- Transport ---

// do builds, authenticates, and executes one API request, decoding the
// response data into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	// Responses may arrive enveloped ({"data": ...}) or bare.
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		raw = env.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiError converts a non-2xx response into an AppError carrying the
// backend-provided message when present.
func apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	code := "MARKETPLACE_ERROR"
	message := fmt.Sprintf("marketplace returned status %d", resp.StatusCode)

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		switch {
		case env.Error != nil && env.Error.Message != "":
			message = env.Error.Message
			if env.Error.Code != "" {
				code = env.Error.Code
			}
		case env.Message != "":
			message = env.Message
		}
	}

	appErr := &apperrors.AppError{
		Code:    code,
		Message: message,
		Status:  resp.StatusCode,
	}
	switch resp.StatusCode {
	case http.StatusNotFound:
		appErr.Err = apperrors.ErrNotFound
	case http.StatusUnauthorized:
		appErr.Err = apperrors.ErrUnauthorized
	case http.StatusBadRequest:
		appErr.Err = apperrors.ErrInvalidInput
	}
	return appErr
}
