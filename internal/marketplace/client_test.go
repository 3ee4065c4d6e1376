package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelly-developers/agriecommerce/internal/domain"
	"github.com/kelly-developers/agriecommerce/internal/payment"
	apperrors "github.com/kelly-developers/agriecommerce/pkg/errors"
)

func testCustomer() domain.CustomerInfo {
	return domain.CustomerInfo{
		FirstName: "Wanjiku",
		LastName:  "Kamau",
		Email:     "wanjiku@example.com",
		Phone:     "254712345678",
	}
}

func testDelivery() domain.DeliveryInfo {
	return domain.DeliveryInfo{
		Address: "123 Moi Avenue",
		City:    "Nairobi",
		County:  "Nairobi",
	}
}

// plainDoer adapts http.Client to the Doer interface for tests.
type plainDoer struct{}

func (plainDoer) Do(_ context.Context, req *http.Request) (*http.Response, error) {
	return http.DefaultClient.Do(req)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	var source TokenSource
	if token != "" {
		source = func() string { return token }
	}
	return NewClient(srv.URL, plainDoer{}, source)
}

func TestGetCartDecodesEnvelopedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/cart", r.URL.Path)
		w.Write([]byte(`{"data":{"items":[{"product":{"id":"p1","price":5000},"quantity":2}]}}`))
	}, "tok-1")

	cart, err := client.GetCart(context.Background())
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "p1", cart.Items[0].Product.ID)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, int64(10000), cart.TotalPrice())
}

func TestGetCartBareResponseAndEmptyItems(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":null}`))
	}, "")

	cart, err := client.GetCart(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"items":[]}`))
	}, "my-token")

	_, err := client.GetCart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer my-token", gotAuth)
}

func TestClientOmitsAuthorizationWhenGuest(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"items":[]}`))
	}, "")

	_, err := client.GetCart(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestAddCartItemRequestShape(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cart/items", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
	}, "tok")

	require.NoError(t, client.AddCartItem(context.Background(), "p1", 3))
	assert.Equal(t, "p1", body["productId"])
	assert.Equal(t, float64(3), body["quantity"])
}

func TestUpdateAndRemoveCartItemPaths(t *testing.T) {
	var method, path string
	handler := func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	}

	client := newTestClient(t, handler, "tok")

	require.NoError(t, client.UpdateCartItem(context.Background(), "p1", 5))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/cart/items/p1", path)

	require.NoError(t, client.RemoveCartItem(context.Background(), "p1"))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/cart/items/p1", path)

	require.NoError(t, client.ClearCart(context.Background()))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/cart", path)
}

func TestErrorResponseSurfacesBackendMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"OUT_OF_STOCK","message":"Only 3 units available"}}`))
	}, "tok")

	err := client.AddCartItem(context.Background(), "p1", 10)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "OUT_OF_STOCK", appErr.Code)
	assert.Equal(t, "Only 3 units available", appErr.Message)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestErrorResponseStatusMapping(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
	}{
		{http.StatusNotFound, apperrors.ErrNotFound},
		{http.StatusUnauthorized, apperrors.ErrUnauthorized},
		{http.StatusBadRequest, apperrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"message":"nope"}`))
		}, "tok")

		err := client.ClearCart(context.Background())
		assert.True(t, errors.Is(err, tt.sentinel), "status %d", tt.status)
	}
}

func TestInitiateSTKPush(t *testing.T) {
	var body stkPushRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/mpesa/stk-push", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"data":{"checkoutRequestId":"ws_CO_42"}}`))
	}, "tok")

	res, err := client.InitiateSTKPush(context.Background(), payment.InitiateInput{
		Amount:           25000,
		PhoneNumber:      "254712345678",
		AccountReference: "ORDER-1756700000000",
		Description:      "Payment for AgriEcommerce order",
	})
	require.NoError(t, err)
	assert.Equal(t, "ws_CO_42", res.CheckoutRequestID)
	assert.Equal(t, int64(25000), body.Amount)
	assert.Equal(t, "254712345678", body.PhoneNumber)
	assert.Equal(t, "ORDER-1756700000000", body.AccountReference)
}

func TestInitiateSTKPushRejectsEmptyCheckoutRequestID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}, "tok")

	_, err := client.InitiateSTKPush(context.Background(), payment.InitiateInput{
		Amount: 100, PhoneNumber: "254712345678",
	})
	assert.Error(t, err)
}

func TestCheckStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/mpesa/status/ws_CO_42", r.URL.Path)
		w.Write([]byte(`{"status":"SUCCESS","transactionId":"MPE99"}`))
	}, "tok")

	res, err := client.CheckStatus(context.Background(), "ws_CO_42")
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", res.Status)
	assert.Equal(t, "MPE99", res.TransactionID)
}

func TestCreateOrder(t *testing.T) {
	var body createOrderRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"ord-7","status":"CONFIRMED"}}`))
	}, "tok")

	order, err := client.CreateOrder(context.Background(),
		testCustomer(), testDelivery(), "MPE99")
	require.NoError(t, err)

	assert.Equal(t, "ord-7", order.ID)
	assert.Equal(t, "CONFIRMED", order.Status)
	assert.Equal(t, "MPE99", body.PaymentReference)
	assert.Equal(t, "Wanjiku", body.CustomerInfo.FirstName)
}
