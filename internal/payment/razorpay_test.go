package payment_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/santhosharam/kottravai-backend/internal/config"
	"github.com/santhosharam/kottravai-backend/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *payment.Client {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := payment.NewClient(logger, config.Razorpay{
		KeyID:     "rzp_test_key",
		KeySecret: "test_key_secret",
	})
	if baseURL != "" {
		client = client.WithBaseURL(baseURL)
	}
	return client
}

func TestSignature(t *testing.T) {
	// Reference digest computed independently for
	// HMAC-SHA256("test_key_secret", "order_ABC123|pay_XYZ789").
	const want = "8f3f6d9875510a04884bbd681acc7af52bad387c42cd5a3b0ec78dcbef78b99a"

	got := payment.Signature("test_key_secret", "order_ABC123", "pay_XYZ789")
	assert.Equal(t, want, got)
}

func TestClient_VerifySignature(t *testing.T) {
	client := newTestClient("")

	valid := payment.Signature("test_key_secret", "order_ABC123", "pay_XYZ789")

	testCases := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		want      bool
	}{
		{name: "valid signature", orderID: "order_ABC123", paymentID: "pay_XYZ789", signature: valid, want: true},
		{name: "tampered signature", orderID: "order_ABC123", paymentID: "pay_XYZ789", signature: valid[:len(valid)-1] + "0", want: false},
		{name: "signature for another order", orderID: "order_OTHER", paymentID: "pay_XYZ789", signature: valid, want: false},
		{name: "empty signature", orderID: "order_ABC123", paymentID: "pay_XYZ789", signature: "", want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, client.VerifySignature(tc.orderID, tc.paymentID, tc.signature))
		})
	}
}

func TestClient_CreateOrder(t *testing.T) {
	var body map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/orders", r.URL.Path)
		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "rzp_test_key", user)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(map[string]any{
			"id":       "order_ABC123",
			"amount":   body["amount"],
			"currency": "INR",
			"receipt":  body["receipt"],
			"status":   "created",
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	order, err := client.CreateOrder(context.Background(), 1234.56, "KTV-1")
	require.NoError(t, err)

	assert.Equal(t, "order_ABC123", order.ID)
	// Rupees are converted to paise with rounding.
	assert.EqualValues(t, 123456, body["amount"])
	assert.Equal(t, "INR", order.Currency)
}

func TestClient_CreateOrder_InvalidAmount(t *testing.T) {
	client := newTestClient("")

	for _, amount := range []float64{0, -5, -0.01} {
		_, err := client.CreateOrder(context.Background(), amount, "KTV-1")
		assert.ErrorIs(t, err, payment.ErrInvalidAmount)
	}
}

func TestClient_CreateOrder_GatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"description": "bad request"}})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.CreateOrder(context.Background(), 100, "KTV-1")
	require.Error(t, err)
}
