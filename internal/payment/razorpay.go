package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/santhosharam/kottravai-backend/internal/config"

	"github.com/go-resty/resty/v2"
)

var ErrInvalidAmount = errors.New("amount must be a positive number")

const baseURL = "https://api.razorpay.com"

type Client struct {
	logger    *slog.Logger
	http      *resty.Client
	keySecret string
}

func NewClient(logger *slog.Logger, cfg config.Razorpay) *Client {
	return &Client{
		logger: logger.With(slog.String("client", "razorpay")),
		http: resty.New().
			SetBaseURL(baseURL).
			SetBasicAuth(cfg.KeyID, cfg.KeySecret),
		keySecret: cfg.KeySecret,
	}
}

// WithBaseURL overrides the gateway endpoint. For tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.http.SetBaseURL(url)
	return c
}

type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateOrder registers a payment order with the gateway. Amount is in
// rupees and converted to paise, the gateway's minor unit.
func (c *Client) CreateOrder(ctx context.Context, amount float64, receipt string) (GatewayOrder, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return GatewayOrder{}, ErrInvalidAmount
	}

	body := map[string]any{
		"amount":   int64(math.Round(amount * 100)),
		"currency": "INR",
		"receipt":  receipt,
	}

	var order GatewayOrder
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&order).
		Post("/v1/orders")
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("failed to create gateway order: %w", err)
	}
	if !resp.IsSuccess() {
		return GatewayOrder{}, fmt.Errorf("gateway returned %d: %s", resp.StatusCode(), resp.String())
	}
	return order, nil
}

// Signature is the HMAC-SHA256 hex digest of "orderID|paymentID".
func Signature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether the supplied signature matches. A mismatch
// is a normal outcome, not an error. Comparison is constant-time.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	expected := Signature(c.keySecret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
