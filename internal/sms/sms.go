package sms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/santhosharam/kottravai-backend/internal/config"

	"github.com/go-resty/resty/v2"
)

var ErrNotConfigured = errors.New("sms gateway is not configured")

// Client delivers OTP codes over a generic HTTP SMS gateway.
type Client struct {
	logger *slog.Logger
	http   *resty.Client
	apiKey string
	sender string
	url    string
}

func New(logger *slog.Logger, cfg config.SMS) *Client {
	return &Client{
		logger: logger.With(slog.String("client", "sms")),
		http:   resty.New(),
		apiKey: cfg.APIKey,
		sender: cfg.Sender,
		url:    cfg.URL,
	}
}

func (c *Client) Enabled() bool { return c.url != "" }

// SendOTP returns ErrNotConfigured when no gateway URL is set.
func (c *Client) SendOTP(ctx context.Context, mobile, code string) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}

	body := map[string]any{
		"sender":  c.sender,
		"mobile":  mobile,
		"message": fmt.Sprintf("%s is your Kottravai verification code. Valid for 10 minutes.", code),
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("authkey", c.apiKey).
		SetBody(body).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
