package shiprocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/santhosharam/kottravai-backend/internal/config"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://apiv2.shiprocket.in/v1/external"

// ErrAuthFailed means the login call was rejected. The client stays
// unauthenticated and the next call retries the login from scratch.
var ErrAuthFailed = errors.New("shiprocket authentication failed")

// APIError carries the provider's message for a non-success response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shiprocket returned %d: %s", e.Status, e.Message)
}

// Client wraps the Shiprocket aggregator API. It holds a single cached
// bearer token guarded by a mutex; the expiry is set at acquisition time to
// slightly less than the provider's stated lifetime. No retries here,
// retry policy belongs to callers.
type Client struct {
	logger *slog.Logger
	http   *resty.Client

	email          string
	password       string
	pickupLocation string
	tokenTTL       time.Duration
	now            func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func NewClient(logger *slog.Logger, cfg config.Shiprocket) *Client {
	return &Client{
		logger:         logger.With(slog.String("client", "shiprocket")),
		http:           resty.New().SetBaseURL(defaultBaseURL),
		email:          cfg.Email,
		password:       cfg.Password,
		pickupLocation: cfg.PickupLocation,
		tokenTTL:       cfg.TokenTTL,
		now:            time.Now,
	}
}

// WithBaseURL overrides the provider endpoint. For tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.http.SetBaseURL(url)
	return c
}

// WithClock replaces the time source. For tests.
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}

// ensureAuthenticated returns a valid token, logging in when there is none
// or the cached one has reached its soft expiry.
func (c *Client) ensureAuthenticated(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expiry) {
		return c.token, nil
	}

	var result struct {
		Token string `json:"token"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": c.email, "password": c.password}).
		SetResult(&result).
		Post("/auth/login")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if !resp.IsSuccess() || result.Token == "" {
		c.token = ""
		return "", fmt.Errorf("%w: status %d", ErrAuthFailed, resp.StatusCode())
	}

	c.token = result.Token
	c.expiry = c.now().Add(c.tokenTTL)
	c.logger.Info("shiprocket token refreshed", slog.Time("expiry", c.expiry))
	return c.token, nil
}

const fallbackPhone = "9999999999"

// SanitizePhone strips non-digits and keeps the last 10 digits. Anything
// shorter becomes a fixed placeholder: the provider rejects malformed
// numbers outright, and a placeholder shipment can be corrected manually
// while a rejected one cannot.
func SanitizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	if len(digits) != 10 {
		return fallbackPhone
	}
	return digits
}

// call issues one authenticated request and converts non-success responses
// into *APIError with the provider's message.
func (c *Client) call(ctx context.Context, method, path string, body, result any) error {
	token, err := c.ensureAuthenticated(ctx)
	if err != nil {
		return err
	}

	req := c.http.R().SetContext(ctx).SetAuthToken(token)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	var apiErr struct {
		Message string `json:"message"`
	}
	req.SetError(&apiErr)

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("shiprocket %s %s: %w", method, path, err)
	}
	if !resp.IsSuccess() {
		msg := apiErr.Message
		if msg == "" {
			msg = resp.String()
		}
		return &APIError{Status: resp.StatusCode(), Message: msg}
	}
	return nil
}
