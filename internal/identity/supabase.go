package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/santhosharam/kottravai-backend/internal/config"
	"github.com/santhosharam/kottravai-backend/internal/entities"

	"github.com/go-resty/resty/v2"
)

var (
	ErrUnauthenticated   = errors.New("missing bearer token")
	ErrInvalidCredential = errors.New("invalid or expired credential")
)

// Identity is the canonical user identity resolved from the auth provider.
type Identity struct {
	ID          string
	Email       string
	Phone       string
	DisplayName string
	FullName    string
}

// CanonicalUsername partitions user-owned data (orders, wishlist).
// The email → phone → id fallback order must not change: historic rows
// may be keyed by any of the three.
func (i Identity) CanonicalUsername() string {
	if i.Email != "" {
		return i.Email
	}
	if i.Phone != "" {
		return i.Phone
	}
	return i.ID
}

type Client struct {
	logger     *slog.Logger
	http       *resty.Client
	serviceKey string
}

func NewClient(logger *slog.Logger, cfg config.Supabase) *Client {
	return &Client{
		logger: logger.With(slog.String("client", "supabase")),
		http: resty.New().
			SetBaseURL(cfg.URL).
			SetHeader("apikey", cfg.AnonKey),
		serviceKey: cfg.ServiceKey,
	}
}

type userResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	UserMetadata struct {
		DisplayName string `json:"display_name"`
		FullName    string `json:"full_name"`
		Name        string `json:"name"`
	} `json:"user_metadata"`
}

func (u userResponse) toIdentity() Identity {
	display := u.UserMetadata.DisplayName
	if display == "" {
		display = u.UserMetadata.Name
	}
	return Identity{
		ID:          u.ID,
		Email:       u.Email,
		Phone:       u.Phone,
		DisplayName: display,
		FullName:    u.UserMetadata.FullName,
	}
}

// Verify resolves a bearer token to an identity.
func (c *Client) Verify(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrUnauthenticated
	}

	var user userResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&user).
		Get("/auth/v1/user")
	if err != nil {
		return Identity{}, fmt.Errorf("failed to verify token: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return Identity{}, ErrInvalidCredential
	case !resp.IsSuccess():
		return Identity{}, fmt.Errorf("auth service returned %d", resp.StatusCode())
	}

	return user.toIdentity(), nil
}

// CreateUser registers a phone-verified account using the service role key.
func (c *Client) CreateUser(ctx context.Context, mobile, password string) (Identity, error) {
	body := map[string]any{
		"phone":         mobile,
		"password":      password,
		"phone_confirm": true,
	}

	var user userResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.serviceKey).
		SetBody(body).
		SetResult(&user).
		Post("/auth/v1/admin/users")
	if err != nil {
		return Identity{}, fmt.Errorf("failed to create user: %w", err)
	}
	if resp.StatusCode() == http.StatusUnprocessableEntity || resp.StatusCode() == http.StatusConflict {
		return Identity{}, entities.ErrUserExists
	}
	if !resp.IsSuccess() {
		return Identity{}, fmt.Errorf("auth service returned %d creating user", resp.StatusCode())
	}

	return user.toIdentity(), nil
}

var ErrUserNotFound = errors.New("user not found")

// FindUser locates a user by email or phone via the admin listing.
func (c *Client) FindUser(ctx context.Context, identityStr string) (Identity, error) {
	var list struct {
		Users []userResponse `json:"users"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.serviceKey).
		SetQueryParam("per_page", "1000").
		SetResult(&list).
		Get("/auth/v1/admin/users")
	if err != nil {
		return Identity{}, fmt.Errorf("failed to list users: %w", err)
	}
	if !resp.IsSuccess() {
		return Identity{}, fmt.Errorf("auth service returned %d listing users", resp.StatusCode())
	}

	for _, u := range list.Users {
		if u.Email == identityStr || u.Phone == identityStr {
			return u.toIdentity(), nil
		}
	}
	return Identity{}, ErrUserNotFound
}

// UpdatePassword sets a new password for an existing user.
func (c *Client) UpdatePassword(ctx context.Context, userID, password string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.serviceKey).
		SetBody(map[string]any{"password": password}).
		Put("/auth/v1/admin/users/" + userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return ErrUserNotFound
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("auth service returned %d updating password", resp.StatusCode())
	}
	return nil
}
