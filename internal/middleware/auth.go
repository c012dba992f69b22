package middleware

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/santhosharam/kottravai-backend/internal/identity"
	"github.com/santhosharam/kottravai-backend/pkg/utils"
)

type Verifier interface {
	Verify(ctx context.Context, token string) (identity.Identity, error)
}

type identityKey struct{}

// Identity returns the verified identity, if the request carried one.
func Identity(ctx context.Context) (identity.Identity, bool) {
	ident, ok := ctx.Value(identityKey{}).(identity.Identity)
	return ident, ok
}

// Authenticate resolves a bearer token into an identity when one is present
// and valid, and always continues. Routes that must have an identity wrap
// themselves in RequireIdentity; routes with optional auth (order listing)
// read the context directly.
func Authenticate(logger *slog.Logger, verifier Verifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ident, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.Debug("bearer token rejected", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireIdentity rejects requests that did not resolve to an identity
// before any handler logic runs.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := Identity(r.Context()); !ok {
			utils.WriteError(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const AdminSecretHeader = "x-admin-secret"

// IsAdmin reports whether the request carries the correct admin shared
// secret. Constant-time comparison; an empty configured secret never matches.
func IsAdmin(r *http.Request, secret string) bool {
	if secret == "" {
		return false
	}
	supplied := r.Header.Get(AdminSecretHeader)
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(secret)) == 1
}

// RequireAdmin gates administrative mutations behind the shared secret.
func RequireAdmin(secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdmin(r, secret) {
				utils.WriteError(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
