package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/thaliabank/corebank/internal/infrastructure/auth"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// ClaimsContextKey is the context key for the verified JWT claims
	ClaimsContextKey ContextKey = "claims"

	// AccountIDContextKey is the context key for the caller's account
	AccountIDContextKey ContextKey = "account_id"
)

// AuthMiddleware verifies the bearer token and puts the caller's account
// identity on the context. Mutating ledger routes require it.
func AuthMiddleware(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			ctx = context.WithValue(ctx, AccountIDContextKey, claims.AccountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HeaderIdentity reads the account identity from the X-Account-ID header.
// It stands in for AuthMiddleware when authentication is disabled, as in
// local development.
func HeaderIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID := r.Header.Get("X-Account-ID")
		if accountID == "" {
			http.Error(w, "missing X-Account-ID header", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), AccountIDContextKey, accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AccountIDFromContext extracts the caller's account ID from context
func AccountIDFromContext(ctx context.Context) (string, bool) {
	accountID, ok := ctx.Value(AccountIDContextKey).(string)
	return accountID, ok && accountID != ""
}

// ClaimsFromContext extracts the verified JWT claims from context
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*auth.Claims)
	return claims, ok
}
