package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/thaliabank/corebank/internal/adapter/http/middleware"
	"github.com/thaliabank/corebank/internal/infrastructure/auth"
)

func identityEcho(t *testing.T, wantAccount string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := middleware.AccountIDFromContext(r.Context())
		if !ok {
			t.Error("identity missing from context")
		}
		if accountID != wantAccount {
			t.Errorf("account id = %q, want %q", accountID, wantAccount)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Minute)
	token, err := manager.Generate("user-1", "acc-1")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	h := middleware.AuthMiddleware(manager)(identityEcho(t, "acc-1"))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestAuthMiddlewareRejects(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Minute)
	h := middleware.AuthMiddleware(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestHeaderIdentity(t *testing.T) {
	h := middleware.HeaderIdentity(identityEcho(t, "acc-7"))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Account-ID", "acc-7")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestHeaderIdentityMissing(t *testing.T) {
	h := middleware.HeaderIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
