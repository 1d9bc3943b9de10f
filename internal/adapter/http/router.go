package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/thaliabank/corebank/internal/adapter/http/handler"
	"github.com/thaliabank/corebank/internal/adapter/http/middleware"
	"github.com/thaliabank/corebank/internal/infrastructure/auth"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	JournalHandler     *handler.JournalHandler
	LedgerHandler      *handler.LedgerHandler
	HealthHandler      *handler.HealthHandler
	JWTManager         *auth.JWTManager
	AuthEnabled        bool
	RateLimit          *middleware.RateLimiter
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	if cfg.RateLimit != nil {
		r.Use(cfg.RateLimit.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// Identity for mutating ledger routes: JWT when auth is enabled, the
	// X-Account-ID header otherwise.
	identity := middleware.HeaderIdentity
	if cfg.AuthEnabled {
		identity = middleware.AuthMiddleware(cfg.JWTManager)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/balance", cfg.AccountHandler.GetBalance)
		})

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Use(identity)
			r.Post("/deposit", cfg.TransactionHandler.Deposit)
			r.Post("/withdraw", cfg.TransactionHandler.Withdraw)
		})

		// Journal browser
		r.Route("/journal", func(r chi.Router) {
			r.Get("/", cfg.JournalHandler.List)
			r.Get("/{id}", cfg.JournalHandler.Get)
		})

		// Ledger consistency
		r.Route("/ledger", func(r chi.Router) {
			r.Get("/verify", cfg.LedgerHandler.Verify)
			r.Post("/rebuild", cfg.LedgerHandler.RebuildBalance)
		})
	})

	return r
}
