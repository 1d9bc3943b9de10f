package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/thaliabank/corebank/internal/adapter/http"
	"github.com/thaliabank/corebank/internal/adapter/http/handler"
	"github.com/thaliabank/corebank/internal/adapter/http/middleware"
	postgresRepo "github.com/thaliabank/corebank/internal/adapter/repository/postgres"
	redisRepo "github.com/thaliabank/corebank/internal/adapter/repository/redis"
	"github.com/thaliabank/corebank/internal/infrastructure/auth"
	"github.com/thaliabank/corebank/internal/infrastructure/config"
	"github.com/thaliabank/corebank/internal/infrastructure/logger"
	"github.com/thaliabank/corebank/internal/infrastructure/metrics"
	"github.com/thaliabank/corebank/internal/infrastructure/postgres"
	"github.com/thaliabank/corebank/internal/infrastructure/redis"
	"github.com/thaliabank/corebank/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	chartRepo := postgresRepo.NewChartRepository(pool)
	journalRepo := postgresRepo.NewJournalRepository(pool)
	balanceRepo := postgresRepo.NewBalanceRepository(pool)
	idempotencyRepo := postgresRepo.NewIdempotencyRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(appLogger)

	// Initialize use cases
	appMetrics := metrics.New()
	posting := usecase.NewPostingEngine(journalRepo, idGen, cfg.TransactionIDPrefix)
	accountUC := usecase.NewAccountUseCase(
		txManager, accountRepo, chartRepo, posting, balanceRepo,
		idGen, cache, cfg.BalanceCacheTTL, cfg.CountryCode, appLogger, appMetrics,
	)
	transactionUC := usecase.NewTransactionUseCase(
		txManager, chartRepo, posting, balanceRepo,
		idempotencyRepo, cache, retrier, appLogger, appMetrics,
	)
	ledgerUC := usecase.NewLedgerUseCase(journalRepo)
	reconUC := usecase.NewReconciliationUseCase(
		txManager, accountRepo, journalRepo, balanceRepo, cache, appLogger, appMetrics,
	)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountUC)
	transactionHandler := handler.NewTransactionHandler(transactionUC, cfg.ReplayRetryAfter)
	journalHandler := handler.NewJournalHandler(ledgerUC)
	ledgerHandler := handler.NewLedgerHandler(reconUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     accountHandler,
		TransactionHandler: transactionHandler,
		JournalHandler:     journalHandler,
		LedgerHandler:      ledgerHandler,
		HealthHandler:      healthHandler,
		JWTManager:         jwtManager,
		AuthEnabled:        cfg.AuthEnabled,
		RateLimit:          middleware.NewRateLimiter(100, 200),
		Logger:             appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
