package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace-wallet/config"
	httpHandler "marketplace-wallet/internal/adapter/http/handler"
	pgStorage "marketplace-wallet/internal/adapter/storage/postgres"
	redisStorage "marketplace-wallet/internal/adapter/storage/redis"
	"marketplace-wallet/internal/core/ports"
	"marketplace-wallet/internal/service"
	"marketplace-wallet/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Marketplace Wallet")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	walletRepo := pgStorage.NewWalletRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	reqRepo := pgStorage.NewRequestRepo(pool)
	bankRepo := pgStorage.NewBankAccountRepo(pool)
	orderRepo := pgStorage.NewOrderRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	pendingCache := redisStorage.NewPendingCountsCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)
	ledger := service.NewLedgerService(walletRepo, txRepo, log)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Initialize business services
	walletSvc := service.NewWalletService(walletRepo, txRepo, log)
	requestSvc := service.NewRequestService(
		reqRepo,
		bankRepo,
		walletSvc,
		ledger,
		transactor,
		pendingCache,
		auditSvc,
		cfg.Bank,
		cfg.Limits,
		log,
	)
	orderSvc := service.NewOrderCompletionService(
		orderRepo,
		walletSvc,
		ledger,
		transactor,
		pendingCache,
		auditSvc,
		log,
	)
	bankSvc := service.NewBankAccountService(bankRepo, reqRepo, transactor, log)
	statsSvc := service.NewStatsService(reqRepo, orderRepo, pendingCache, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:      walletSvc,
		RequestSvc:     requestSvc,
		OrderSvc:       orderSvc,
		BankAccountSvc: bankSvc,
		StatsSvc:       statsSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
