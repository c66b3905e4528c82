package handler

import (
	"marketplace-wallet/internal/adapter/http/middleware"
	redisStore "marketplace-wallet/internal/adapter/storage/redis"
	"marketplace-wallet/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	RequestSvc     ports.RequestService
	OrderSvc       ports.OrderCompletionService
	BankAccountSvc ports.BankAccountService
	StatsSvc       ports.StatsService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep, verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	jwtAuth := middleware.JWTAuth(deps.TokenSvc)

	walletHandler := NewWalletHandler(deps.WalletSvc)
	requestHandler := NewRequestHandler(deps.RequestSvc)
	orderHandler := NewOrderHandler(deps.OrderSvc)
	bankHandler := NewBankAccountHandler(deps.BankAccountSvc)
	statsHandler := NewStatsHandler(deps.StatsSvc)

	// API v1 routes
	v1 := r.Group("/api/v1", jwtAuth)

	wallet := v1.Group("/wallet")
	{
		wallet.GET("", rl("wallet"), walletHandler.GetWallet)
		wallet.GET("/transactions", rl("wallet"), walletHandler.ListTransactions)
	}

	requests := v1.Group("/requests")
	{
		requests.POST("", rl("requests"), requestHandler.Create)
		requests.GET("", rl("requests"), requestHandler.List)
	}

	bankAccounts := v1.Group("/bank-accounts")
	{
		bankAccounts.POST("", rl("bank_accounts"), bankHandler.Add)
		bankAccounts.GET("", rl("bank_accounts"), bankHandler.List)
		bankAccounts.PUT("/:id", rl("bank_accounts"), bankHandler.Update)
		bankAccounts.DELETE("/:id", rl("bank_accounts"), bankHandler.Remove)
		bankAccounts.POST("/:id/default", rl("bank_accounts"), bankHandler.SetDefault)
	}

	orders := v1.Group("/orders")
	{
		orders.POST("/:id/request-completion", rl("orders"), orderHandler.RequestCompletion)
	}

	// --- Operator routes ---
	admin := v1.Group("/admin", middleware.OperatorOnly())
	{
		admin.POST("/requests/:id/resolve", rl("admin"), requestHandler.Resolve)
		admin.POST("/orders/:id/resolve-completion", rl("admin"), orderHandler.ResolveCompletion)
		admin.GET("/stats/pending", rl("admin"), statsHandler.GetPendingCounts)
	}

	return r
}
