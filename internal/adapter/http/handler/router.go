package handler

import (
	"agent-spend-governor/internal/adapter/http/middleware"
	redisStore "agent-spend-governor/internal/adapter/storage/redis"
	"agent-spend-governor/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	GovernanceSvc  ports.GovernanceService
	AgentRepo      ports.AgentRepository
	EncSvc         ports.EncryptionService
	SigSvc         ports.SignatureService
	NonceStore     ports.NonceStore
	TokenSvc       ports.TokenService
	ReceiptStream  ports.ReceiptStream
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Health check (deep, verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Swagger documentation
	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

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

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- HMAC-authenticated routes (agent API) ---
	hmacAuth := middleware.HMACAuth(deps.AgentRepo, deps.EncSvc, deps.SigSvc, deps.NonceStore, deps.Logger)
	purchaseHandler := NewPurchaseHandler(deps.GovernanceSvc)
	purchases := v1.Group("/purchases", hmacAuth)
	{
		purchases.POST("", rl("purchases"), purchaseHandler.Authorize)
	}

	// --- JWT-authenticated routes (owner API) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	agentHandler := NewAgentHandler(deps.GovernanceSvc)
	merchantHandler := NewMerchantHandler(deps.GovernanceSvc)
	receiptHandler := NewReceiptHandler(deps.GovernanceSvc, deps.ReceiptStream)

	agent := v1.Group("/agent", jwtAuth)
	{
		agent.GET("", rl("agent_admin"), agentHandler.Info)
		agent.POST("/fund", rl("agent_admin"), agentHandler.Fund)
		agent.POST("/pause", rl("agent_admin"), agentHandler.Pause)
	}

	merchants := v1.Group("/merchants", jwtAuth)
	{
		merchants.POST("", rl("merchants"), merchantHandler.Add)
		merchants.GET("", rl("merchants"), merchantHandler.List)
		merchants.DELETE("/:id", rl("merchants"), merchantHandler.Remove)
	}

	receipts := v1.Group("/receipts", jwtAuth)
	{
		receipts.GET("", rl("receipts"), receiptHandler.List)
		receipts.GET("/stream", receiptHandler.Stream)
	}

	return r
}
