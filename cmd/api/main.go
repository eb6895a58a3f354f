package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agent-spend-governor/config"
	httpHandler "agent-spend-governor/internal/adapter/http/handler"
	pgStorage "agent-spend-governor/internal/adapter/storage/postgres"
	redisStorage "agent-spend-governor/internal/adapter/storage/redis"
	"agent-spend-governor/internal/core/ports"
	"agent-spend-governor/internal/service"
	"agent-spend-governor/pkg/logger"
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
		Msg("Starting Agent Spend Governor")

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
	agentRepo := pgStorage.NewAgentRepo(pool)
	merchantRepo := pgStorage.NewMerchantRepo(pool)
	receiptRepo := pgStorage.NewReceiptRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	replayCache := redisStorage.NewReplayCache(rdb)
	nonceStore := redisStorage.NewNonceStore(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	sigSvc := service.NewHMACSignatureService()
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Receipt notification channel: SSE subscribers and the webhook
	// deliverer both consume committed receipts from here.
	notifier := service.NewReceiptNotifier(log)
	defer notifier.Close()

	// Initialize business services
	authSvc := service.NewAuthService(agentRepo, hashSvc, encSvc, tokenSvc)
	govSvc := service.NewGovernanceService(
		agentRepo,
		merchantRepo,
		receiptRepo,
		replayCache,
		transactor,
		notifier,
		cfg.Governance.CooldownInterval,
		cfg.Governance.ReplayTTL,
		log,
	)
	webhookSvc := service.NewWebhookService(agentRepo, encSvc, sigSvc, &http.Client{Timeout: 10 * time.Second}, log)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Webhook deliverer consumes the notifier stream.
	webhookSubID, webhookCh := notifier.Subscribe()
	defer notifier.Unsubscribe(webhookSubID)
	go func() {
		for receipt := range webhookCh {
			r := receipt
			if err := webhookSvc.Notify(ctx, &r); err != nil {
				log.Warn().Err(err).Str("receipt_id", r.ID.String()).Msg("webhook notify failed")
			}
		}
	}()

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Load OpenAPI spec for Swagger UI
	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		GovernanceSvc:  govSvc,
		AgentRepo:      agentRepo,
		EncSvc:         encSvc,
		SigSvc:         sigSvc,
		NonceStore:     nonceStore,
		TokenSvc:       tokenSvc,
		ReceiptStream:  notifier,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		AuditSvc:       auditSvc,
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
