package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/acestone/renovation-leads/cmd/mainconfig"
	"github.com/acestone/renovation-leads/internal/api/router"
	"github.com/acestone/renovation-leads/internal/auth"
	appconfig "github.com/acestone/renovation-leads/internal/config"
	"github.com/acestone/renovation-leads/internal/leads"
	"github.com/acestone/renovation-leads/internal/notify"
	"github.com/acestone/renovation-leads/internal/observability/metrics"
	"github.com/acestone/renovation-leads/internal/partners"
	"github.com/acestone/renovation-leads/internal/uploads"
	"github.com/acestone/renovation-leads/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting renovation-leads API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"storage", cfg.StorageBackend,
	)

	jwtSecret := cfg.AdminJWTSecret
	if jwtSecret == "" {
		if cfg.IsProduction() {
			logger.Error("ADMIN_JWT_SECRET is required in production")
			os.Exit(1)
		}
		// Ephemeral secret for development: logins stop surviving restarts,
		// which is fine locally.
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			logger.Error("failed to generate dev jwt secret", "error", err)
			os.Exit(1)
		}
		jwtSecret = hex.EncodeToString(buf)
		logger.Warn("ADMIN_JWT_SECRET not set, using ephemeral secret")
	}

	ctx := context.Background()

	// Storage and email backends.
	var (
		leadsRepo  leads.Repository
		usersRepo  auth.UserRepository
		photoStore uploads.PhotoStore
		email      notify.EmailSender
	)
	switch cfg.StorageBackend {
	case "dynamodb":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		dynamoClient := dynamodb.NewFromConfig(awsCfg)
		leadsRepo = leads.NewDynamoRepository(dynamoClient, cfg.LeadsTable, logger)
		usersRepo = auth.NewDynamoUserRepository(dynamoClient, cfg.UsersTable, logger)

		if cfg.PhotoBucket != "" {
			photoStore = uploads.NewS3Store(s3.NewFromConfig(awsCfg), cfg.PhotoBucket, logger)
		} else {
			photoStore = uploads.NewMemoryStore()
		}

		if cfg.EmailProvider == "ses" {
			email = notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
				FromEmail: cfg.SESFromEmail,
				FromName:  cfg.SESFromName,
			}, logger)
		}
	case "memory":
		leadsRepo = leads.NewInMemoryRepository()
		usersRepo = auth.NewInMemoryUserRepository()
		photoStore = uploads.NewMemoryStore()
	default:
		logger.Error("unknown STORAGE_BACKEND", "value", cfg.StorageBackend)
		os.Exit(1)
	}

	if email == nil && cfg.EmailProvider == "sendgrid" {
		email = notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
		}, logger)
	}
	if email == nil {
		email = notify.NewStubEmailSender(logger)
	}

	seedCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := auth.SeedAdmin(seedCtx, usersRepo, cfg.AdminUsername, cfg.AdminPassword, logger); err != nil {
		cancel()
		logger.Error("failed to seed admin user", "error", err)
		os.Exit(1)
	}
	cancel()

	// Services and handlers.
	leadMetrics := metrics.NewLeadMetrics(nil)
	notifier := notify.NewService(email, cfg.NotifyRecipients, logger)
	intake := leads.NewService(leadsRepo, notifier, leadMetrics, logger)
	authService := auth.NewService(usersRepo, jwtSecret, leadMetrics, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leads.NewHandler(intake, logger),
		AuthHandler:        auth.NewHandler(authService, logger),
		PartnersHandler:    partners.NewHandler(intake, logger),
		UploadsHandler:     uploads.NewHandler(photoStore, logger),
		MetricsHandler:     promhttp.Handler(),
		AdminJWTSecret:     jwtSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		IntakeRateLimit:    cfg.IntakeRateLimit,
		IntakeRateBurst:    cfg.IntakeRateBurst,
		EnableTestRoutes:   !cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
