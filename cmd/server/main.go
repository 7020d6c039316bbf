package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"github.com/brayn-ai/brayn-backend/internal/config"
	"github.com/brayn-ai/brayn-backend/internal/credentials"
	"github.com/brayn-ai/brayn-backend/internal/database"
	"github.com/brayn-ai/brayn-backend/internal/handlers"
	"github.com/brayn-ai/brayn-backend/internal/logging"
	"github.com/brayn-ai/brayn-backend/internal/middleware"
	"github.com/brayn-ai/brayn-backend/internal/providers"
	"github.com/brayn-ai/brayn-backend/internal/repository"
	"github.com/brayn-ai/brayn-backend/internal/routes"
	"github.com/brayn-ai/brayn-backend/internal/services"
)

// uploads up to the resume limit must reach the handler
const bodyLimit = 16 * 1024 * 1024

func main() {
	logging.Setup()

	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// ERROR+ records are also batched into system_logs
	dbLogHandler := logging.NewDBHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewJSONHandler(os.Stdout),
		dbLogHandler,
	)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetention, cleanupDone)

	// Providers
	startupCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := providers.NewS3Store(startupCtx, providers.S3Options{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		PublicURL:       cfg.S3PublicURL,
	})
	cancel()
	if err != nil {
		slog.Error("object storage unavailable", "error", err)
		os.Exit(1)
	}

	gemini := providers.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiAPIURL, cfg.GeminiModel, cfg.AITimeout)
	clipdrop := providers.NewClipdropClient(cfg.ClipdropAPIKey, cfg.ClipdropAPIURL, cfg.ImageTimeout)
	mailer := providers.NewSMTPMailer(providers.SMTPOptions{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
	})
	gateway := providers.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	// Repositories and services
	users := repository.NewUserRepository(database.DB)
	generations := repository.NewGenerationRepository(database.DB)
	payments := repository.NewPaymentRepository(database.DB)

	issuer := credentials.NewIssuer(credentials.Options{
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.JWTExpiry,
		OTPTTL:   cfg.OTPExpiry,
	})

	authService := services.NewAuthService(users, issuer, mailer)
	generationService := services.NewGenerationService(services.GenerationDeps{
		Generations: generations,
		Text:        gemini,
		Images:      clipdrop,
		Backgrounds: clipdrop,
		Store:       store,
		PDF:         providers.NewPDFTextExtractor(),
	})
	communityService := services.NewCommunityService(generations)
	paymentService := services.NewPaymentService(users, payments, gateway, mailer, services.PaymentOptions{
		KeySecret: cfg.RazorpayKeySecret,
		Amount:    cfg.PlanAmount,
		Currency:  cfg.PlanCurrency,
	})

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    bodyLimit,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.Metrics())
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	routes.Setup(app, cfg, users, routes.Handlers{
		Auth:    handlers.NewAuthHandler(authService, cfg.IsProduction(), issuer.TokenTTL()),
		AI:      handlers.NewAIHandler(generationService, communityService),
		Payment: handlers.NewPaymentHandler(paymentService),
		Health:  handlers.NewHealthHandler(database.Ping),
	}, routes.DefaultRateLimits)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
