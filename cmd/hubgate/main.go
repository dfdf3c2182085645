package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/percytech/hubgate/internal/config"
	httpserver "github.com/percytech/hubgate/internal/http"
	"github.com/percytech/hubgate/internal/metrics"
	"github.com/percytech/hubgate/internal/notification"
	"github.com/percytech/hubgate/pkg/access"
	"github.com/percytech/hubgate/pkg/auth"
	"github.com/percytech/hubgate/pkg/repository"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Connect to database
	db, err := repository.NewDB(repository.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("connected to database")

	// Initialize repositories
	profilesRepo := repository.NewProfilesRepository(db)
	credsRepo := repository.NewCredentialsRepository(db)
	companiesRepo := repository.NewCompaniesRepository(db)
	membershipsRepo := repository.NewMembershipsRepository(db)
	sessionsRepo := repository.NewSessionsRepository(db)
	verificationsRepo := repository.NewVerificationsRepository(db)

	// Initialize services
	passwordService := auth.NewPasswordService(
		db,
		profilesRepo,
		credsRepo,
		companiesRepo,
		membershipsRepo,
		auth.DefaultPasswordPolicy(),
	)
	sessionService := auth.NewSessionService(auth.SessionConfig{
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		JWTSecret:       []byte(cfg.JWTSecret),
		Issuer:          cfg.JWTIssuer,
	}, sessionsRepo, profilesRepo)
	verificationService := auth.NewVerificationService(auth.VerificationConfig{
		Issuer: cfg.JWTIssuer,
	}, verificationsRepo)

	guard := access.NewCrossTenantGuard(profilesRepo)
	resolver := access.NewRoleResolver(cfg.Environment)

	if resolver.DevOverrideAllowed() && cfg.DevAccessCode != "" {
		logger.Info("dev superadmin bypass enabled", "environment", cfg.Environment)
	}

	// Initialize email service if configured
	var emailService *notification.EmailService
	if cfg.HasSMTP() {
		emailService = notification.NewEmailService(notification.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
		})
		logger.Info("email service enabled")
	}

	// Initialize metrics if enabled
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New(prometheus.DefaultRegisterer)
	}

	// Create router
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:              logger,
		PasswordService:     passwordService,
		SessionService:      sessionService,
		VerificationService: verificationService,
		EmailService:        emailService,
		Guard:               guard,
		Resolver:            resolver,
		ProfilesRepo:        profilesRepo,
		MembershipsRepo:     membershipsRepo,
		Metrics:             m,
		DevAccessCode:       cfg.DevAccessCode,
		AllowedOrigins:      cfg.AllowedOrigins,
		MetricsEnabled:      cfg.MetricsEnabled,
		RateLimitConfig:     cfg.RateLimit,
		SecurityHeaders:     cfg.SecurityHeaders,
		MaxRequestBodySize:  cfg.MaxRequestBodySize,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", addr, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
