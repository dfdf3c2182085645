// Package http assembles the service's HTTP surface.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/percytech/hubgate/internal/config"
	"github.com/percytech/hubgate/internal/http/features/admin"
	"github.com/percytech/hubgate/internal/http/features/authn"
	"github.com/percytech/hubgate/internal/http/features/gate"
	"github.com/percytech/hubgate/internal/http/features/hubs"
	"github.com/percytech/hubgate/internal/http/features/me"
	"github.com/percytech/hubgate/internal/http/features/session"
	"github.com/percytech/hubgate/internal/http/features/verify"
	"github.com/percytech/hubgate/internal/http/middleware"
	"github.com/percytech/hubgate/internal/httputil"
	"github.com/percytech/hubgate/internal/metrics"
	"github.com/percytech/hubgate/internal/notification"
	"github.com/percytech/hubgate/pkg/access"
	"github.com/percytech/hubgate/pkg/auth"
	"github.com/percytech/hubgate/pkg/repository"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger              *slog.Logger
	PasswordService     *auth.PasswordService
	SessionService      *auth.SessionService
	VerificationService *auth.VerificationService
	EmailService        *notification.EmailService
	Guard               *access.CrossTenantGuard
	Resolver            *access.RoleResolver
	ProfilesRepo        *repository.ProfilesRepository
	MembershipsRepo     *repository.MembershipsRepository
	Metrics             *metrics.Metrics
	DevAccessCode       string
	AllowedOrigins      []string
	MetricsEnabled      bool
	RateLimitConfig     config.RateLimitConfig
	SecurityHeaders     config.SecurityHeadersConfig
	MaxRequestBodySize  int64
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.RequestSizeLimit(cfg.MaxRequestBodySize))

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Client-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Create rate limiters for different endpoint types
	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimitConfig, cfg.Logger)

	// Signup and login
	authnHandler := authn.NewHandler(
		cfg.Logger,
		cfg.PasswordService,
		cfg.SessionService,
		cfg.Guard,
		cfg.EmailService,
		cfg.Metrics,
	)
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["auth"])
		r.Post("/v1/auth/signup", authnHandler.Signup)
		r.Post("/v1/auth/login", authnHandler.Login)
	})

	// Session lifecycle
	sessionHandler := session.NewHandler(cfg.SessionService)
	r.With(rateLimiters["auth"]).Post("/v1/auth/refresh", sessionHandler.Refresh)
	r.Post("/v1/auth/logout", sessionHandler.Logout)
	r.With(middleware.Auth(cfg.SessionService)).Post("/v1/auth/logout/all", sessionHandler.LogoutAll)

	// Access gate and dev sessions
	gateHandler := gate.NewHandler(
		cfg.Logger,
		cfg.Resolver,
		cfg.SessionService,
		cfg.ProfilesRepo,
		cfg.MembershipsRepo,
		cfg.DevAccessCode,
		cfg.Metrics,
	)
	r.With(rateLimiters["check"]).Get("/v1/access/check", gateHandler.Check)
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["auth"])
		r.Post("/v1/auth/dev-session", gateHandler.DevSession)
		r.Delete("/v1/auth/dev-session", gateHandler.ClearDevSession)
	})

	// Hub registry
	hubsHandler := hubs.NewHandler(cfg.Metrics)
	r.Get("/v1/hubs", hubsHandler.List)
	r.Get("/v1/hubs/resolve", hubsHandler.Resolve)

	// Identity profile
	meHandler := me.NewHandler(cfg.Logger, cfg.ProfilesRepo, cfg.MembershipsRepo)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.SessionService))
		r.Get("/v1/me", meHandler.GetMe)
		r.Patch("/v1/me", meHandler.UpdateMe)
	})

	// Contact verification
	verifyHandler := verify.NewHandler(cfg.Logger, cfg.VerificationService, cfg.EmailService)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.SessionService))
		r.Use(rateLimiters["auth"])
		r.Post("/v1/verify/start", verifyHandler.Start)
		r.Post("/v1/verify/check", verifyHandler.Check)
	})

	// Administrative operations
	adminHandler := admin.NewHandler(cfg.Logger, cfg.ProfilesRepo, cfg.MembershipsRepo, cfg.SessionService)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.SessionService))
		r.Use(middleware.RequireAdmin())
		r.Use(rateLimiters["admin"])
		r.Post("/v1/admin/identities/{id}/deactivate", adminHandler.DeactivateIdentity)
		r.Delete("/v1/admin/identities/{id}", adminHandler.DeleteIdentity)
		r.Patch("/v1/admin/memberships/{id}/role", adminHandler.ChangeMembershipRole)
	})

	return r
}
