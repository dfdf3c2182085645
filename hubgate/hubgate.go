// Package hubgate provides an embeddable identity and access gate for
// hub-branded applications.
//
// Setup:
//
//  1. Run migrations from migrations/ folder using your preferred tool
//  2. Create a Gate instance and mount routes
//
// Basic usage:
//
//	db, _ := sql.Open("postgres", "postgres://localhost/myapp?sslmode=disable")
//
//	gate, err := hubgate.New(hubgate.Config{
//	    DB:        db,
//	    JWTSecret: "your-secret-key-at-least-32-chars",
//	})
//	if err != nil {
//	    log.Fatal(err) // Will fail if migrations haven't been run
//	}
//
//	r := chi.NewRouter()
//	r.Mount("/auth", gate.Router())
//	http.ListenAndServe(":8080", r)
package hubgate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/percytech/hubgate/internal/http/features/authn"
	"github.com/percytech/hubgate/internal/http/features/gate"
	"github.com/percytech/hubgate/internal/http/features/hubs"
	"github.com/percytech/hubgate/internal/http/features/me"
	"github.com/percytech/hubgate/internal/http/features/session"
	"github.com/percytech/hubgate/internal/http/middleware"
	"github.com/percytech/hubgate/internal/httputil"
	"github.com/percytech/hubgate/pkg/access"
	"github.com/percytech/hubgate/pkg/auth"
	"github.com/percytech/hubgate/pkg/hub"
	"github.com/percytech/hubgate/pkg/repository"
)

// Config holds the configuration for an embedded Gate.
type Config struct {
	// DB is the database connection (required).
	DB *sql.DB

	// JWTSecret is the secret key for signing JWT tokens (required, min 32 chars).
	JWTSecret string

	// JWTIssuer is the issuer claim in JWT tokens (default: "hubgate").
	JWTIssuer string

	// AccessTokenTTL is the lifetime of access tokens (default: 15 minutes).
	AccessTokenTTL time.Duration

	// RefreshTokenTTL is the lifetime of refresh tokens (default: 24 hours).
	RefreshTokenTTL time.Duration

	// Environment is the deployment tier (default: production). The
	// development superadmin bypass only works in development and
	// staging.
	Environment hub.Tier

	// DevAccessCode enables the development superadmin session when
	// set. Ignored in production.
	DevAccessCode string

	// Logger is the structured logger (default: JSON to stdout).
	Logger *slog.Logger
}

// Gate is an embedded identity and access-gate instance.
type Gate struct {
	config          Config
	db              *sql.DB
	profilesRepo    *repository.ProfilesRepository
	credsRepo       *repository.CredentialsRepository
	companiesRepo   *repository.CompaniesRepository
	membershipsRepo *repository.MembershipsRepository
	sessionsRepo    *repository.SessionsRepository
	passwordService *auth.PasswordService
	sessionService  *auth.SessionService
	guard           *access.CrossTenantGuard
	resolver        *access.RoleResolver
}

// New creates a new Gate instance with the given configuration.
// Returns an error if required database tables don't exist.
// Run migrations first - see migrations/ folder for SQL files.
func New(cfg Config) (*Gate, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	// Validate schema exists
	if err := validateSchema(cfg.DB); err != nil {
		return nil, err
	}

	// Initialize repositories
	profilesRepo := repository.NewProfilesRepository(cfg.DB)
	credsRepo := repository.NewCredentialsRepository(cfg.DB)
	companiesRepo := repository.NewCompaniesRepository(cfg.DB)
	membershipsRepo := repository.NewMembershipsRepository(cfg.DB)
	sessionsRepo := repository.NewSessionsRepository(cfg.DB)

	// Initialize services
	passwordService := auth.NewPasswordService(
		cfg.DB,
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

	return &Gate{
		config:          cfg,
		db:              cfg.DB,
		profilesRepo:    profilesRepo,
		credsRepo:       credsRepo,
		companiesRepo:   companiesRepo,
		membershipsRepo: membershipsRepo,
		sessionsRepo:    sessionsRepo,
		passwordService: passwordService,
		sessionService:  sessionService,
		guard:           access.NewCrossTenantGuard(profilesRepo),
		resolver:        access.NewRoleResolver(cfg.Environment),
	}, nil
}

// Router returns a chi router with all auth and gate routes.
// Mount this on your main router:
//
//	r := chi.NewRouter()
//	r.Mount("/auth", gate.Router())
//
// Routes:
//
//	POST /signup            - Create an account on the serving hub
//	POST /login             - Login with email/password
//	POST /refresh           - Refresh access token
//	POST /logout            - Logout (revoke session)
//	POST /logout/all        - Logout all sessions (protected)
//	POST /dev-session       - Grant dev superadmin session (non-production)
//	GET  /access/check      - Evaluate the access gate for a route
//	GET  /hubs              - List the hub registry
//	GET  /hubs/resolve      - Resolve a hostname to its hub
//	GET  /me                - Get current profile (protected)
//	PATCH /me               - Update current profile (protected)
func (g *Gate) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Logger)

	// Signup and login
	authnHandler := authn.NewHandler(
		g.config.Logger,
		g.passwordService,
		g.sessionService,
		g.guard,
		nil, // email service
		nil, // metrics
	)
	r.Post("/signup", authnHandler.Signup)
	r.Post("/login", authnHandler.Login)

	// Session routes
	sessionHandler := session.NewHandler(g.sessionService)
	r.Post("/refresh", sessionHandler.Refresh)
	r.Post("/logout", sessionHandler.Logout)

	// Access gate and dev sessions
	gateHandler := gate.NewHandler(
		g.config.Logger,
		g.resolver,
		g.sessionService,
		g.profilesRepo,
		g.membershipsRepo,
		g.config.DevAccessCode,
		nil, // metrics
	)
	r.Get("/access/check", gateHandler.Check)
	r.Post("/dev-session", gateHandler.DevSession)
	r.Delete("/dev-session", gateHandler.ClearDevSession)

	// Hub registry
	hubsHandler := hubs.NewHandler(nil)
	r.Get("/hubs", hubsHandler.List)
	r.Get("/hubs/resolve", hubsHandler.Resolve)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(g.sessionService))

		r.Post("/logout/all", sessionHandler.LogoutAll)

		meHandler := me.NewHandler(g.config.Logger, g.profilesRepo, g.membershipsRepo)
		r.Get("/me", meHandler.GetMe)
		r.Patch("/me", meHandler.UpdateMe)
	})

	return r
}

// SessionService returns the session service for advanced usage.
func (g *Gate) SessionService() *auth.SessionService {
	return g.sessionService
}

// Guard returns the cross-tenant guard for advanced usage.
func (g *Gate) Guard() *access.CrossTenantGuard {
	return g.guard
}

// AuthMiddleware returns middleware that validates JWT tokens.
// Use this to protect your own routes:
//
//	r.Group(func(r chi.Router) {
//	    r.Use(gate.AuthMiddleware())
//	    r.Get("/protected", handler)
//	})
func (g *Gate) AuthMiddleware() func(http.Handler) http.Handler {
	return middleware.Auth(g.sessionService)
}

// RequireAdmin returns middleware that enforces an administrative role.
// Apply after AuthMiddleware.
func (g *Gate) RequireAdmin() func(http.Handler) http.Handler {
	return middleware.RequireAdmin()
}

// GetIdentityID extracts the identity ID from a request.
// Use after AuthMiddleware:
//
//	identityID, ok := hubgate.GetIdentityID(r)
func GetIdentityID(r *http.Request) (string, bool) {
	id, ok := middleware.GetIdentityID(r.Context())
	if !ok {
		return "", false
	}
	return id.String(), true
}

// GetIdentityIDFromContext extracts the identity ID from a context.
func GetIdentityIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	return middleware.GetIdentityID(ctx)
}

// Identity represents basic identity info returned by GetIdentity.
type Identity struct {
	ID        string
	Email     string
	FirstName *string
	LastName  *string
	HubID     string
	Role      string
}

// GetIdentity retrieves the current identity from the database.
// Use after AuthMiddleware:
//
//	identity, err := gate.GetIdentity(r)
func (g *Gate) GetIdentity(r *http.Request) (*Identity, error) {
	id, ok := middleware.GetIdentityID(r.Context())
	if !ok {
		return nil, errors.New("hubgate: not authenticated")
	}

	p, err := g.profilesRepo.GetByID(r.Context(), id)
	if err != nil {
		return nil, err
	}

	return &Identity{
		ID:        p.ID.String(),
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		HubID:     string(p.HubID),
		Role:      string(p.Role),
	}, nil
}

// ResolveHub maps a request to the hub serving it.
func ResolveHub(r *http.Request) hub.Hub {
	return httputil.RequestHub(r)
}

// HealthHandler returns a simple health check handler.
func (g *Gate) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// Handler returns an http.Handler for mounting with http.StripPrefix.
// This is useful when using standard library ServeMux:
//
//	mux := http.NewServeMux()
//	mux.Handle("/auth/", http.StripPrefix("/auth", gate.Handler()))
func (g *Gate) Handler() http.Handler {
	return g.Router()
}

// Routes registers all routes on an http.ServeMux with the given prefix:
//
//	mux := http.NewServeMux()
//	gate.Routes(mux, "/api/v1/auth")
func (g *Gate) Routes(mux *http.ServeMux, prefix string) {
	mux.Handle(prefix+"/", http.StripPrefix(prefix, g.Router()))
}

func validateConfig(cfg *Config) error {
	if cfg.DB == nil {
		return errors.New("hubgate: DB is required")
	}
	if cfg.JWTSecret == "" {
		return errors.New("hubgate: JWTSecret is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return errors.New("hubgate: JWTSecret must be at least 32 characters")
	}
	if cfg.Environment == hub.TierProduction && cfg.DevAccessCode != "" {
		return errors.New("hubgate: DevAccessCode must not be set in production")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "hubgate"
	}
	if cfg.AccessTokenTTL == 0 {
		cfg.AccessTokenTTL = auth.DefaultAccessTokenTTL
	}
	if cfg.RefreshTokenTTL == 0 {
		cfg.RefreshTokenTTL = auth.DefaultRefreshTokenTTL
	}
	if cfg.Environment == "" {
		cfg.Environment = hub.TierProduction
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
}

// validateSchema checks that required database tables exist.
func validateSchema(db *sql.DB) error {
	requiredTables := []string{"profiles", "credentials", "companies", "memberships", "sessions"}

	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = $1
	`

	for _, table := range requiredTables {
		var name string
		err := db.QueryRow(query, table).Scan(&name)
		if err == sql.ErrNoRows {
			return fmt.Errorf("hubgate: missing table '%s' - run migrations first (see migrations/ folder)", table)
		}
		if err != nil {
			return fmt.Errorf("hubgate: failed to check schema: %w", err)
		}
	}

	return nil
}
