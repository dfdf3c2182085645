package authn

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/percytech/hubgate/internal/httputil"
	"github.com/percytech/hubgate/internal/metrics"
	"github.com/percytech/hubgate/internal/notification"
	"github.com/percytech/hubgate/pkg/access"
	"github.com/percytech/hubgate/pkg/auth"
	"github.com/percytech/hubgate/pkg/domain"
	"github.com/percytech/hubgate/pkg/hub"
)

// Handler handles signup and login.
type Handler struct {
	logger          *slog.Logger
	passwordService *auth.PasswordService
	sessionService  *auth.SessionService
	guard           *access.CrossTenantGuard
	emailService    *notification.EmailService
	metrics         *metrics.Metrics
	cookieConfig    httputil.CookieConfig
}

// NewHandler creates a new authentication handler. emailService and
// metrics may be nil.
func NewHandler(
	logger *slog.Logger,
	passwordService *auth.PasswordService,
	sessionService *auth.SessionService,
	guard *access.CrossTenantGuard,
	emailService *notification.EmailService,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		logger:          logger,
		passwordService: passwordService,
		sessionService:  sessionService,
		guard:           guard,
		emailService:    emailService,
		metrics:         m,
		cookieConfig:    httputil.DefaultCookieConfig(),
	}
}

// SignupRequest represents a signup request. The hub is never client
// input; it is resolved from the request host.
type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	CompanyName string `json:"company_name"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// IdentityResponse is the identity shape returned by auth endpoints.
type IdentityResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	HubID     string  `json:"hub_id"`
	Role      string  `json:"role"`
}

// TokenResponse represents a token response.
type TokenResponse struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// LoginResponse is the login result: tokens plus the identity, and an
// optional redirect when the identity's home hub is elsewhere.
type LoginResponse struct {
	Identity IdentityResponse `json:"identity"`
	Tokens   TokenResponse    `json:"tokens"`
	Redirect string           `json:"redirect,omitempty"`
}

// Signup creates a new account scoped to the hub serving the request.
// POST /v1/auth/signup
//
// The cross-tenant guard runs before account creation: an email already
// registered on another hub is refused with a warning, never merged.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	target := httputil.RequestHub(r)

	email := auth.NormalizeEmail(req.Email)
	if err := auth.ValidateEmail(email); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid email address")
		return
	}

	if err := h.guard.CheckSignup(r.Context(), email, target.ID); err != nil {
		switch {
		case errors.Is(err, domain.ErrCrossHubConflict):
			h.recordConflict(r.Context(), email, target)
			httputil.Error(w, http.StatusConflict, "this email is already registered with another service. please sign in there instead")
		case errors.Is(err, domain.ErrIdentityExists):
			httputil.Error(w, http.StatusConflict, "an account with this email already exists")
		default:
			// Fail closed: if we cannot rule out a conflict, refuse the
			// signup rather than risk a cross-hub duplicate.
			h.logger.Error("cross-tenant check failed", "error", err)
			httputil.Error(w, http.StatusServiceUnavailable, "unable to verify account status. please try again later")
		}
		return
	}

	result, err := h.passwordService.Signup(r.Context(), auth.SignupParams{
		Email:       email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		CompanyName: req.CompanyName,
		HubID:       target.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrIdentityExists):
			httputil.Error(w, http.StatusConflict, "an account with this email already exists")
		case errors.Is(err, domain.ErrWeakPassword):
			httputil.Error(w, http.StatusBadRequest, "password does not meet requirements")
		case errors.Is(err, domain.ErrInvalidEmail):
			httputil.Error(w, http.StatusBadRequest, "invalid email address")
		default:
			h.logger.Error("signup failed", "error", err, "hub", target.ID)
			httputil.Error(w, http.StatusInternalServerError, "failed to create account")
		}
		return
	}

	h.logger.Info("account created",
		"identity_id", result.Identity.ID,
		"hub", target.ID,
		"company_id", result.Company.ID,
	)

	tokens, err := h.sessionService.IssueSession(r.Context(), result.Identity)
	if err != nil {
		h.logger.Error("session issuance after signup failed", "error", err, "identity_id", result.Identity.ID)
		httputil.JSON(w, http.StatusCreated, map[string]any{
			"identity": identityResponse(result.Identity),
		})
		return
	}

	h.writeAuthResponse(w, r, http.StatusCreated, result.Identity, tokens, "")
}

// Login authenticates an identity against shared credentials.
// POST /v1/auth/login
//
// Login succeeds regardless of which hub's domain served the request.
// If the identity's home hub differs, the response carries a redirect
// to the home hub's canonical domain so the client can hand off.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	current := httputil.RequestHub(r)

	identity, err := h.passwordService.Authenticate(r.Context(), auth.NormalizeEmail(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityInactive) {
			httputil.Error(w, http.StatusForbidden, "account is deactivated")
			return
		}
		// Same answer for wrong password and unknown email.
		httputil.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	tokens, err := h.sessionService.IssueSession(r.Context(), identity)
	if err != nil {
		h.logger.Error("session issuance failed", "error", err, "identity_id", identity.ID)
		httputil.Error(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	redirect, _ := h.guard.LoginRedirect(identity, current.ID)
	if redirect != "" {
		h.logger.Info("cross-hub login redirect",
			"identity_id", identity.ID,
			"home_hub", identity.HubID,
			"request_hub", current.ID,
		)
	}

	h.writeAuthResponse(w, r, http.StatusOK, identity, tokens, redirect)
}

// recordConflict counts the refused signup and, when email delivery is
// configured, warns the address owner which hub already holds their
// account.
func (h *Handler) recordConflict(ctx context.Context, email string, attempted hub.Hub) {
	if h.metrics != nil {
		h.metrics.CrossHubConflicts.Inc()
	}

	if h.emailService == nil {
		return
	}

	existing, err := h.guard.HomeHub(ctx, email)
	if err != nil {
		return
	}
	if err := h.emailService.SendCrossHubWarning(email, attempted.Name, existing.Name, "https://"+existing.PrimaryDomain()); err != nil {
		h.logger.Error("cross-hub warning email failed", "error", err)
	}
}

func (h *Handler) writeAuthResponse(w http.ResponseWriter, r *http.Request, status int, identity *domain.Identity, tokens *domain.TokenPair, redirect string) {
	resp := LoginResponse{
		Identity: identityResponse(identity),
		Redirect: redirect,
	}

	if httputil.IsMobileClient(r) {
		resp.Tokens = TokenResponse{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
			TokenType:    tokens.TokenType,
			ExpiresIn:    tokens.ExpiresIn,
		}
		httputil.JSON(w, status, resp)
		return
	}

	httputil.SetAuthCookies(
		w,
		tokens.AccessToken,
		tokens.RefreshToken,
		h.sessionService.AccessTokenTTL(),
		h.sessionService.RefreshTokenTTL(),
		h.cookieConfig,
	)
	resp.Tokens = TokenResponse{
		TokenType: tokens.TokenType,
		ExpiresIn: tokens.ExpiresIn,
	}
	httputil.JSON(w, status, resp)
}

func identityResponse(identity *domain.Identity) IdentityResponse {
	return IdentityResponse{
		ID:        identity.ID.String(),
		Email:     identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		HubID:     string(identity.HubID),
		Role:      string(identity.Role),
	}
}
