package gate

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/percytech/hubgate/internal/httputil"
	"github.com/percytech/hubgate/internal/metrics"
	"github.com/percytech/hubgate/pkg/access"
	"github.com/percytech/hubgate/pkg/auth"
	"github.com/percytech/hubgate/pkg/domain"
	"github.com/percytech/hubgate/pkg/repository"
)

// Handler answers per-route access questions and manages the
// development-mode superadmin session.
type Handler struct {
	logger         *slog.Logger
	resolver       *access.RoleResolver
	sessionService *auth.SessionService
	profiles       *repository.ProfilesRepository
	memberships    *repository.MembershipsRepository
	devAccessCode  string
	metrics        *metrics.Metrics
	cookieConfig   httputil.CookieConfig
}

// NewHandler creates a new gate handler. metrics may be nil.
func NewHandler(
	logger *slog.Logger,
	resolver *access.RoleResolver,
	sessionService *auth.SessionService,
	profiles *repository.ProfilesRepository,
	memberships *repository.MembershipsRepository,
	devAccessCode string,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		logger:         logger,
		resolver:       resolver,
		sessionService: sessionService,
		profiles:       profiles,
		memberships:    memberships,
		devAccessCode:  devAccessCode,
		metrics:        m,
		cookieConfig:   httputil.DefaultCookieConfig(),
	}
}

// CheckResponse is the gate's answer for a route.
type CheckResponse struct {
	Outcome string `json:"outcome"`
	Target  string `json:"target,omitempty"`
	Role    string `json:"role,omitempty"`
	// DevOverride marks the decision as driven by a development
	// superadmin session.
	DevOverride bool `json:"dev_override,omitempty"`
}

// Check evaluates whether the caller may load the given route.
// GET /v1/access/check?path=/some/route
//
// Authentication is optional here: an anonymous caller is a valid
// input and yields a login redirect, not a 401. Credentials come from
// the usual token sources; the dev session cookie is consulted before
// the stored role.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		httputil.Error(w, http.StatusBadRequest, "path must be absolute")
		return
	}

	devSession, _ := httputil.GetDevSessionFromCookie(w, r, h.cookieConfig)

	identity := h.identityFromRequest(r)

	resolution := h.resolver.Resolve(identity, devSession)

	in := access.GateInput{
		Resolution: resolution,
		Path:       path,
	}
	if identity != nil {
		in.Payment = h.paymentState(r, identity.ID)
		in.OnboardingCompleted = identity.OnboardingCompleted
	}

	decision := access.Decide(in)

	if h.metrics != nil {
		h.metrics.GateDecisions.WithLabelValues(string(decision.Outcome)).Inc()
	}

	httputil.JSON(w, http.StatusOK, CheckResponse{
		Outcome:     string(decision.Outcome),
		Target:      decision.Target,
		Role:        string(resolution.Role),
		DevOverride: resolution.DevOverride,
	})
}

// identityFromRequest loads the caller's profile when a valid access
// token is present. Any failure along the way degrades to anonymous.
func (h *Handler) identityFromRequest(r *http.Request) *domain.Identity {
	token := bearerOrCookieToken(r)
	if token == "" {
		return nil
	}

	claims, err := h.sessionService.ValidateAccessToken(token)
	if err != nil {
		return nil
	}

	identityID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil
	}

	identity, err := h.profiles.GetByID(r.Context(), identityID)
	if err != nil {
		return nil
	}
	return identity
}

// paymentState reports whether any of the identity's active memberships
// belongs to a company that completed payment. No membership counts as
// incomplete, so fresh accounts land on the payment route first.
func (h *Handler) paymentState(r *http.Request, identityID uuid.UUID) domain.PaymentState {
	memberships, err := h.memberships.GetActiveWithCompanies(r.Context(), identityID)
	if err != nil {
		h.logger.Error("membership lookup failed", "error", err, "identity_id", identityID)
		return domain.PaymentIncomplete
	}

	for _, m := range memberships {
		if m.Company.PaymentCompleted {
			return domain.PaymentComplete
		}
	}
	return domain.PaymentIncomplete
}

func bearerOrCookieToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	if token, ok := httputil.GetAccessTokenFromCookie(r); ok {
		return token
	}
	return ""
}

// DevSessionRequest exchanges the deployment's access code for a
// development superadmin session.
type DevSessionRequest struct {
	AccessCode string `json:"access_code"`
	Identity   string `json:"identity,omitempty"`
}

// DevSessionResponse describes the granted dev session.
type DevSessionResponse struct {
	Identity  string    `json:"identity"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DevSession grants a 24-hour superadmin override session.
// POST /v1/auth/dev-session
//
// The route answers 404 outside development and staging so production
// deployments do not even admit the endpoint exists.
func (h *Handler) DevSession(w http.ResponseWriter, r *http.Request) {
	if !h.resolver.DevOverrideAllowed() || h.devAccessCode == "" {
		http.NotFound(w, r)
		return
	}

	var req DevSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !auth.VerifyAccessCode(req.AccessCode, h.devAccessCode) {
		h.logger.Warn("dev session denied", "ip", r.RemoteAddr)
		httputil.Error(w, http.StatusUnauthorized, "invalid access code")
		return
	}

	identity := req.Identity
	if identity == "" {
		identity = "developer"
	}

	now := time.Now()
	session := &domain.DevSession{
		Identity: identity,
		IssuedAt: now,
	}
	if err := httputil.SetDevSessionCookie(w, session, h.cookieConfig); err != nil {
		httputil.Error(w, http.StatusInternalServerError, "failed to create dev session")
		return
	}

	h.logger.Info("dev session granted", "identity", identity, "ip", r.RemoteAddr)

	httputil.JSON(w, http.StatusCreated, DevSessionResponse{
		Identity:  identity,
		IssuedAt:  now,
		ExpiresAt: now.Add(domain.DevSessionMaxAge),
	})
}

// ClearDevSession drops the dev session cookie.
// DELETE /v1/auth/dev-session
func (h *Handler) ClearDevSession(w http.ResponseWriter, r *http.Request) {
	httputil.ClearDevSessionCookie(w, h.cookieConfig)
	w.WriteHeader(http.StatusNoContent)
}
