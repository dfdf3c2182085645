package verify

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/percytech/hubgate/internal/http/middleware"
	"github.com/percytech/hubgate/internal/httputil"
	"github.com/percytech/hubgate/internal/notification"
	"github.com/percytech/hubgate/pkg/auth"
	"github.com/percytech/hubgate/pkg/domain"
)

// Handler handles contact verification endpoints.
type Handler struct {
	logger              *slog.Logger
	verificationService *auth.VerificationService
	emailService        *notification.EmailService
}

// NewHandler creates a new verify handler. emailService may be nil; the
// code is then returned in the response for out-of-band delivery.
func NewHandler(logger *slog.Logger, verificationService *auth.VerificationService, emailService *notification.EmailService) *Handler {
	return &Handler{
		logger:              logger,
		verificationService: verificationService,
		emailService:        emailService,
	}
}

// StartRequest begins verification of a contact.
type StartRequest struct {
	Contact string `json:"contact"`
}

// CheckRequest submits a verification code.
type CheckRequest struct {
	Code string `json:"code"`
}

// Start begins verification for a contact and delivers a one-time code.
// POST /v1/verify/start
// Requires authentication
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	identityID, ok := middleware.GetIdentityID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contact := strings.TrimSpace(req.Contact)
	if contact == "" {
		httputil.Error(w, http.StatusBadRequest, "contact is required")
		return
	}

	code, err := h.verificationService.Start(r.Context(), identityID, contact)
	if err != nil {
		h.logger.Error("verification start failed", "error", err, "identity_id", identityID)
		httputil.Error(w, http.StatusInternalServerError, "failed to start verification")
		return
	}

	if h.emailService != nil && strings.Contains(contact, "@") {
		if err := h.emailService.SendVerificationCode(contact, code); err != nil {
			h.logger.Error("verification code delivery failed", "error", err, "identity_id", identityID)
			httputil.Error(w, http.StatusInternalServerError, "failed to deliver verification code")
			return
		}
		httputil.JSON(w, http.StatusAccepted, map[string]string{
			"status": "code sent",
		})
		return
	}

	// No delivery channel configured: hand the code back so the caller
	// can deliver it (SMS hubs do this through their own gateway).
	httputil.JSON(w, http.StatusOK, map[string]string{
		"status": "pending",
		"code":   code,
	})
}

// Check validates a submitted verification code.
// POST /v1/verify/check
// Requires authentication
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	identityID, ok := middleware.GetIdentityID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.verificationService.Check(r.Context(), identityID, req.Code); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCode):
			httputil.Error(w, http.StatusBadRequest, "invalid or expired code")
		case errors.Is(err, domain.ErrVerificationNotFound):
			httputil.Error(w, http.StatusNotFound, "no pending verification")
		default:
			h.logger.Error("verification check failed", "error", err, "identity_id", identityID)
			httputil.Error(w, http.StatusInternalServerError, "failed to check code")
		}
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"status": "verified"})
}
