package admin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/percytech/hubgate/internal/http/middleware"
	"github.com/percytech/hubgate/internal/httputil"
	"github.com/percytech/hubgate/pkg/auth"
	"github.com/percytech/hubgate/pkg/domain"
	"github.com/percytech/hubgate/pkg/repository"
)

// Handler handles administrative identity and membership operations.
type Handler struct {
	logger         *slog.Logger
	profiles       *repository.ProfilesRepository
	memberships    *repository.MembershipsRepository
	sessionService *auth.SessionService
}

// NewHandler creates a new admin handler.
func NewHandler(
	logger *slog.Logger,
	profiles *repository.ProfilesRepository,
	memberships *repository.MembershipsRepository,
	sessionService *auth.SessionService,
) *Handler {
	return &Handler{
		logger:         logger,
		profiles:       profiles,
		memberships:    memberships,
		sessionService: sessionService,
	}
}

// RoleChangeRequest changes a membership's role.
type RoleChangeRequest struct {
	Role string `json:"role"`
}

// DeactivateIdentity deactivates an identity and revokes its sessions.
// POST /v1/admin/identities/{id}/deactivate
//
// Deactivation is reversible and is the normal way to shut an account
// off. All live sessions are revoked so the change takes effect now,
// not at next token expiry.
func (h *Handler) DeactivateIdentity(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid identity id")
		return
	}

	if err := h.profiles.Deactivate(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			httputil.Error(w, http.StatusNotFound, "identity not found")
			return
		}
		h.logger.Error("deactivate failed", "error", err, "identity_id", id)
		httputil.Error(w, http.StatusInternalServerError, "failed to deactivate identity")
		return
	}

	if err := h.sessionService.RevokeAllSessions(r.Context(), id); err != nil {
		h.logger.Error("session revocation failed", "error", err, "identity_id", id)
	}

	actor, _ := middleware.GetIdentityID(r.Context())
	h.logger.Info("identity deactivated", "identity_id", id, "actor_id", actor)

	w.WriteHeader(http.StatusNoContent)
}

// DeleteIdentity permanently removes an identity.
// DELETE /v1/admin/identities/{id}
//
// Hard delete exists for data-removal requests. Day-to-day offboarding
// should use deactivation instead.
func (h *Handler) DeleteIdentity(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid identity id")
		return
	}

	if actor, ok := middleware.GetIdentityID(r.Context()); ok && actor == id {
		httputil.Error(w, http.StatusBadRequest, "cannot delete your own account here")
		return
	}

	if err := h.sessionService.RevokeAllSessions(r.Context(), id); err != nil {
		h.logger.Error("session revocation failed", "error", err, "identity_id", id)
	}

	if err := h.profiles.HardDelete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			httputil.Error(w, http.StatusNotFound, "identity not found")
			return
		}
		h.logger.Error("hard delete failed", "error", err, "identity_id", id)
		httputil.Error(w, http.StatusInternalServerError, "failed to delete identity")
		return
	}

	actor, _ := middleware.GetIdentityID(r.Context())
	h.logger.Info("identity deleted", "identity_id", id, "actor_id", actor)

	w.WriteHeader(http.StatusNoContent)
}

// ChangeMembershipRole changes the role on a company membership.
// PATCH /v1/admin/memberships/{id}/role
//
// Superadmin is not grantable through this endpoint; it is assigned
// out of band.
func (h *Handler) ChangeMembershipRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid membership id")
		return
	}

	var req RoleChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role := domain.ParseRole(req.Role)
	if !role.Valid() || role == domain.RoleSuperadmin {
		httputil.Error(w, http.StatusBadRequest, "invalid role")
		return
	}

	if err := h.memberships.UpdateRole(r.Context(), id, role); err != nil {
		if errors.Is(err, domain.ErrMembershipNotFound) {
			httputil.Error(w, http.StatusNotFound, "membership not found")
			return
		}
		h.logger.Error("role change failed", "error", err, "membership_id", id)
		httputil.Error(w, http.StatusInternalServerError, "failed to change role")
		return
	}

	actor, _ := middleware.GetIdentityID(r.Context())
	h.logger.Info("membership role changed", "membership_id", id, "role", role, "actor_id", actor)

	membership, err := h.memberships.GetByID(r.Context(), id)
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{
		"id":     membership.ID.String(),
		"role":   string(membership.Role),
		"status": string(membership.Status),
	})
}
