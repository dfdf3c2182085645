package me

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/percytech/hubgate/internal/http/middleware"
	"github.com/percytech/hubgate/internal/httputil"
	"github.com/percytech/hubgate/pkg/domain"
	"github.com/percytech/hubgate/pkg/repository"
)

// Handler handles identity profile endpoints.
type Handler struct {
	logger      *slog.Logger
	profiles    *repository.ProfilesRepository
	memberships *repository.MembershipsRepository
}

// NewHandler creates a new me handler.
func NewHandler(logger *slog.Logger, profiles *repository.ProfilesRepository, memberships *repository.MembershipsRepository) *Handler {
	return &Handler{
		logger:      logger,
		profiles:    profiles,
		memberships: memberships,
	}
}

// MembershipResponse is one company membership in the profile response.
type MembershipResponse struct {
	ID               string `json:"id"`
	CompanyID        string `json:"company_id"`
	CompanyName      string `json:"company_name"`
	Role             string `json:"role"`
	Status           string `json:"status"`
	PaymentCompleted bool   `json:"payment_completed"`
}

// ProfileResponse represents the identity profile response.
type ProfileResponse struct {
	ID                  string               `json:"id"`
	Email               string               `json:"email"`
	FirstName           *string              `json:"first_name,omitempty"`
	LastName            *string              `json:"last_name,omitempty"`
	HubID               string               `json:"hub_id"`
	Role                string               `json:"role"`
	OnboardingCompleted bool                 `json:"onboarding_completed"`
	Memberships         []MembershipResponse `json:"memberships"`
}

// UpdateRequest represents a profile update request.
type UpdateRequest struct {
	FirstName           *string `json:"first_name,omitempty"`
	LastName            *string `json:"last_name,omitempty"`
	OnboardingCompleted *bool   `json:"onboarding_completed,omitempty"`
}

// GetMe returns the current identity's profile and memberships.
// GET /v1/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	identityID, ok := middleware.GetIdentityID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	identity, err := h.profiles.GetByID(r.Context(), identityID)
	if err != nil {
		httputil.Error(w, http.StatusNotFound, "profile not found")
		return
	}

	memberships, err := h.memberships.GetActiveWithCompanies(r.Context(), identityID)
	if err != nil {
		h.logger.Error("membership lookup failed", "error", err, "identity_id", identityID)
		httputil.Error(w, http.StatusInternalServerError, "failed to load memberships")
		return
	}

	httputil.JSON(w, http.StatusOK, profileResponse(identity, memberships))
}

// UpdateMe updates the current identity's profile. Email and role are
// not editable here: email is the cross-hub identity key, and roles
// change only through the admin endpoints.
// PATCH /v1/me
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	identityID, ok := middleware.GetIdentityID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identity, err := h.profiles.GetByID(r.Context(), identityID)
	if err != nil {
		httputil.Error(w, http.StatusNotFound, "profile not found")
		return
	}

	if req.FirstName != nil {
		identity.FirstName = req.FirstName
	}
	if req.LastName != nil {
		identity.LastName = req.LastName
	}
	if req.OnboardingCompleted != nil {
		identity.OnboardingCompleted = *req.OnboardingCompleted
	}

	if err := h.profiles.Update(r.Context(), identity); err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			httputil.Error(w, http.StatusNotFound, "profile not found")
			return
		}
		h.logger.Error("profile update failed", "error", err, "identity_id", identityID)
		httputil.Error(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	memberships, err := h.memberships.GetActiveWithCompanies(r.Context(), identityID)
	if err != nil {
		memberships = nil
	}

	httputil.JSON(w, http.StatusOK, profileResponse(identity, memberships))
}

func profileResponse(identity *domain.Identity, memberships []*repository.MembershipWithCompany) ProfileResponse {
	out := ProfileResponse{
		ID:                  identity.ID.String(),
		Email:               identity.Email,
		FirstName:           identity.FirstName,
		LastName:            identity.LastName,
		HubID:               string(identity.HubID),
		Role:                string(identity.Role),
		OnboardingCompleted: identity.OnboardingCompleted,
		Memberships:         make([]MembershipResponse, 0, len(memberships)),
	}

	for _, m := range memberships {
		out.Memberships = append(out.Memberships, MembershipResponse{
			ID:               m.Membership.ID.String(),
			CompanyID:        m.Company.ID.String(),
			CompanyName:      m.Company.Name,
			Role:             string(m.Membership.Role),
			Status:           string(m.Membership.Status),
			PaymentCompleted: m.Company.PaymentCompleted,
		})
	}

	return out
}
