package access

import (
	"context"
	"errors"

	"github.com/percytech/hubgate/pkg/domain"
	"github.com/percytech/hubgate/pkg/hub"
)

// ProfileLookup is the slice of profile storage the guard needs.
type ProfileLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
}

// CrossTenantGuard detects an identity being claimed by more than one
// hub and refuses the ambiguous cases. Credentials are shared across
// hubs, so the guard is what keeps one email from quietly growing
// accounts on several hubs.
type CrossTenantGuard struct {
	profiles ProfileLookup
}

// NewCrossTenantGuard creates a new guard over the given profile store.
func NewCrossTenantGuard(profiles ProfileLookup) *CrossTenantGuard {
	return &CrossTenantGuard{profiles: profiles}
}

// CheckSignup decides whether a new signup for email may proceed under
// the target hub.
//
// An existing profile on another hub is a cross-hub conflict: the
// signup is refused with a user-visible warning, never silently merged.
// An existing profile on the same hub is a plain duplicate. If the
// profile store cannot answer, the guard fails closed for signup
// (ErrHubUnresolved) — login stays available, cross-tenant access is
// never granted by default.
func (g *CrossTenantGuard) CheckSignup(ctx context.Context, email string, target hub.ID) error {
	existing, err := g.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return nil
		}
		return domain.ErrHubUnresolved
	}

	if existing.HubID != target {
		return domain.ErrCrossHubConflict
	}
	return domain.ErrIdentityExists
}

// HomeHub returns the hub that already holds an account for email.
func (g *CrossTenantGuard) HomeHub(ctx context.Context, email string) (hub.Hub, error) {
	existing, err := g.profiles.GetByEmail(ctx, email)
	if err != nil {
		return hub.Hub{}, err
	}

	home, ok := hub.Get(existing.HubID)
	if !ok {
		return hub.Hub{}, domain.ErrHubUnresolved
	}
	return home, nil
}

// LoginRedirect computes where to send an authenticated identity whose
// home hub differs from the hub the request arrived on. The target is
// the home hub's canonical production domain. The second return is
// false when no redirect applies.
func (g *CrossTenantGuard) LoginRedirect(identity *domain.Identity, current hub.ID) (string, bool) {
	if identity == nil || identity.HubID == current {
		return "", false
	}

	home, ok := hub.Get(identity.HubID)
	if !ok || home.PrimaryDomain() == "" {
		// Unknown home hub: stay put rather than bounce the user to
		// a domain that does not exist.
		return "", false
	}

	return "https://" + home.PrimaryDomain(), true
}
