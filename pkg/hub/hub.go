// Package hub holds the static registry of branded product instances
// ("hubs") and resolves inbound hostnames to a hub.
package hub

// ID identifies a hub. The set of hubs is fixed at build time.
type ID string

const (
	Gnymble   ID = "gnymble"
	PercyTech ID = "percytech"
	PercyMD   ID = "percymd"
	PercyText ID = "percytext"
)

// Tier is a deployment environment tier.
type Tier string

const (
	TierProduction  Tier = "production"
	TierStaging     Tier = "staging"
	TierDevelopment Tier = "development"
)

// Colors holds a hub's brand palette.
type Colors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// Features holds per-hub feature flags.
type Features struct {
	Campaigns     bool `json:"campaigns"`
	Onboarding    bool `json:"onboarding"`
	SelfSignup    bool `json:"self_signup"`
	AdminTexting  bool `json:"admin_texting"`
}

// Domains holds a hub's hostnames per environment tier.
type Domains struct {
	Production  []string `json:"production"`
	Staging     []string `json:"staging"`
	Development []string `json:"development"`
}

// ForTier returns the domain set for a tier.
func (d Domains) ForTier(t Tier) []string {
	switch t {
	case TierStaging:
		return d.Staging
	case TierDevelopment:
		return d.Development
	default:
		return d.Production
	}
}

// All returns every configured domain across all tiers, production first.
func (d Domains) All() []string {
	out := make([]string, 0, len(d.Production)+len(d.Staging)+len(d.Development))
	out = append(out, d.Production...)
	out = append(out, d.Staging...)
	out = append(out, d.Development...)
	return out
}

// Hub describes one branded product instance. Hubs are immutable at
// runtime; they are defined below and never created or destroyed.
type Hub struct {
	ID       ID       `json:"id"`
	Name     string   `json:"name"`
	Colors   Colors   `json:"colors"`
	Features Features `json:"features"`
	Domains  Domains  `json:"domains"`
}

// PrimaryDomain returns the hub's canonical production hostname.
func (h Hub) PrimaryDomain() string {
	if len(h.Domains.Production) == 0 {
		return ""
	}
	return h.Domains.Production[0]
}

// registry lists every hub. Order matters: hostname resolution checks
// hubs in this order and the first entry is the documented default.
var registry = []Hub{
	{
		ID:   Gnymble,
		Name: "Gnymble",
		Colors: Colors{
			Primary:   "#1A1A2E",
			Secondary: "#16213E",
			Accent:    "#E94560",
		},
		Features: Features{
			Campaigns:    true,
			Onboarding:   true,
			SelfSignup:   true,
			AdminTexting: true,
		},
		Domains: Domains{
			Production:  []string{"gnymble.com", "app.gnymble.com"},
			Staging:     []string{"staging.gnymble.com"},
			Development: []string{"gnymble.localhost", "dev.gnymble.com"},
		},
	},
	{
		ID:   PercyTech,
		Name: "PercyTech",
		Colors: Colors{
			Primary:   "#0F3460",
			Secondary: "#16213E",
			Accent:    "#533483",
		},
		Features: Features{
			Campaigns:    true,
			Onboarding:   true,
			SelfSignup:   false,
			AdminTexting: true,
		},
		Domains: Domains{
			Production:  []string{"percytech.com", "app.percytech.com"},
			Staging:     []string{"staging.percytech.com"},
			Development: []string{"percytech.localhost"},
		},
	},
	{
		ID:   PercyMD,
		Name: "PercyMD",
		Colors: Colors{
			Primary:   "#2C5F2D",
			Secondary: "#97BC62",
			Accent:    "#FFE77A",
		},
		Features: Features{
			Campaigns:    true,
			Onboarding:   true,
			SelfSignup:   true,
			AdminTexting: false,
		},
		Domains: Domains{
			Production:  []string{"percymd.com", "app.percymd.com"},
			Staging:     []string{"staging.percymd.com"},
			Development: []string{"percymd.localhost"},
		},
	},
	{
		ID:   PercyText,
		Name: "PercyText",
		Colors: Colors{
			Primary:   "#1B262C",
			Secondary: "#0F4C75",
			Accent:    "#3282B8",
		},
		Features: Features{
			Campaigns:    true,
			Onboarding:   false,
			SelfSignup:   true,
			AdminTexting: true,
		},
		Domains: Domains{
			Production:  []string{"percytext.com", "app.percytext.com"},
			Staging:     []string{"staging.percytext.com"},
			Development: []string{"percytext.localhost"},
		},
	},
}

// Default returns the fallback hub used when nothing else matches.
func Default() Hub {
	return registry[0]
}

// All returns every registered hub in resolution order.
func All() []Hub {
	out := make([]Hub, len(registry))
	copy(out, registry)
	return out
}

// Get returns the hub with the given ID.
func Get(id ID) (Hub, bool) {
	for _, h := range registry {
		if h.ID == id {
			return h, true
		}
	}
	return Hub{}, false
}

// Valid reports whether id names a registered hub.
func Valid(id ID) bool {
	_, ok := Get(id)
	return ok
}
