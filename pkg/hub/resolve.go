package hub

import "strings"

// ResolveHost maps an inbound hostname to a hub.
//
// The host is normalized (scheme, leading "www.", port and case are
// stripped) and then compared by substring containment against every
// configured domain of every hub, across all three tiers. Hubs are
// checked in registry order and the first match wins; containment rather
// than exact match is intentional so subdomains and preview hosts
// resolve without per-host configuration.
//
// An unmatched host is not an error: it resolves to the default hub.
func ResolveHost(host string) Hub {
	cleaned := CleanHost(host)
	if cleaned == "" {
		return Default()
	}

	for _, h := range registry {
		for _, domain := range h.Domains.All() {
			if strings.Contains(cleaned, domain) {
				return h
			}
		}
	}

	return Default()
}

// CleanHost strips scheme, leading "www.", port and case from a host
// string so it can be compared against configured domains.
func CleanHost(host string) string {
	host = strings.TrimSpace(strings.ToLower(host))

	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	host = strings.TrimPrefix(host, "www.")

	// Strip a trailing :port. IPv6 literals keep their brackets.
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}

	return host
}
