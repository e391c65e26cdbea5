// Package gate decides whether a page should be instrumented. The core
// consumes the result as a plain boolean; matching logic lives here so
// hosts share one implementation.
package gate

import "strings"

// Mode selects how the domain lists are interpreted.
type Mode string

const (
	// ModeBlocklist activates everywhere except listed domains.
	ModeBlocklist Mode = "blocklist"

	// ModeAllowlist activates only on listed domains.
	ModeAllowlist Mode = "allowlist"
)

// DomainSettings is the domain portion of the persisted settings.
type DomainSettings struct {
	Mode     Mode     `json:"mode"`
	Patterns []string `json:"patterns"`
}

// ShouldActivate reports whether autocomplete should run on the given
// hostname. It is consulted once per page load and again on settings
// change. An unrecognized mode falls back to blocklist, erring toward
// staying active.
func ShouldActivate(hostname string, d DomainSettings) bool {
	matched := matchAny(hostname, d.Patterns)
	if d.Mode == ModeAllowlist {
		return matched
	}
	return !matched
}

// matchAny reports whether hostname matches any pattern. A pattern
// matches its exact host; a "*." prefix additionally matches any
// subdomain. Matching is case-insensitive.
func matchAny(hostname string, patterns []string) bool {
	host := strings.ToLower(strings.TrimSpace(hostname))
	for _, p := range patterns {
		if Match(host, p) {
			return true
		}
	}
	return false
}

// Match reports whether a single pattern covers the host.
func Match(host, pattern string) bool {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" || host == "" {
		return false
	}
	if base, ok := strings.CutPrefix(pattern, "*."); ok {
		return host == base || strings.HasSuffix(host, "."+base)
	}
	return host == pattern
}
