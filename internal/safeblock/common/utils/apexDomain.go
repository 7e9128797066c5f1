package utils

import "golang.org/x/net/publicsuffix"

// ApexDomain returns the registrable domain (eTLD+1) for a canonical key.
// It is informational only; blocklist matching never widens to the apex.
// When the key has no recognizable public suffix the key itself is returned.
func ApexDomain(key string) string {
	key = CanonicalURL(key)
	if key == "" {
		return ""
	}
	apex, err := publicsuffix.EffectiveTLDPlusOne(key)
	if err != nil {
		return key
	}
	return apex
}
