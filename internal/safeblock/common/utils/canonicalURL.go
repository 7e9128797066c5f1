package utils

import (
	"strings"
	"unicode"
)

var schemes = []string{"http://", "https://"}

// CanonicalURL reduces a raw URL or domain to the key used for every blocklist
// comparison:
//   - Surrounding whitespace is trimmed
//   - A leading "http://" or "https://" (any case) is removed
//   - A leading "www." label is removed
//   - Everything from the first "/" onward is dropped
//
// No case folding, IDNA mapping or percent-decoding is applied. Prefix stripping
// repeats until nothing changes, which makes the result a fixed point:
// CanonicalURL(CanonicalURL(x)) == CanonicalURL(x) for every x.
// Empty or malformed input yields "".
func CanonicalURL(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		next := strings.TrimPrefix(stripScheme(s), "www.")
		next = strings.TrimSpace(next)
		if next == s {
			break
		}
		s = next
	}
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// stripScheme removes one leading http(s) scheme, matched case-insensitively.
func stripScheme(s string) string {
	for _, scheme := range schemes {
		if len(s) >= len(scheme) && strings.EqualFold(s[:len(scheme)], scheme) {
			return s[len(scheme):]
		}
	}
	return s
}

