package parsers

import (
	"strings"
	"unicode"

	"github.com/haukened/safe-block/internal/safeblock/common/utils"
)

// isValidFQDN checks whether the provided string is a plausible domain key.
// It enforces the following rules:
//   - The total length must not exceed 255 characters.
//   - The name must contain at least two labels (separated by dots).
//   - Each label must be between 1 and 63 characters long.
//   - The first label must start with a letter or number.
func isValidFQDN(name string) bool {
	if len(name) > 255 {
		return false
	}
	labels := strings.Split(name, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if len(label) > 63 || len(label) == 0 {
			return false
		}
	}
	runes := []rune(labels[0])
	return isAlphaNumeric(runes[0])
}

// isWildcardToken reports tokens that ask for subdomain matching, which the
// reference list does not support.
func isWildcardToken(raw string) bool {
	return strings.HasPrefix(raw, ".") || strings.Contains(raw, "*")
}

// normalizeKey lowercases list entries (feeds are case-insensitive DNS names)
// and then applies the shared canonical form.
func normalizeKey(raw string) string {
	return utils.CanonicalURL(strings.ToLower(strings.TrimSpace(raw)))
}

// stripLineBOM removes a UTF-8 byte order mark from the start of a line.
func stripLineBOM(line string) string {
	return strings.TrimPrefix(line, "\uFEFF")
}

// classifyLine reports whether a line is blank or a whole-line comment.
func classifyLine(line string) (isEmpty, isComment bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true, false
	}
	return false, strings.HasPrefix(trimmed, "#")
}

// stripInlineComment drops everything from the first '#'.
func stripInlineComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		return line[:idx]
	}
	return line
}

// isAlphaNumeric reports whether the given rune is a letter or digit.
func isAlphaNumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
