package parsers

import (
	"bufio"
	"io"
	"strings"

	logpkg "github.com/haukened/safe-block/internal/safeblock/common/log"
)

// ParsePlainList parses a newline-delimited list of domains or URLs into
// canonical keys.
//
// Behavior:
// - Supports comments starting with '#' (inline or whole-line)
// - Accepts URL forms; each entry goes through the shared canonical form
// - Skips wildcard entries ("*.", leading "."): matching is exact only
// - Skips empty lines and keys that are not plausible domains
// - De-duplicates by key while preserving first-seen order
func ParsePlainList(r io.Reader, source string, logger logpkg.Logger) ([]string, error) {
	scanner := bufio.NewScanner(r)

	seen := make(map[string]struct{})
	out := make([]string, 0, 256)
	logger.Debug(map[string]any{"source": source}, "parse_plain_list_start")
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := stripLineBOM(scanner.Text())

		if isEmpty, isComment := classifyLine(line); isEmpty || isComment {
			continue
		}

		raw := strings.TrimSpace(stripInlineComment(line))
		if raw == "" {
			continue
		}
		if isWildcardToken(raw) {
			logger.Debug(map[string]any{"line": lineNum, "raw": raw}, "skip_wildcard")
			continue
		}

		key := normalizeKey(raw)
		if !isValidFQDN(key) {
			logger.Debug(map[string]any{"line": lineNum, "raw": raw, "key": key}, "skip_invalid_fqdn")
			continue
		}
		if _, ok := seen[key]; ok {
			logger.Debug(map[string]any{"line": lineNum, "key": key}, "skip_duplicate")
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}

	if err := scanner.Err(); err != nil {
		logger.Debug(map[string]any{"source": source, "error": err.Error()}, "parse_plain_list_scan_error")
		return nil, err
	}
	logger.Debug(map[string]any{"source": source, "count": len(out)}, "parse_plain_list_done")
	return out, nil
}
