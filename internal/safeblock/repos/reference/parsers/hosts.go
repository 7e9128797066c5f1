package parsers

import (
	"bufio"
	"io"
	"strings"

	logpkg "github.com/haukened/safe-block/internal/safeblock/common/log"
)

// ParseHostsFile parses /etc/hosts-style blocklists (e.g. "0.0.0.0 adultsite.com")
// and returns canonical keys for the valid hostnames.
//
// Rules:
// - Ignore the IP field; extract one or more hostnames following it
// - Skip comments (whole-line or inline after '#') and blank lines
// - Skip wildcard tokens and names starting with '.'
// - Skip loopback aliases commonly found at the top of hosts files
// - De-duplicate by key, preserving first-seen order
func ParseHostsFile(r io.Reader, source string, logger logpkg.Logger) ([]string, error) {
	scanner := bufio.NewScanner(r)

	seen := make(map[string]struct{})
	out := make([]string, 0, 256)

	logger.Debug(map[string]any{"source": source}, "parse_hosts_start")

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := stripLineBOM(scanner.Text())

		if isEmpty, isComment := classifyLine(line); isEmpty || isComment {
			continue
		}

		fields := strings.Fields(stripInlineComment(line))
		if len(fields) < 2 {
			logger.Debug(map[string]any{"line": lineNum}, "hosts_no_hostnames")
			continue
		}

		for _, raw := range fields[1:] {
			if isWildcardToken(raw) {
				logger.Debug(map[string]any{"line": lineNum, "raw": raw}, "hosts_skip_invalid_token")
				continue
			}

			key := normalizeKey(raw)
			if isLoopbackAlias(key) || !isValidFQDN(key) {
				logger.Debug(map[string]any{"line": lineNum, "key": key}, "hosts_skip_invalid_fqdn")
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}

	if err := scanner.Err(); err != nil {
		logger.Debug(map[string]any{"source": source, "error": err.Error()}, "parse_hosts_scan_error")
		return nil, err
	}

	logger.Debug(map[string]any{"source": source, "count": len(out)}, "parse_hosts_done")
	return out, nil
}

func isLoopbackAlias(name string) bool {
	switch name {
	case "localhost.localdomain", "local", "broadcasthost", "ip6-localhost", "ip6-loopback":
		return true
	}
	return false
}
