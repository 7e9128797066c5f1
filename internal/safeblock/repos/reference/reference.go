package reference

import (
	"fmt"
	"io"
	"os"
	"strings"

	logpkg "github.com/haukened/safe-block/internal/safeblock/common/log"
	"github.com/haukened/safe-block/internal/safeblock/domain"
	"github.com/haukened/safe-block/internal/safeblock/repos/reference/parsers"
)

// Format selects the parser for a reference list file.
type Format string

const (
	FormatPlain Format = "plain"
	FormatHosts Format = "hosts"
)

// ParseFormat converts a string into a Format (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPlain:
		return FormatPlain, nil
	case FormatHosts:
		return FormatHosts, nil
	default:
		return "", fmt.Errorf("unsupported reference format: %q", s)
	}
}

// openFile is swapped in tests.
var openFile = func(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Load returns the adult-category reference list. An empty path yields the
// built-in list; otherwise the file is parsed in the given format.
func Load(path string, format Format, logger logpkg.Logger) (*domain.ReferenceList, error) {
	if strings.TrimSpace(path) == "" {
		ref := domain.DefaultReferenceList()
		logger.Debug(map[string]any{"entries": ref.Len()}, "reference_list_builtin")
		return ref, nil
	}

	f, err := openFile(path)
	if err != nil {
		return nil, fmt.Errorf("open reference list: %w", err)
	}
	defer f.Close()

	ref, err := Read(f, format, path, logger)
	if err != nil {
		return nil, err
	}
	logger.Info(map[string]any{"path": path, "format": string(format), "entries": ref.Len()}, "reference_list_loaded")
	return ref, nil
}

// Read parses a reference list from r. source labels log entries.
func Read(r io.Reader, format Format, source string, logger logpkg.Logger) (*domain.ReferenceList, error) {
	var (
		keys []string
		err  error
	)
	switch format {
	case FormatPlain:
		keys, err = parsers.ParsePlainList(r, source, logger)
	case FormatHosts:
		keys, err = parsers.ParseHostsFile(r, source, logger)
	default:
		return nil, fmt.Errorf("unsupported reference format: %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse reference list %s: %w", source, err)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("reference list %s has no usable entries", source)
	}
	return domain.NewReferenceList(keys...)
}
