package enforcement

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/haukened/safe-block/internal/safeblock/common/log"
	"github.com/haukened/safe-block/internal/safeblock/domain"
)

// seams for tests
var (
	createTemp = os.CreateTemp
	rename     = os.Rename
	readFile   = os.ReadFile
)

// File keeps the installed rules in a declarativeNetRequest ruleset JSON file
// that a browser extension can load. Every change rewrites the file
// atomically; the in-memory table only advances once the write succeeded.
type File struct {
	mu     sync.Mutex
	path   string
	rules  ruleSet
	logger log.Logger
}

// NewFile opens the ruleset at path. A missing file is an empty ruleset.
func NewFile(path string, logger log.Logger) (*File, error) {
	if path == "" {
		return nil, errors.New("ruleset path must not be empty")
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	rules, err := loadRuleset(path)
	if err != nil {
		return nil, err
	}
	logger.Debug(map[string]any{"path": path, "rules": len(rules)}, "ruleset_loaded")
	return &File{path: path, rules: rules, logger: logger.Named("ruleset")}, nil
}

func loadRuleset(path string) (ruleSet, error) {
	rules := make(ruleSet)
	b, err := readFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return rules, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ruleset: %w", err)
	}
	var dnr []DNRRule
	if err := json.Unmarshal(b, &dnr); err != nil {
		return nil, fmt.Errorf("decode ruleset %s: %w", path, err)
	}
	parsed := make([]domain.EnforcementRule, 0, len(dnr))
	for _, d := range dnr {
		r, err := Parse(d)
		if err != nil {
			return nil, fmt.Errorf("decode ruleset %s: %w", path, err)
		}
		parsed = append(parsed, r)
	}
	if err := rules.add(parsed); err != nil {
		return nil, fmt.Errorf("decode ruleset %s: %w", path, err)
	}
	return rules, nil
}

// Path returns the ruleset file location.
func (f *File) Path() string { return f.path }

// RuleIDs returns the installed IDs in ascending order.
func (f *File) RuleIDs() ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rules.ids(), nil
}

// Rules returns the installed rules ordered by ID.
func (f *File) Rules() []domain.EnforcementRule {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rules.sorted()
}

// RemoveRuleIDs uninstalls ids. Unknown IDs are ignored.
func (f *File) RemoveRuleIDs(ids []int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := maps.Clone(f.rules)
	n := next.remove(ids)
	if err := f.write(next); err != nil {
		return err
	}
	f.rules = next
	f.logger.Debug(map[string]any{"requested": len(ids), "removed": n}, "ruleset_rules_removed")
	return nil
}

// AddRules installs rules. The batch is rejected as a whole if any rule is
// invalid or collides with an installed ID.
func (f *File) AddRules(rules []domain.EnforcementRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := maps.Clone(f.rules)
	if err := next.add(rules); err != nil {
		return err
	}
	if err := f.write(next); err != nil {
		return err
	}
	f.rules = next
	f.logger.Debug(map[string]any{"added": len(rules), "total": len(next)}, "ruleset_rules_added")
	return nil
}

func (f *File) write(rules ruleSet) error {
	out := make([]DNRRule, 0, len(rules))
	for _, r := range rules.sorted() {
		d, err := Render(r)
		if err != nil {
			return err
		}
		out = append(out, d)
	}
	if err := writeRulesetAtomic(f.path, out); err != nil {
		return fmt.Errorf("write ruleset %s: %w", f.path, err)
	}
	return nil
}

func writeRulesetAtomic(path string, rules []DNRRule) error {
	dir := filepath.Dir(path)
	tmp, err := createTemp(dir, ".ruleset.json.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rules); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return rename(tmpName, path)
}
