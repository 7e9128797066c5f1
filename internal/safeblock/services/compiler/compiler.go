package compiler

import (
	"slices"
	"sync"

	"github.com/haukened/safe-block/internal/safeblock/common/log"
	"github.com/haukened/safe-block/internal/safeblock/common/utils"
	"github.com/haukened/safe-block/internal/safeblock/domain"
)

// Compile derives the complete rule set for s. It is a pure function of its
// inputs.
//
// Adult rules are emitted only while s.BlockAdultSites is set and take IDs
// AdultRuleBase+i in reference order. Custom rules take CustomRuleBase+j in
// list order, where j counts only entries with a non-empty canonical key.
func Compile(s domain.Settings, ref *domain.ReferenceList) []domain.EnforcementRule {
	rules := make([]domain.EnforcementRule, 0, ref.Len()+len(s.CustomBlockedURLs))
	if s.BlockAdultSites {
		for i, key := range ref.Names() {
			rules = append(rules, blockRule(domain.AdultRuleBase+i, key))
		}
	}
	next := domain.CustomRuleBase
	for _, raw := range s.CustomBlockedURLs {
		key := utils.CanonicalURL(raw)
		if key == "" {
			continue
		}
		rules = append(rules, blockRule(next, key))
		next++
	}
	return rules
}

func blockRule(id int, key string) domain.EnforcementRule {
	return domain.EnforcementRule{ID: id, Pattern: key, Action: domain.ActionBlock}
}

// Index maps each pattern to the first rule that carries it. Adult rules
// precede custom rules in Compile output, so a key on both lists resolves to
// its adult rule.
func Index(rules []domain.EnforcementRule) map[string]domain.EnforcementRule {
	idx := make(map[string]domain.EnforcementRule, len(rules))
	for _, r := range rules {
		if _, ok := idx[r.Pattern]; !ok {
			idx[r.Pattern] = r
		}
	}
	return idx
}

// Plan is a full-replace diff for the enforcement collaborator: remove every
// previously registered ID, then install AddRules.
type Plan struct {
	RemoveIDs []int
	AddRules  []domain.EnforcementRule
}

// AddIDs returns the IDs of AddRules in order.
func (p Plan) AddIDs() []int {
	ids := make([]int, len(p.AddRules))
	for i, r := range p.AddRules {
		ids[i] = r.ID
	}
	return ids
}

// Compiler remembers which rule IDs were last handed to the enforcement
// collaborator so every recompilation can retract them.
type Compiler struct {
	mu       sync.Mutex
	ref      *domain.ReferenceList
	previous []int
	logger   log.Logger
}

// New creates a Compiler over ref. A nil ref uses the built-in list.
func New(ref *domain.ReferenceList, logger log.Logger) *Compiler {
	if ref == nil {
		ref = domain.DefaultReferenceList()
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Compiler{ref: ref, logger: logger.Named("compiler")}
}

// Reference returns the adult list rules are compiled from.
func (c *Compiler) Reference() *domain.ReferenceList { return c.ref }

// Seed replaces the remembered IDs, typically with whatever the enforcement
// collaborator reports as installed at startup.
func (c *Compiler) Seed(ids []int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.previous = normalizeIDs(ids)
}

// Previous returns the remembered IDs in ascending order.
func (c *Compiler) Previous() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.previous)
}

// Plan computes the diff for s without recording it. Callers apply the plan
// and then Commit it once the collaborator accepted it.
func (c *Compiler) Plan(s domain.Settings) Plan {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Plan{
		RemoveIDs: slices.Clone(c.previous),
		AddRules:  Compile(s, c.ref),
	}
}

// Commit records p's added IDs as the installed set.
func (c *Compiler) Commit(p Plan) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.previous = normalizeIDs(p.AddIDs())
	c.logger.Debug(map[string]any{
		"removed": len(p.RemoveIDs),
		"added":   len(p.AddRules),
	}, "rules_committed")
}

// Compile is Plan followed by Commit. It returns the IDs to retract and the
// rules to install.
func (c *Compiler) Compile(s domain.Settings) ([]int, []domain.EnforcementRule) {
	p := c.Plan(s)
	c.Commit(p)
	return p.RemoveIDs, p.AddRules
}

func normalizeIDs(ids []int) []int {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
