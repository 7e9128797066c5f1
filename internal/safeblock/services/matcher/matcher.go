package matcher

import (
	"strconv"
	"sync/atomic"

	"github.com/haukened/safe-block/internal/safeblock/common/log"
	"github.com/haukened/safe-block/internal/safeblock/common/utils"
	"github.com/haukened/safe-block/internal/safeblock/domain"
	"github.com/haukened/safe-block/internal/safeblock/repos/blocklist"
	"github.com/haukened/safe-block/internal/safeblock/services/compiler"
)

// IsBlocked reports whether url is blocked by s against the built-in reference list.
func IsBlocked(url string, s domain.Settings) bool {
	return Evaluate(url, s, domain.DefaultReferenceList()).Blocked
}

// Evaluate is the pure matching rule: the canonical key is blocked when the
// adult category is on and the key is in ref, or when the key is in the
// custom list. Membership is exact; "" never matches. A blocked decision
// names the rule Compile assigns to the key.
func Evaluate(url string, s domain.Settings, ref *domain.ReferenceList) domain.BlockDecision {
	key := utils.CanonicalURL(url)
	if key == "" {
		return domain.AllowDecision(key)
	}
	return decide(compiler.Index(compiler.Compile(s, ref)), key)
}

func decide(rules map[string]domain.EnforcementRule, key string) domain.BlockDecision {
	d := domain.AllowDecision(key)
	if r, ok := rules[key]; ok {
		d = domain.BlockedBy(key, r)
	}
	d.Apex = utils.ApexDomain(key)
	return d
}

// Options configures a Matcher.
type Options struct {
	Reference *domain.ReferenceList   // adult list; nil means the built-in list
	Cache     blocklist.DecisionCache // nil disables caching
	Bloom     blocklist.BloomFactory  // nil disables the prefilter
	FPRate    float64                 // target false-positive rate for the prefilter
	Logger    log.Logger
}

// Matcher answers block decisions against the last committed settings.
// Decide is safe for concurrent use and never blocks on Update: readers load
// an immutable snapshot, Update swaps in a new one.
type Matcher struct {
	ref     *domain.ReferenceList
	cache   blocklist.DecisionCache
	factory blocklist.BloomFactory
	fpRate  float64
	logger  log.Logger

	gen  atomic.Uint64
	snap atomic.Pointer[snapshot]
}

// snapshot is an immutable, indexed view of one committed Settings value.
type snapshot struct {
	gen      uint64
	settings domain.Settings
	rules    map[string]domain.EnforcementRule
	bloom    blocklist.BloomFilter
}

// New constructs a Matcher with no settings loaded; it allows everything
// until the first Update.
func New(opts Options) *Matcher {
	m := &Matcher{
		ref:     opts.Reference,
		cache:   opts.Cache,
		factory: opts.Bloom,
		fpRate:  opts.FPRate,
		logger:  opts.Logger,
	}
	if m.ref == nil {
		m.ref = domain.DefaultReferenceList()
	}
	if m.logger == nil {
		m.logger = log.NewNoopLogger()
	}
	m.logger = m.logger.Named("matcher")
	return m
}

// Reference returns the adult list the matcher enforces.
func (m *Matcher) Reference() *domain.ReferenceList { return m.ref }

// Update installs a snapshot of s. s is cloned; later changes by the caller
// are not observed.
func (m *Matcher) Update(s domain.Settings) {
	snap := &snapshot{
		gen:      m.gen.Add(1),
		settings: s.Clone(),
	}
	snap.rules = compiler.Index(compiler.Compile(snap.settings, m.ref))
	snap.bloom = m.buildBloom(snap.rules)
	m.snap.Store(snap)
	if m.cache != nil {
		m.cache.Purge()
	}
	fields := map[string]any{
		"generation": snap.gen,
		"keys":       len(snap.rules),
		"adult":      snap.settings.BlockAdultSites,
	}
	if snap.bloom != nil {
		fields["bloom_keys"] = snap.bloom.Len()
	}
	m.logger.Debug(fields, "matcher_snapshot_updated")
}

func (m *Matcher) buildBloom(rules map[string]domain.EnforcementRule) blocklist.BloomFilter {
	if m.factory == nil {
		return nil
	}
	bf := m.factory.New(uint64(len(rules)), m.fpRate)
	for key := range rules {
		bf.Add(key)
	}
	return bf
}

// Settings returns a copy of the current snapshot, ok=false before the first Update.
func (m *Matcher) Settings() (domain.Settings, bool) {
	snap := m.snap.Load()
	if snap == nil {
		return domain.Settings{}, false
	}
	return snap.settings.Clone(), true
}

// IsBlocked is Decide(url).Blocked.
func (m *Matcher) IsBlocked(url string) bool {
	return m.Decide(url).Blocked
}

// Decide evaluates url against the current snapshot:
// bloom (early allow) → cache → exact membership → cache fill.
func (m *Matcher) Decide(url string) domain.BlockDecision {
	key := utils.CanonicalURL(url)
	snap := m.snap.Load()
	if snap == nil || key == "" {
		return domain.AllowDecision(key)
	}

	if snap.bloom != nil && !snap.bloom.MightContain(key) {
		d := domain.AllowDecision(key)
		d.Apex = utils.ApexDomain(key)
		return d
	}

	ck := cacheKey(snap.gen, key)
	if m.cache != nil {
		if d, ok := m.cache.Get(ck); ok {
			return d
		}
	}

	d := decide(snap.rules, key)
	if m.cache != nil {
		m.cache.Put(ck, d)
	}
	return d
}

// Stats exposes decision cache metrics.
func (m *Matcher) Stats() blocklist.CacheStats {
	if m.cache == nil {
		return blocklist.CacheStats{}
	}
	return m.cache.Stats()
}

// cacheKey scopes cached decisions to one snapshot generation so a decision
// computed against an older snapshot is never served after an Update.
func cacheKey(gen uint64, key string) string {
	return strconv.FormatUint(gen, 10) + "|" + key
}
