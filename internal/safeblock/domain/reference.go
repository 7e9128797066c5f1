package domain

import (
	"fmt"
	"slices"

	"github.com/haukened/safe-block/internal/safeblock/common/utils"
)

// defaultAdultSites is the build-time demo list. Production deployments
// supply their own list through repos/reference.
var defaultAdultSites = []string{"adultsite.com", "anotherbadsite.org", "xxx-example.net"}

// ReferenceList is the fixed, ordered adult-category list. Order is
// significant: it drives rule ID assignment. Immutable after construction and
// safe for concurrent reads.
type ReferenceList struct {
	names []string
	index map[string]struct{}
}

// NewReferenceList canonicalizes names, drops empty keys and later duplicates,
// and keeps first-seen order. Lists that would overflow the adult rule
// namespace are rejected.
func NewReferenceList(names ...string) (*ReferenceList, error) {
	r := &ReferenceList{
		names: make([]string, 0, len(names)),
		index: make(map[string]struct{}, len(names)),
	}
	for _, raw := range names {
		key := utils.CanonicalURL(raw)
		if key == "" {
			continue
		}
		if _, ok := r.index[key]; ok {
			continue
		}
		r.index[key] = struct{}{}
		r.names = append(r.names, key)
	}
	if len(r.names) > MaxReferenceEntries {
		return nil, fmt.Errorf("reference list has %d entries, max %d", len(r.names), MaxReferenceEntries)
	}
	return r, nil
}

// DefaultReferenceList returns the built-in demo list.
func DefaultReferenceList() *ReferenceList {
	r, _ := NewReferenceList(defaultAdultSites...)
	return r
}

// Contains reports exact membership of a canonical key.
func (r *ReferenceList) Contains(key string) bool {
	if r == nil || key == "" {
		return false
	}
	_, ok := r.index[key]
	return ok
}

// Names returns a copy of the list in its fixed order.
func (r *ReferenceList) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.names)
}

// Len returns the number of entries.
func (r *ReferenceList) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}
