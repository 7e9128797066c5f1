package domain

import (
	"slices"

	"github.com/haukened/safe-block/internal/safeblock/common/utils"
)

// MinPasswordLength is the shortest password setPassword accepts.
const MinPasswordLength = 4

// Settings is the single persisted aggregate.
//
// Invariants maintained by the mutation methods:
//   - CustomBlockedURLs holds canonical keys only, without duplicates, in insertion order
//   - PasswordHash, once set, is never cleared
//   - SetupComplete never goes back to false
//
// Settings is a value type; Clone before handing it to concurrent readers.
type Settings struct {
	PasswordHash      *string  `json:"passwordHash"`
	BlockAdultSites   bool     `json:"blockAdultSites"`
	CustomBlockedURLs []string `json:"customBlockedUrls"`
	SetupComplete     bool     `json:"setupComplete"`
}

// NewSettings returns the first-install aggregate.
func NewSettings() Settings {
	return Settings{
		PasswordHash:      nil,
		BlockAdultSites:   true,
		CustomBlockedURLs: []string{},
		SetupComplete:     false,
	}
}

// HasPassword reports whether a password hash has been stored. An empty hash
// counts as absent; no codec produces one for an accepted password.
func (s Settings) HasPassword() bool {
	return s.PasswordHash != nil && *s.PasswordHash != ""
}

// Hash returns the stored password hash, or "" when none is set.
func (s Settings) Hash() string {
	if s.PasswordHash == nil {
		return ""
	}
	return *s.PasswordHash
}

// WithPasswordHash returns a copy of s carrying hash.
func (s Settings) WithPasswordHash(hash string) Settings {
	out := s.Clone()
	out.PasswordHash = &hash
	return out
}

// Clone returns a deep copy that shares no memory with s.
func (s Settings) Clone() Settings {
	out := s
	if s.PasswordHash != nil {
		h := *s.PasswordHash
		out.PasswordHash = &h
	}
	out.CustomBlockedURLs = slices.Clone(s.CustomBlockedURLs)
	if out.CustomBlockedURLs == nil {
		out.CustomBlockedURLs = []string{}
	}
	return out
}

// Equal reports field-wise equality.
func (s Settings) Equal(o Settings) bool {
	if s.HasPassword() != o.HasPassword() || s.Hash() != o.Hash() {
		return false
	}
	return s.BlockAdultSites == o.BlockAdultSites &&
		s.SetupComplete == o.SetupComplete &&
		slices.Equal(s.CustomBlockedURLs, o.CustomBlockedURLs)
}

// ContainsCustomURL reports whether the canonical form of raw is in the custom list.
func (s Settings) ContainsCustomURL(raw string) bool {
	key := utils.CanonicalURL(raw)
	if key == "" {
		return false
	}
	return slices.Contains(s.CustomBlockedURLs, key)
}

// AddCustomURL appends the canonical form of raw to the custom list.
// A key that is already present leaves s unchanged and returns false.
// A key that canonicalizes to "" fails with KindEmptyCanonicalKey.
func (s *Settings) AddCustomURL(raw string) (bool, error) {
	key := utils.CanonicalURL(raw)
	if key == "" {
		return false, NewSettingsError(KindEmptyCanonicalKey, raw, nil)
	}
	if slices.Contains(s.CustomBlockedURLs, key) {
		return false, nil
	}
	s.CustomBlockedURLs = append(slices.Clip(s.CustomBlockedURLs), key)
	return true, nil
}

// RemoveCustomURL deletes the canonical form of raw from the custom list,
// preserving the order of the remaining entries. Removing an absent key is a
// no-op that returns false.
func (s *Settings) RemoveCustomURL(raw string) (bool, error) {
	key := utils.CanonicalURL(raw)
	if key == "" {
		return false, NewSettingsError(KindEmptyCanonicalKey, raw, nil)
	}
	i := slices.Index(s.CustomBlockedURLs, key)
	if i < 0 {
		return false, nil
	}
	s.CustomBlockedURLs = slices.Delete(slices.Clone(s.CustomBlockedURLs), i, i+1)
	return true, nil
}

// Normalize re-canonicalizes the custom list, dropping empty keys and later
// duplicates. It returns the number of entries that changed or were dropped.
// Used on records read back from storage, which the core does not control.
func (s *Settings) Normalize() int {
	changed := 0
	seen := make(map[string]struct{}, len(s.CustomBlockedURLs))
	out := make([]string, 0, len(s.CustomBlockedURLs))
	for _, raw := range s.CustomBlockedURLs {
		key := utils.CanonicalURL(raw)
		if key == "" {
			changed++
			continue
		}
		if _, dup := seen[key]; dup {
			changed++
			continue
		}
		if key != raw {
			changed++
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	s.CustomBlockedURLs = out
	return changed
}
