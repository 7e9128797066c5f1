package domain

import (
	"fmt"
	"strings"
)

// BlockCategory names the list a blocking rule came from.
//
// adult  - the fixed reference list, enforced while BlockAdultSites is on
// custom - the user-maintained CustomBlockedURLs
type BlockCategory uint8

const (
	// CategoryNone marks an allow decision.
	CategoryNone BlockCategory = iota
	// CategoryAdult is the fixed reference list.
	CategoryAdult
	// CategoryCustom is the user-maintained list.
	CategoryCustom
)

// String returns a stable string representation of the category.
func (c BlockCategory) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryAdult:
		return "adult"
	case CategoryCustom:
		return "custom"
	default:
		return fmt.Sprintf("BlockCategory(%d)", c)
	}
}

// ParseBlockCategory converts a string into a BlockCategory.
// Accepts: "none", "adult", "custom" (case-insensitive).
func ParseBlockCategory(s string) (BlockCategory, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return CategoryNone, nil
	case "adult":
		return CategoryAdult, nil
	case "custom":
		return CategoryCustom, nil
	default:
		return 0, fmt.Errorf("unsupported BlockCategory: %q", s)
	}
}
