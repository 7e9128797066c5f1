package bloom

import (
	bitsbloom "github.com/bits-and-blooms/bloom/v3"

	"github.com/haukened/safe-block/internal/safeblock/repos/blocklist"
)

// factory sizes filters with its sizer and backs them with bits-and-blooms.
type factory struct {
	sizer blocklist.BloomSizer
}

// NewFactory returns a BloomFactory using the default sizer.
func NewFactory() blocklist.BloomFactory { return NewFactoryWithSizer(nil) }

// NewFactoryWithSizer returns a BloomFactory that asks s for the bit and hash
// counts. A nil sizer uses the default formulas.
func NewFactoryWithSizer(s blocklist.BloomSizer) blocklist.BloomFactory {
	if s == nil {
		s = NewSizer()
	}
	return factory{sizer: s}
}

func (f factory) New(capacity uint64, fpRate float64) blocklist.BloomFilter {
	m, k := f.sizer.Size(capacity, fpRate)
	return &keyFilter{bf: bitsbloom.New(uint(m), uint(k))}
}
