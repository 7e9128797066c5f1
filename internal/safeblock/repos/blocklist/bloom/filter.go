package bloom

import (
	"sync"

	bitsbloom "github.com/bits-and-blooms/bloom/v3"
)

// keyFilter holds canonical keys. Inserts take the write lock so a filter
// may be probed while the matcher is still filling it.
type keyFilter struct {
	mu sync.RWMutex
	bf *bitsbloom.BloomFilter
	n  int
}

func (f *keyFilter) Add(key string) {
	f.mu.Lock()
	f.bf.AddString(key)
	f.n++
	f.mu.Unlock()
}

func (f *keyFilter) MightContain(key string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.bf.TestString(key)
}

// Len is the number of Add calls, duplicates included.
func (f *keyFilter) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.n
}
