package blocklist

import "github.com/haukened/safe-block/internal/safeblock/domain"

// BloomSizer computes Bloom filter parameters from capacity (n) and target FP rate (p).
// It returns m (number of bits) and k (number of hash functions).
type BloomSizer interface {
	Size(n uint64, p float64) (m uint64, k uint8)
}

// BloomFilter is the minimal interface the matcher needs from a Bloom filter.
// A negative answer is definitive; a positive one must be confirmed exactly.
type BloomFilter interface {
	Add(key string)
	MightContain(key string) bool
	Len() int
}

// BloomFactory builds a filter sized for the given capacity and false-positive rate.
type BloomFactory interface {
	New(capacity uint64, fpRate float64) BloomFilter
}

// DecisionCache caches block decisions by canonical key with basic metrics.
type DecisionCache interface {
	Get(key string) (domain.BlockDecision, bool)
	Put(key string, d domain.BlockDecision)
	Len() int
	Purge()
	Stats() CacheStats
}
