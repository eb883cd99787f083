package blocklist

import "github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/domain"

// BloomFilter is the minimal interface the repository needs from Bloom filters.
type BloomFilter interface {
	Add(key []byte)
	MightContain(key []byte) bool
}

// BloomFactory builds BloomFilter instances sized for a dataset.
type BloomFactory interface {
	New(capacity uint64, fpRate float64) BloomFilter
}

// DecisionCache caches block decisions by canonical name with basic metrics.
type DecisionCache interface {
	Get(name string) (domain.Decision, bool)
	Put(name string, d domain.Decision)
	Len() int
	Purge()
	Stats() (hits, misses, evictions uint64)
}

// Index is the authoritative rule set behind the Bloom filter and cache.
// FirstMatch prefers exact rules over suffix rules, and among suffix rules the
// most specific (longest) anchor wins.
type Index interface {
	FirstMatch(name string) (domain.Rule, bool)
	Counts() (exact, suffix uint64)
}

// RepoStats exposes repository-level counters.
type RepoStats struct {
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	ExactCount  uint64
	SuffixCount uint64
	LastUpdate  int64 // seconds since epoch
}

// Repository answers "is this name blocked, and by which group" for the
// currently loaded rule set. Update atomically swaps in a new rule set.
type Repository interface {
	Decide(name string) domain.Decision
	Update(rules []domain.Rule, updatedUnix int64) error
	RepoStats() RepoStats
}
