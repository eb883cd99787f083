// Package blocklist answers membership queries against the active block set.
// It composes a Bloom prefilter, an LRU decision cache, and an in-memory
// index; reads run cache-free through the Bloom filter first so the common
// not-blocked case never touches the index.
package blocklist

import (
	"strings"
	"sync"

	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/common/utils"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/domain"
)

// repository implements Repository by composing an Index, a Bloom filter
// (via factory), and a DecisionCache. Decide applies a bloom → cache → index
// pipeline; Update swaps the whole rule set atomically.
type repository struct {
	mu         sync.RWMutex
	index      Index
	cache      DecisionCache
	bloom      BloomFilter
	factory    BloomFactory
	fpRate     float64
	lastUpdate int64
}

// NewRepository constructs a Repository. fpRate is the target false-positive
// rate for the Bloom filter when rebuilding.
func NewRepository(cache DecisionCache, factory BloomFactory, fpRate float64) Repository {
	return &repository{cache: cache, factory: factory, fpRate: fpRate}
}

// Decide returns a Decision for the provided domain name.
// Policy: on an empty rule set or any internal miss, prefer not-blocked.
func (r *repository) Decide(name string) domain.Decision {
	cn := utils.CanonicalDomain(name)
	if !r.checkBloom(cn) {
		return domain.EmptyDecision()
	}
	if d, ok := r.checkCache(cn); ok {
		return d
	}
	dec := r.checkIndex(cn)
	r.updateCache(cn, dec)
	return dec
}

// Update swaps in a new rule set: a fresh index, a Bloom filter sized for the
// dataset, and a purged decision cache.
func (r *repository) Update(rules []domain.Rule, updatedUnix int64) error {
	idx := NewIndex(rules)

	var n uint64
	for _, ru := range rules {
		if ru.Kind == domain.RuleExact || ru.Kind == domain.RuleSuffix {
			n++
		}
	}
	bf := r.factory.New(n, r.fpRate)
	for _, ru := range rules {
		switch ru.Kind {
		case domain.RuleExact:
			bf.Add([]byte(ru.Name))
		case domain.RuleSuffix:
			bf.Add([]byte(reverseString(ru.Name)))
		}
	}

	r.mu.Lock()
	r.index = idx
	r.bloom = bf
	r.lastUpdate = updatedUnix
	r.cache.Purge()
	r.mu.Unlock()
	return nil
}

// RepoStats reports cache counters and index sizes.
func (r *repository) RepoStats() RepoStats {
	r.mu.RLock()
	idx := r.index
	last := r.lastUpdate
	r.mu.RUnlock()

	hits, misses, evictions := r.cache.Stats()
	stats := RepoStats{Hits: hits, Misses: misses, Evictions: evictions, LastUpdate: last}
	if idx != nil {
		stats.ExactCount, stats.SuffixCount = idx.Counts()
	}
	return stats
}

// reverseString reverses the string bytes. Suffix anchors go into the Bloom
// filter reversed so subdomain probes share a common prefix with their apex.
func reverseString(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// checkBloom returns true if we should consult the index (maybe-positive),
// or false if we can early-allow (definitely negative). With no bloom loaded
// it returns true so the index stays authoritative.
func (r *repository) checkBloom(cn string) bool {
	r.mu.RLock()
	bf := r.bloom
	r.mu.RUnlock()
	if bf == nil {
		return true
	}
	if bf.MightContain([]byte(cn)) {
		return true
	}
	// test reversed anchors for suffix candidates, most-specific to apex
	a := cn
	for {
		if bf.MightContain([]byte(reverseString(a))) {
			return true
		}
		i := strings.IndexByte(a, '.')
		if i < 0 {
			break
		}
		a = a[i+1:]
		if a == "" {
			break
		}
	}
	return false
}

func (r *repository) checkCache(cn string) (domain.Decision, bool) {
	r.mu.RLock()
	d, ok := r.cache.Get(cn)
	r.mu.RUnlock()
	return d, ok
}

// checkIndex consults the authoritative index and materializes a decision.
func (r *repository) checkIndex(cn string) domain.Decision {
	r.mu.RLock()
	idx := r.index
	r.mu.RUnlock()
	if idx == nil {
		return domain.EmptyDecision()
	}
	if rule, ok := idx.FirstMatch(cn); ok {
		return domain.Decision{Blocked: true, MatchedRule: rule.Name, Group: rule.Group, Kind: rule.Kind}
	}
	return domain.EmptyDecision()
}

func (r *repository) updateCache(cn string, dec domain.Decision) {
	r.mu.Lock()
	r.cache.Put(cn, dec)
	r.mu.Unlock()
}
