package blocklist

import (
	"strings"

	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/domain"
)

// memIndex is an immutable in-memory Index. The rule set is rebuilt from the
// catalog and the state store on every sync, so it is small enough to hold in
// maps and is never mutated after construction.
type memIndex struct {
	exact  map[string]domain.Rule
	suffix map[string]domain.Rule
}

// NewIndex builds an Index from rules. When the same name carries both an
// exact and a suffix rule, both are kept; duplicates within a kind keep the
// first-seen rule.
func NewIndex(rules []domain.Rule) Index {
	idx := &memIndex{
		exact:  make(map[string]domain.Rule),
		suffix: make(map[string]domain.Rule),
	}
	for _, r := range rules {
		switch r.Kind {
		case domain.RuleExact:
			if _, ok := idx.exact[r.Name]; !ok {
				idx.exact[r.Name] = r
			}
		case domain.RuleSuffix:
			if _, ok := idx.suffix[r.Name]; !ok {
				idx.suffix[r.Name] = r
			}
		}
	}
	return idx
}

// FirstMatch checks the exact map, then walks suffix anchors from the full
// name toward the apex so the most specific suffix rule wins.
func (m *memIndex) FirstMatch(name string) (domain.Rule, bool) {
	if r, ok := m.exact[name]; ok {
		return r, true
	}
	a := name
	for {
		if r, ok := m.suffix[a]; ok {
			return r, true
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
	return domain.Rule{}, false
}

func (m *memIndex) Counts() (uint64, uint64) {
	return uint64(len(m.exact)), uint64(len(m.suffix))
}
