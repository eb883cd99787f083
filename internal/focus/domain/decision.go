package domain

// Decision represents the outcome of evaluating a domain against the blocklist.
// Pure value type, no external dependencies.
type Decision struct {
	Blocked     bool   // true if the name is blocked by any rule
	MatchedRule string // rule name that matched (root for suffix, exact domain for exact)
	Group       string // owning group of the matched rule
	Kind        RuleKind
}

// IsBlocked is a convenience accessor.
func (d Decision) IsBlocked() bool { return d.Blocked }

// EmptyDecision returns a not-blocked decision.
func EmptyDecision() Decision { return Decision{Blocked: false} }
