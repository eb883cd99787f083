package domain

import (
	"fmt"
	"strings"
	"time"
)

// RuleKind defines how a blocklist rule matches domains.
//
// exact  - matches the name only
// suffix - matches the name and any subdomain (apex-inclusive)
type RuleKind uint8

const (
	// RuleExact matches only the exact domain.
	RuleExact RuleKind = iota
	// RuleSuffix matches the domain and all its subdomains (apex-inclusive).
	RuleSuffix
)

// String returns a stable string representation of the rule kind.
func (k RuleKind) String() string {
	switch k {
	case RuleExact:
		return "exact"
	case RuleSuffix:
		return "suffix"
	default:
		return fmt.Sprintf("RuleKind(%d)", k)
	}
}

// Rule is a single blocklist membership rule attributed to a group.
//
// Notes:
// - Name is expected to be canonical and without a trailing dot.
// - Group identifies the owning domain group (catalog category or import target).
// - AddedAt records when the rule was ingested.
type Rule struct {
	Name    string
	Kind    RuleKind
	Group   string
	AddedAt time.Time
}

// NewRule constructs a Rule and validates its fields.
func NewRule(name string, kind RuleKind, group string, addedAt time.Time) (Rule, error) {
	r := Rule{
		Name:    strings.TrimSpace(name),
		Kind:    kind,
		Group:   strings.TrimSpace(group),
		AddedAt: addedAt,
	}
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

// NewExactRule convenience constructor for an exact rule.
func NewExactRule(name, group string, addedAt time.Time) (Rule, error) {
	return NewRule(name, RuleExact, group, addedAt)
}

// NewSuffixRule convenience constructor for a suffix rule (apex-inclusive).
func NewSuffixRule(name, group string, addedAt time.Time) (Rule, error) {
	return NewRule(name, RuleSuffix, group, addedAt)
}

// Validate checks the Rule for required fields and supported values.
func (r Rule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("rule name must not be empty")
	}
	if r.Group == "" {
		return fmt.Errorf("rule group must not be empty")
	}
	if r.AddedAt.IsZero() {
		return fmt.Errorf("rule addedAt must be set")
	}
	switch r.Kind {
	case RuleExact, RuleSuffix:
		// ok
	default:
		return fmt.Errorf("unsupported RuleKind: %d", r.Kind)
	}
	return nil
}

// IsExact returns true when the rule kind is exact.
func (r Rule) IsExact() bool { return r.Kind == RuleExact }

// IsSuffix returns true when the rule kind is suffix (apex-inclusive).
func (r Rule) IsSuffix() bool { return r.Kind == RuleSuffix }
