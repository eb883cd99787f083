package domain

import (
	"fmt"
	"strings"
)

// GroupKind classifies where a domain group came from.
//
// platform - built-in social platform (facebook, youtube, ...)
// category - built-in content category (adult-content, gambling)
// custom   - user-added single-domain group
type GroupKind uint8

const (
	// GroupPlatform is a built-in social platform group.
	GroupPlatform GroupKind = iota
	// GroupCategory is a built-in content category group.
	GroupCategory
	// GroupCustom is a user-added custom domain group.
	GroupCustom
)

// String returns a stable string representation of the group kind.
func (k GroupKind) String() string {
	switch k {
	case GroupPlatform:
		return "platform"
	case GroupCategory:
		return "category"
	case GroupCustom:
		return "custom"
	default:
		return fmt.Sprintf("GroupKind(%d)", k)
	}
}

// ParseGroupKind converts a string into a GroupKind.
// Accepts: "platform", "category", "custom" (case-insensitive).
func ParseGroupKind(s string) (GroupKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "platform":
		return GroupPlatform, nil
	case "category":
		return GroupCategory, nil
	case "custom":
		return GroupCustom, nil
	default:
		return 0, fmt.Errorf("unsupported GroupKind: %q", s)
	}
}

// Group is a named, togglable set of domains.
//
// Notes:
// - Name is the stable identifier used for the hosts-file tag and the state store key.
// - Domains are canonical (lowercase, no scheme, no trailing dot); order is preserved.
// - Enabled means the group's domains should be redirected in the hosts file.
type Group struct {
	Name    string
	Kind    GroupKind
	Domains []string
	Enabled bool
}

// NewGroup constructs a Group and validates its fields.
func NewGroup(name string, kind GroupKind, domains []string, enabled bool) (Group, error) {
	g := Group{
		Name:    strings.ToLower(strings.TrimSpace(name)),
		Kind:    kind,
		Domains: domains,
		Enabled: enabled,
	}
	if err := g.Validate(); err != nil {
		return Group{}, err
	}
	return g, nil
}

// Validate checks the Group for required fields and supported values.
func (g Group) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("group name must not be empty")
	}
	if strings.ContainsAny(g.Name, " \t#") {
		return fmt.Errorf("group name must not contain whitespace or '#': %q", g.Name)
	}
	if len(g.Domains) == 0 {
		return fmt.Errorf("group %q must contain at least one domain", g.Name)
	}
	for _, d := range g.Domains {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("group %q contains an empty domain", g.Name)
		}
	}
	switch g.Kind {
	case GroupPlatform, GroupCategory, GroupCustom:
		// ok
	default:
		return fmt.Errorf("unsupported GroupKind: %d", g.Kind)
	}
	return nil
}

// IsCustom returns true when the group was added by the user.
func (g Group) IsCustom() bool { return g.Kind == GroupCustom }
