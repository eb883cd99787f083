package blocklist

import (
	"testing"
	"time"

	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/domain"
)

func mustRule(t *testing.T, name string, kind domain.RuleKind, group string) domain.Rule {
	t.Helper()
	r, err := domain.NewRule(name, kind, group, time.Unix(1700000000, 0))
	if err != nil {
		t.Fatalf("NewRule(%q): %v", name, err)
	}
	return r
}

func TestIndex_ExactMatch(t *testing.T) {
	idx := NewIndex([]domain.Rule{
		mustRule(t, "facebook.com", domain.RuleExact, "facebook"),
		mustRule(t, "fb.com", domain.RuleExact, "facebook"),
	})

	r, ok := idx.FirstMatch("facebook.com")
	if !ok || r.Group != "facebook" {
		t.Fatalf("FirstMatch(facebook.com) = %v, %v", r, ok)
	}
	if _, ok := idx.FirstMatch("m.facebook.com"); ok {
		t.Fatal("exact rule must not match subdomains")
	}
	if _, ok := idx.FirstMatch("example.com"); ok {
		t.Fatal("unexpected match for example.com")
	}
}

func TestIndex_SuffixMatch(t *testing.T) {
	idx := NewIndex([]domain.Rule{
		mustRule(t, "tiktok.com", domain.RuleSuffix, "tiktok"),
	})

	for _, name := range []string{"tiktok.com", "www.tiktok.com", "a.b.tiktok.com"} {
		r, ok := idx.FirstMatch(name)
		if !ok || r.Name != "tiktok.com" {
			t.Errorf("FirstMatch(%q) = %v, %v", name, r, ok)
		}
	}
	if _, ok := idx.FirstMatch("nottiktok.com"); ok {
		t.Error("suffix rule must anchor at a label boundary")
	}
}

func TestIndex_ExactWinsOverSuffix(t *testing.T) {
	idx := NewIndex([]domain.Rule{
		mustRule(t, "reddit.com", domain.RuleSuffix, "reddit"),
		mustRule(t, "old.reddit.com", domain.RuleExact, "legacy"),
	})

	r, ok := idx.FirstMatch("old.reddit.com")
	if !ok || r.Group != "legacy" || r.Kind != domain.RuleExact {
		t.Fatalf("exact rule should win: %v, %v", r, ok)
	}
}

func TestIndex_MostSpecificSuffixWins(t *testing.T) {
	idx := NewIndex([]domain.Rule{
		mustRule(t, "example.com", domain.RuleSuffix, "broad"),
		mustRule(t, "ads.example.com", domain.RuleSuffix, "narrow"),
	})

	r, ok := idx.FirstMatch("x.ads.example.com")
	if !ok || r.Group != "narrow" {
		t.Fatalf("most specific suffix should win: %v, %v", r, ok)
	}
}

func TestIndex_Counts(t *testing.T) {
	idx := NewIndex([]domain.Rule{
		mustRule(t, "a.com", domain.RuleExact, "g"),
		mustRule(t, "a.com", domain.RuleExact, "other"), // duplicate kept once
		mustRule(t, "b.com", domain.RuleSuffix, "g"),
	})
	exact, suffix := idx.Counts()
	if exact != 1 || suffix != 1 {
		t.Fatalf("Counts() = %d, %d", exact, suffix)
	}
}
