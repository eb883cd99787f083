package catalog

import (
	"testing"

	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/domain"
)

func TestGroups_AllValidAndDefaultEnabled(t *testing.T) {
	groups := Groups()
	if len(groups) == 0 {
		t.Fatal("catalog is empty")
	}
	for _, g := range groups {
		if err := g.Validate(); err != nil {
			t.Errorf("group %q invalid: %v", g.Name, err)
		}
		if !g.Enabled {
			t.Errorf("built-in group %q should default to enabled", g.Name)
		}
		if g.Kind == domain.GroupCustom {
			t.Errorf("catalog must not contain custom groups: %q", g.Name)
		}
	}
}

func TestGroups_PlatformsBeforeCategories(t *testing.T) {
	groups := Groups()
	seenCategory := false
	for _, g := range groups {
		if g.Kind == domain.GroupCategory {
			seenCategory = true
		}
		if g.Kind == domain.GroupPlatform && seenCategory {
			t.Fatalf("platform %q listed after a category", g.Name)
		}
	}
}

func TestGroups_Deterministic(t *testing.T) {
	a, b := Groups(), Groups()
	if len(a) != len(b) {
		t.Fatal("catalog size varies between calls")
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			t.Fatalf("catalog order varies: %q vs %q", a[i].Name, b[i].Name)
		}
	}
}

func TestLookup(t *testing.T) {
	g, ok := Lookup("facebook")
	if !ok {
		t.Fatal("facebook missing from catalog")
	}
	if g.Kind != domain.GroupPlatform {
		t.Errorf("facebook kind = %v", g.Kind)
	}
	found := false
	for _, d := range g.Domains {
		if d == "fb.com" {
			found = true
		}
	}
	if !found {
		t.Errorf("facebook group missing fb.com: %v", g.Domains)
	}

	if _, ok := Lookup("myspace"); ok {
		t.Error("unexpected catalog hit for myspace")
	}

	g, ok = Lookup("adult-content")
	if !ok || g.Kind != domain.GroupCategory {
		t.Errorf("adult-content lookup: ok=%v kind=%v", ok, g.Kind)
	}
}

func TestEnforced(t *testing.T) {
	if !Enforced("adult-content") || !Enforced("gambling") {
		t.Error("content categories should be enforced")
	}
	if Enforced("facebook") {
		t.Error("platforms should not be enforced")
	}
}
