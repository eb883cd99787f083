package lru

import (
	"testing"

	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/domain"
)

func TestCache_GetPut(t *testing.T) {
	c, err := New(10)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, ok := c.Get("facebook.com"); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	want := domain.Decision{Blocked: true, MatchedRule: "facebook.com", Group: "facebook"}
	c.Put("facebook.com", want)

	got, ok := c.Get("facebook.com")
	if !ok || got != want {
		t.Fatalf("Get = %+v, %v", got, ok)
	}

	hits, misses, _ := c.Stats()
	if hits != 1 || misses != 1 {
		t.Fatalf("Stats = %d hits, %d misses", hits, misses)
	}
}

func TestCache_EvictionCounting(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatal(err)
	}
	c.Put("a.com", domain.Decision{})
	c.Put("b.com", domain.Decision{})
	c.Put("c.com", domain.Decision{}) // evicts a.com

	if c.Len() != 2 {
		t.Fatalf("Len = %d", c.Len())
	}
	_, _, evictions := c.Stats()
	if evictions != 1 {
		t.Fatalf("evictions = %d", evictions)
	}
}

func TestCache_PurgeCountsEvictions(t *testing.T) {
	c, err := New(4)
	if err != nil {
		t.Fatal(err)
	}
	c.Put("a.com", domain.Decision{})
	c.Put("b.com", domain.Decision{})
	c.Purge()

	if c.Len() != 0 {
		t.Fatalf("Len after purge = %d", c.Len())
	}
	_, _, evictions := c.Stats()
	if evictions != 2 {
		t.Fatalf("evictions after purge = %d", evictions)
	}
}

func TestDisabledCache(t *testing.T) {
	c, err := New(0)
	if err != nil {
		t.Fatal(err)
	}
	c.Put("a.com", domain.Decision{Blocked: true})
	if _, ok := c.Get("a.com"); ok {
		t.Fatal("disabled cache must always miss")
	}
	if c.Len() != 0 {
		t.Fatal("disabled cache must report zero length")
	}
	c.Purge()
	h, m, e := c.Stats()
	if h != 0 || m != 0 || e != 0 {
		t.Fatal("disabled cache must not track metrics")
	}
}
