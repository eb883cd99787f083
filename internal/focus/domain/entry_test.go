package domain

import "testing"

func TestNewEntry_Valid(t *testing.T) {
	e, err := NewEntry("127.0.0.1", " Facebook.COM ", "facebook")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Domain != "facebook.com" {
		t.Errorf("Domain = %q, want facebook.com", e.Domain)
	}
	if got := e.String(); got != "127.0.0.1 facebook.com  # facebook" {
		t.Errorf("String() = %q", got)
	}
}

func TestNewEntry_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		ip     string
		domain string
		group  string
	}{
		{"bad ip", "localhost", "a.com", "g"},
		{"empty ip", "", "a.com", "g"},
		{"empty domain", "127.0.0.1", "", "g"},
		{"domain with space", "127.0.0.1", "a b.com", "g"},
		{"domain with hash", "127.0.0.1", "a.com#", "g"},
		{"empty group", "127.0.0.1", "a.com", ""},
	}
	for _, tc := range cases {
		if _, err := NewEntry(tc.ip, tc.domain, tc.group); err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
	}
}
