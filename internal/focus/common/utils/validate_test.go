package utils

import "testing"

func TestValidateDomain_Valid(t *testing.T) {
	for _, d := range []string{
		"example.com",
		"sub.example.com",
		"a-b.example.co.uk",
		"xn--nxasmq6b.example",
		"fb.com",
	} {
		if err := ValidateDomain(d); err != nil {
			t.Errorf("ValidateDomain(%q) returned error: %v", d, err)
		}
	}
}

func TestValidateDomain_Invalid(t *testing.T) {
	for _, d := range []string{
		"",
		"com",
		".example.com",
		"example.com.",
		"exa mple.com",
		"example..com",
		"-example.com",
		"example-.com",
		"example.c0m",
		"127.0.0.1",
		"192.168.1.1",
		"localhost",
		"app.localhost",
	} {
		if err := ValidateDomain(d); err == nil {
			t.Errorf("ValidateDomain(%q) expected error, got nil", d)
		}
	}
}

func TestValidateDomain_TooLong(t *testing.T) {
	long := ""
	for i := 0; i < 64; i++ {
		long += "abcd."
	}
	long += "com"
	if err := ValidateDomain(long); err == nil {
		t.Errorf("expected error for overlong domain")
	}
}
