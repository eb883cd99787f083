package utils

import (
	"fmt"
	"net"
	"regexp"
	"strings"
)

// labelPattern matches a single DNS label: alphanumeric, optional hyphens
// inside, 1-63 characters.
var labelPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// ValidateDomain checks whether a canonical domain is blockable.
// It rejects empty input, malformed names, bare TLDs, IP addresses, and
// loopback names: redirecting those would break the machine, not the habit.
func ValidateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("domain must not be empty")
	}
	if len(domain) > 253 {
		return fmt.Errorf("domain too long (max 253 characters): %q", domain)
	}
	if strings.Contains(domain, "..") {
		return fmt.Errorf("domain must not contain consecutive dots: %q", domain)
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return fmt.Errorf("domain must not start or end with a dot: %q", domain)
	}
	if net.ParseIP(domain) != nil {
		return fmt.Errorf("IP addresses cannot be blocked: %q", domain)
	}
	if domain == "localhost" || strings.HasSuffix(domain, ".localhost") {
		return fmt.Errorf("loopback names cannot be blocked: %q", domain)
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return fmt.Errorf("domain must contain at least two labels: %q", domain)
	}
	for _, l := range labels {
		if !labelPattern.MatchString(l) {
			return fmt.Errorf("invalid domain label %q in %q", l, domain)
		}
	}
	// TLD must be alphabetic, which also rules out dotted-quad lookalikes.
	tld := labels[len(labels)-1]
	for _, r := range tld {
		if r < 'a' || r > 'z' {
			return fmt.Errorf("invalid top-level label %q in %q", tld, domain)
		}
	}
	return nil
}
