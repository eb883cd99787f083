package utils

import "strings"

// CanonicalDomain returns a domain name in canonical form:
// - Lowercased
// - Trimmed of surrounding whitespace
// - No trailing dot because it doesn't add any runtime benefit, only legacy baggage.
func CanonicalDomain(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	// remove all trailing dots
	for strings.HasSuffix(name, ".") {
		name = strings.TrimSuffix(name, ".")
	}
	return name
}

// SanitizeDomain reduces free-form user input to a bare canonical domain.
// Strips scheme, path, query, fragment, port, and a leading "www." so that
// pasting a browser URL yields the domain the user meant to block.
func SanitizeDomain(input string) string {
	d := CanonicalDomain(input)

	if i := strings.Index(d, "://"); i >= 0 {
		d = d[i+3:]
	}
	for _, sep := range []byte{'/', '?', '#'} {
		if i := strings.IndexByte(d, sep); i >= 0 {
			d = d[:i]
		}
	}
	if i := strings.IndexByte(d, ':'); i >= 0 {
		d = d[:i]
	}
	d = strings.TrimPrefix(d, "www.")
	return CanonicalDomain(d)
}
