package utils

import "golang.org/x/net/publicsuffix"

// ApexDomain returns the registrable apex (eTLD+1) for a name, falling back
// to the input when the public suffix list cannot resolve it.
func ApexDomain(name string) string {
	name = CanonicalDomain(name)
	apex, err := publicsuffix.EffectiveTLDPlusOne(name)
	if err != nil {
		apex = name
	}
	return apex
}

// DomainVariations expands a domain into the set that must be redirected to
// make the block effective: the domain itself, its www form, and the
// registrable apex with its www form. Order is preserved, duplicates removed.
//
// Blocking operates at name-resolution level, so the apex entry covers every
// path under the site; it does not cover arbitrary sibling subdomains, which
// hosts files cannot wildcard.
func DomainVariations(domain string) []string {
	domain = CanonicalDomain(domain)
	if domain == "" {
		return nil
	}

	candidates := []string{domain}
	if !hasWWW(domain) {
		candidates = append(candidates, "www."+domain)
	}
	apex := ApexDomain(domain)
	if apex != "" && apex != domain {
		candidates = append(candidates, apex, "www."+apex)
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func hasWWW(domain string) bool {
	return len(domain) > 4 && domain[:4] == "www."
}
