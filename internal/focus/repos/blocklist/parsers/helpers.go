package parsers

import (
	"strings"
	"unicode"

	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/common/utils"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/domain"
)

// ruleKindFromRaw decides the RuleKind based on the raw, uncanonicalized input.
// Returns RuleSuffix if the name begins with "*." or ".", otherwise RuleExact.
func ruleKindFromRaw(raw string) domain.RuleKind {
	if strings.HasPrefix(raw, "*.") || strings.HasPrefix(raw, ".") {
		return domain.RuleSuffix
	}
	return domain.RuleExact
}

// isValidFQDN checks whether the provided string is a plausible fully
// qualified domain name:
//   - total length at most 255 characters
//   - at least two labels, each 1-63 characters
//   - the first label starts with a letter, number, or wildcard
func isValidFQDN(name string) bool {
	if len(name) > 255 {
		return false
	}
	labels := strings.Split(name, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if len(label) > 63 || len(label) == 0 {
			return false
		}
	}
	runes := []rune(labels[0])
	if !isAlphaNumeric(runes[0]) && runes[0] != '*' {
		return false
	}
	return true
}

// normalizeDomainName trims whitespace, removes any leading "*." or "."
// marker, and canonicalizes the remainder.
func normalizeDomainName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "*.")
	name = strings.TrimPrefix(name, ".")
	return utils.CanonicalDomain(name)
}

func isAlphaNumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// stripLineBOM removes a UTF-8 byte order mark from the start of a line.
func stripLineBOM(line string) string {
	return strings.TrimPrefix(line, "\ufeff")
}

// classifyLine reports whether a line is blank or a whole-line comment.
func classifyLine(line string) (isEmpty, isComment bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true, false
	}
	if strings.HasPrefix(trimmed, "#") {
		return false, true
	}
	return false, false
}

// stripInlineComment removes everything from the first '#' onward.
func stripInlineComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		return line[:idx]
	}
	return line
}
