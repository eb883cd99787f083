package parsers

import (
	"bufio"
	"io"
	"strings"
	"time"

	logpkg "github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/common/log"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/domain"
)

// ParsePlainList parses a newline-delimited list of domains into rules for a
// group. Default is exact; a leading "*." or "." marks a suffix rule
// (apex-inclusive).
//
// Behavior:
// - Supports comments starting with '#' (inline or whole-line)
// - Trims surrounding whitespace and trailing dots
// - Skips empty lines after trimming/stripping comments
// - De-duplicates by canonical name and kind, preserving first-seen order
func ParsePlainList(r io.Reader, group string, logger logpkg.Logger, now time.Time) ([]domain.Rule, error) {
	scanner := bufio.NewScanner(r)

	// seen key includes the kind so a name can carry both exact and suffix
	seen := make(map[string]struct{})
	out := make([]domain.Rule, 0, 256)
	logger.Debug(map[string]any{"group": group}, "parse_plain_list_start")
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := stripLineBOM(scanner.Text())

		if isEmpty, isComment := classifyLine(line); isEmpty || isComment {
			continue
		}

		s := stripLineBOM(stripInlineComment(line))

		// Kind is decided from the raw marker before it is stripped.
		kind := ruleKindFromRaw(strings.TrimSpace(s))
		name := normalizeDomainName(s)

		if !isValidFQDN(name) {
			logger.Debug(map[string]any{"line": lineNum, "raw": s, "name": name}, "skip_invalid_fqdn")
			continue
		}

		seenKey := name + "|" + kind.String()
		if _, ok := seen[seenKey]; ok {
			continue
		}

		var (
			rule domain.Rule
			err  error
		)
		if kind == domain.RuleSuffix {
			rule, err = domain.NewSuffixRule(name, group, now)
		} else {
			rule, err = domain.NewExactRule(name, group, now)
		}
		if err != nil {
			// Skip invalid entries rather than failing the entire parse.
			logger.Debug(map[string]any{"line": lineNum, "name": name, "kind": kind.String(), "error": err.Error()}, "skip_constructor_error")
			continue
		}
		out = append(out, rule)
		seen[seenKey] = struct{}{}
	}

	if err := scanner.Err(); err != nil {
		logger.Debug(map[string]any{"group": group, "error": err.Error()}, "parse_plain_list_scan_error")
		return nil, err
	}
	logger.Debug(map[string]any{"group": group, "count": len(out)}, "parse_plain_list_done")
	return out, nil
}
