// Package parsers ingests external blocklist files into rules for a group.
// Two formats are supported: hosts-style files (IP followed by hostnames) and
// plain newline-delimited domain lists.
package parsers

import (
	"bufio"
	"io"
	"strings"
	"time"

	logpkg "github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/common/log"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/common/utils"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/domain"
)

// ParseHostsFile parses /etc/hosts-style files and returns exact rules for
// valid hostnames, attributed to the given group.
//
// Rules:
// - Ignore the IP field; extract one or more hostnames following it
// - Skip comments (whole-line or inline after '#') and blank lines
// - Skip invalid tokens (any '*' present, or names starting with '.')
// - Canonicalize names; require exact match kind only
// - De-duplicate by canonical name, preserving first-seen order
func ParseHostsFile(r io.Reader, group string, logger logpkg.Logger, now time.Time) ([]domain.Rule, error) {
	scanner := bufio.NewScanner(r)

	seen := make(map[string]struct{})
	out := make([]domain.Rule, 0, 256)

	logger.Debug(map[string]any{"group": group}, "parse_hosts_start")

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := stripLineBOM(scanner.Text())

		// Check for empties or full-line comments before stripping inline comments
		if isEmpty, isComment := classifyLine(line); isEmpty || isComment {
			continue
		}

		line = stripInlineComment(line)

		fields := strings.Fields(line)
		if len(fields) < 2 {
			// No hostnames present after IP
			logger.Debug(map[string]any{"line": lineNum}, "hosts_no_hostnames")
			continue
		}

		// fields[0] is the IP, ignored
		for _, raw := range fields[1:] {
			// Fast reject invalid hostfile tokens
			if raw == "" || strings.HasPrefix(raw, ".") || strings.Contains(raw, "*") {
				logger.Debug(map[string]any{"line": lineNum, "raw": raw}, "hosts_skip_invalid_token")
				continue
			}

			name := utils.CanonicalDomain(raw)

			if !isValidFQDN(name) {
				logger.Debug(map[string]any{"line": lineNum, "name": name}, "hosts_skip_invalid_fqdn")
				continue
			}

			if _, ok := seen[name]; ok {
				continue
			}

			rule, err := domain.NewExactRule(name, group, now)
			if err != nil {
				logger.Debug(map[string]any{"line": lineNum, "name": name, "error": err.Error()}, "hosts_skip_constructor_error")
				continue
			}

			out = append(out, rule)
			seen[name] = struct{}{}
		}
	}

	if err := scanner.Err(); err != nil {
		logger.Debug(map[string]any{"group": group, "error": err.Error()}, "parse_hosts_scan_error")
		return nil, err
	}

	logger.Debug(map[string]any{"group": group, "count": len(out)}, "parse_hosts_done")
	return out, nil
}
