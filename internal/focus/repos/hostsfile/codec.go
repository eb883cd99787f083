package hostsfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/common/log"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/common/utils"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/domain"
)

// Managed-region markers. Everything between them is owned by deepfocus and
// rewritten wholesale; everything outside passes through verbatim.
const (
	BeginMarker = "# DeepFocus entries - do not edit"
	EndMarker   = "# End DeepFocus entries"
)

// Document is a parsed hosts file: the pass-through lines in original order
// and the managed redirect entries, wherever they were found.
type Document struct {
	Passthrough []string // verbatim lines outside the managed region
	Entries     []domain.Entry
}

// Parse splits hosts-file content into pass-through lines and managed
// entries. Lines inside the marker-bounded region are decoded as entries.
// Tagged redirect lines found OUTSIDE the region (left behind by older
// versions or a partially hand-edited file) are absorbed as entries so the
// next write folds them back into the region. Untagged lines pass through
// here; Absorb handles the ones for managed domains once the managed set is
// known.
func Parse(r io.Reader, redirectIP string, logger log.Logger) (*Document, error) {
	doc := &Document{}
	scanner := bufio.NewScanner(r)

	inRegion := false
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == BeginMarker:
			if inRegion {
				logger.Warn(map[string]any{"line": lineNum}, "nested begin marker, ignoring")
				continue
			}
			inRegion = true
			// The blank separator Render emits above the region belongs to the
			// region framing, not to the user's content.
			if n := len(doc.Passthrough); n > 0 && strings.TrimSpace(doc.Passthrough[n-1]) == "" {
				doc.Passthrough = doc.Passthrough[:n-1]
			}
		case trimmed == EndMarker:
			if !inRegion {
				logger.Warn(map[string]any{"line": lineNum}, "stray end marker, dropping")
				continue
			}
			inRegion = false
		case inRegion:
			entry, ok := parseEntry(trimmed)
			if !ok {
				if trimmed != "" {
					logger.Debug(map[string]any{"line": lineNum, "text": trimmed}, "unparseable managed line dropped")
				}
				continue
			}
			doc.Entries = append(doc.Entries, entry)
		default:
			// Outside the region: absorb only tagged lines pointing at our
			// redirect address. Anything else is the user's and passes through.
			if entry, ok := parseEntry(trimmed); ok && entry.IP == redirectIP {
				logger.Debug(map[string]any{"line": lineNum, "domain": entry.Domain}, "absorbing stray tagged entry")
				doc.Entries = append(doc.Entries, entry)
				continue
			}
			doc.Passthrough = append(doc.Passthrough, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning hosts file: %w", err)
	}
	if inRegion {
		logger.Warn(nil, "managed region not terminated, treating rest as managed")
	}
	return doc, nil
}

// parseEntry decodes "<ip> <domain>  # <group>" into an Entry. Lines without
// the trailing group tag do not belong to us and are rejected.
func parseEntry(line string) (domain.Entry, bool) {
	body, tag, found := strings.Cut(line, "#")
	if !found {
		return domain.Entry{}, false
	}
	group := strings.TrimSpace(tag)
	fields := strings.Fields(body)
	if len(fields) != 2 || group == "" || strings.ContainsAny(group, " \t") {
		return domain.Entry{}, false
	}
	entry, err := domain.NewEntry(fields[0], utils.CanonicalDomain(fields[1]), group)
	if err != nil {
		return domain.Entry{}, false
	}
	return entry, true
}

// Render writes the document back out: pass-through lines verbatim, then the
// managed region when any entries exist. One domain per line.
func (d *Document) Render(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, line := range d.Passthrough {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	if len(d.Entries) > 0 {
		// Blank separator unless the file already ends with one.
		if n := len(d.Passthrough); n > 0 && strings.TrimSpace(d.Passthrough[n-1]) != "" {
			if _, err := bw.WriteString("\n"); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(BeginMarker + "\n"); err != nil {
			return err
		}
		for _, e := range d.Entries {
			if _, err := bw.WriteString(e.String() + "\n"); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(EndMarker + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Domains returns the managed domains mapped to their owning group.
func (d *Document) Domains() map[string]string {
	out := make(map[string]string, len(d.Entries))
	for _, e := range d.Entries {
		out[e.Domain] = e.Group
	}
	return out
}

// SetEntries replaces the managed entries wholesale.
func (d *Document) SetEntries(entries []domain.Entry) {
	d.Entries = entries
}

// Absorb drops pass-through redirect lines that point managed domains at ip.
// An untagged "127.0.0.1 facebook.com" left by an older version or a hand
// edit would otherwise keep the domain blocked no matter what the group
// toggles say; removing it hands the domain back to the managed region, where
// the next SetEntries decides whether it stays blocked. A line mixing managed
// and unmanaged hostnames is left alone. Returns the number of lines removed.
func (d *Document) Absorb(ip string, managed map[string]struct{}) int {
	if len(managed) == 0 {
		return 0
	}
	absorbed := 0
	kept := make([]string, 0, len(d.Passthrough))
	for _, line := range d.Passthrough {
		body, _, _ := strings.Cut(line, "#")
		fields := strings.Fields(body)
		if len(fields) >= 2 && fields[0] == ip {
			ours := true
			for _, h := range fields[1:] {
				if _, ok := managed[utils.CanonicalDomain(h)]; !ok {
					ours = false
					break
				}
			}
			if ours {
				absorbed++
				continue
			}
		}
		kept = append(kept, line)
	}
	d.Passthrough = kept
	return absorbed
}

// Equal reports whether two documents would render identically.
func (d *Document) Equal(other *Document) bool {
	if len(d.Passthrough) != len(other.Passthrough) || len(d.Entries) != len(other.Entries) {
		return false
	}
	for i := range d.Passthrough {
		if d.Passthrough[i] != other.Passthrough[i] {
			return false
		}
	}
	for i := range d.Entries {
		if d.Entries[i] != other.Entries[i] {
			return false
		}
	}
	return true
}
