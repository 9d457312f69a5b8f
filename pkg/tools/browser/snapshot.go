package browser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// TruncationNotice is appended verbatim when snapshot text exceeds the
// character limit. Downstream consumers match on this literal.
const TruncationNotice = "\n\n[...TRUNCATED - page too large, use read action for full text]"

var (
	refMarkerRegex = regexp.MustCompile(`\[ref=(e\d+)\]`)
	nthMarkerRegex = regexp.MustCompile(`\[nth=(\d+)\]`)
	roleTokenRegex = regexp.MustCompile(`^\s*-\s+([^\s"\[:]+)`)
	quotedRegex    = regexp.MustCompile(`"([^"]*)"`)
)

// ParseSnapshot extracts the ref table from serialized snapshot text.
//
// Each referenceable line has the shape:
//
//	- role "accessible name" [ref=e7] [nth=2]
//
// where the quoted name and the nth marker are optional. Lines without a
// ref marker contribute nothing. When the same ref id appears on multiple
// lines the last occurrence wins.
func ParseSnapshot(text string) map[string]RefEntry {
	refs := make(map[string]RefEntry)

	for _, line := range strings.Split(text, "\n") {
		marker := refMarkerRegex.FindStringSubmatch(line)
		if marker == nil {
			continue
		}

		entry := RefEntry{Role: "generic"}

		if role := roleTokenRegex.FindStringSubmatch(line); role != nil {
			entry.Role = role[1]
		}
		if name := quotedRegex.FindStringSubmatch(line); name != nil {
			entry.Name = name[1]
		}
		if nth := nthMarkerRegex.FindStringSubmatch(line); nth != nil {
			if n, err := strconv.Atoi(nth[1]); err == nil {
				entry.Nth = n
			}
		}

		refs[marker[1]] = entry
	}

	return refs
}

// Truncate caps snapshot text at maxChars bytes, appending the truncation
// notice outside the limit. The cut never splits a multibyte rune; for
// non-ASCII trees the kept prefix may be up to three bytes short of the
// limit. maxChars <= 0 uses the default.
func Truncate(text string, maxChars int) SnapshotResult {
	if maxChars <= 0 {
		maxChars = DefaultSnapshotMaxChars
	}
	if len(text) <= maxChars {
		return SnapshotResult{Text: text, Truncated: false}
	}

	cut := maxChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return SnapshotResult{Text: text[:cut] + TruncationNotice, Truncated: true}
}

// SnapshotProvider captures the accessibility tree of a page as annotated
// line-format text. The provider is chosen once at session initialization
// based on what the driver supports.
type SnapshotProvider interface {
	Capture(page Page, timeout time.Duration) (string, error)
}

// scriptedProvider uses the driver's injected-script snapshot, which emits
// ref markers itself and tags the live elements for raw-ref addressing.
type scriptedProvider struct{}

func (scriptedProvider) Capture(page Page, timeout time.Duration) (string, error) {
	text, err := page.ScriptedSnapshot(timeout)
	if err != nil {
		return "", fmt.Errorf("scripted snapshot failed: %w", err)
	}
	return text, nil
}

// ariaProvider serializes the generic ARIA tree and annotates refs on this
// side. Elements reachable this way resolve by role/name only; there is no
// driver-side tagging to fall back on.
type ariaProvider struct{}

func (ariaProvider) Capture(page Page, timeout time.Duration) (string, error) {
	text, err := page.AriaSnapshot(timeout)
	if err != nil {
		return "", fmt.Errorf("aria snapshot failed: %w", err)
	}
	return annotateRefs(text), nil
}

// interactiveRoles lists the accessibility roles that receive refs when a
// generic ARIA serialization is annotated.
var interactiveRoles = map[string]bool{
	"button":     true,
	"link":       true,
	"textbox":    true,
	"checkbox":   true,
	"radio":      true,
	"combobox":   true,
	"listbox":    true,
	"option":     true,
	"menuitem":   true,
	"tab":        true,
	"slider":     true,
	"spinbutton": true,
	"searchbox":  true,
	"switch":     true,
}

// annotateRefs assigns sequential ref markers to interactive lines of a
// plain ARIA serialization, adding nth markers where the same role/name
// pair repeats.
func annotateRefs(text string) string {
	lines := strings.Split(text, "\n")
	seen := make(map[string]int)
	counter := 0

	for i, line := range lines {
		role := roleTokenRegex.FindStringSubmatch(line)
		if role == nil || !interactiveRoles[role[1]] {
			continue
		}
		if refMarkerRegex.MatchString(line) {
			continue
		}

		name := ""
		if quoted := quotedRegex.FindStringSubmatch(line); quoted != nil {
			name = quoted[1]
		}

		counter++
		marker := fmt.Sprintf(" [ref=e%d]", counter)

		key := role[1] + "\x00" + name
		if nth := seen[key]; nth > 0 {
			marker += fmt.Sprintf(" [nth=%d]", nth)
		}
		seen[key]++

		// Container lines end with a colon; the marker goes before it.
		if strings.HasSuffix(line, ":") {
			lines[i] = strings.TrimSuffix(line, ":") + marker + ":"
		} else {
			lines[i] = line + marker
		}
	}

	return strings.Join(lines, "\n")
}
