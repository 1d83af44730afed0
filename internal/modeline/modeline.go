// Package modeline scans a document's head and tail lines for an in-band
// flavor override comment, the highest-precedence input to flavor
// resolution (internal/gdoc.Manager.resolveFlavor applies the other tiers).
package modeline

import (
	"regexp"
	"strings"
)

// headTailWindow bounds how much of a long document is scanned: documents
// of scanWholeDocumentMax lines or fewer are scanned in full; longer
// documents are scanned only in their first and last headTailLines lines.
const (
	scanWholeDocumentMax = 10
	headTailLines        = 5
)

// directivePattern matches "; gcode_flavor=<name>" or "// gcode_flavor=<name>",
// case-insensitive on the key, tolerant of whitespace around '='.
var directivePattern = regexp.MustCompile(`(?i)^\s*(?:;|//)\s*gcode_flavor\s*=\s*(\S+)\s*$`)

// Result is the outcome of a Detect scan.
type Result struct {
	// Name is the requested flavor name, exactly as written (untrusted —
	// the caller looks it up in the registry; an unknown name is not an
	// error here).
	Name string
	// Line is the 0-based line the modeline was found on.
	Line uint32
	Found bool
}

// Detect scans text's lines for a gcode_flavor directive following the
// scan-window rule from SPEC_FULL.md §7: documents of scanWholeDocumentMax
// lines or fewer are scanned completely; longer documents are scanned only
// in their first and last headTailLines lines. The first match under that
// scan order wins.
func Detect(text string) Result {
	lines := splitLines(text)
	n := len(lines)

	if n <= scanWholeDocumentMax {
		for i := 0; i < n; i++ {
			if name, ok := matchDirective(lines[i]); ok {
				return Result{Name: name, Line: uint32(i), Found: true}
			}
		}
		return Result{}
	}

	for i := 0; i < headTailLines && i < n; i++ {
		if name, ok := matchDirective(lines[i]); ok {
			return Result{Name: name, Line: uint32(i), Found: true}
		}
	}
	for i := n - headTailLines; i < n; i++ {
		if name, ok := matchDirective(lines[i]); ok {
			return Result{Name: name, Line: uint32(i), Found: true}
		}
	}
	return Result{}
}

func matchDirective(line string) (string, bool) {
	m := directivePattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// splitLines splits text on "\n", tolerating a trailing "\r" per line and
// not requiring a final terminator — mirroring internal/gtoken's own line
// splitting so modeline scanning agrees with tokenization about line
// numbering.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	for i, l := range raw {
		raw[i] = strings.TrimSuffix(l, "\r")
	}
	if len(raw) > 0 && raw[len(raw)-1] == "" && strings.HasSuffix(text, "\n") {
		raw = raw[:len(raw)-1]
	}
	return raw
}
