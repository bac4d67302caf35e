package parser

import (
	"fmt"
	"strings"
)

// Defaults used when a document has no marker yet.
const (
	defaultMajor = 0
	defaultMinor = 9
)

// Iteration describes the version block that iterating a document appends.
type Iteration struct {
	Label string // e.g. "V2.4"
	Major int
	Minor int
	// Carried is the content copied forward into the new version.
	Carried string
	// Block is the exact text to append to the document.
	Block string
}

// Next computes the next version of text. Only the last marker by position
// is considered; the minor component is incremented and major is kept.
// The document itself is not modified.
func Next(text string) Iteration {
	lines := splitLines(text)

	major, minor := defaultMajor, defaultMinor
	var carried string

	if m, ok := lastMarker(lines); ok {
		major, minor = m.major, m.minor
		carried = sectionAfter(lines, m.line)
	} else {
		carried = strings.TrimSpace(text)
	}

	minor++
	label := fmt.Sprintf("V%d.%d", major, minor)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(headingPrefix + " " + label + "\n")
	b.WriteString("\n")
	if carried != "" {
		b.WriteString(carried)
		b.WriteString("\n")
	}

	return Iteration{
		Label:   label,
		Major:   major,
		Minor:   minor,
		Carried: carried,
		Block:   b.String(),
	}
}

// Apply returns text with the next version block appended.
func Apply(text string) (string, Iteration) {
	it := Next(text)
	return text + it.Block, it
}
