// Package parser extracts version markers, version content, and card
// summaries from prompt documents, and synthesizes the next version block.
package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// NotAvailable is the label reported for documents without a version marker.
const NotAvailable = "N/A"

// NoMarker is the line index reported when a document has no version marker.
const NoMarker = -1

// headingPrefix is the fixed heading depth used for version markers.
const headingPrefix = "###"

var markerRe = regexp.MustCompile(`(?i)^###\s*(?:V|Version|版本|Ver)?\s*(\d+)(?:\.(\d+))?`)

// Info is the parsed view of a document's latest version. It is derived on
// every read and never stored.
type Info struct {
	// Label is the marker text after the heading prefix, or NotAvailable.
	Label string `json:"version"`
	// Content is the text between the last marker and the next marker or
	// the end of the document, trimmed. Without a marker it is the whole
	// trimmed document.
	Content string `json:"content"`
	Summary string `json:"summary"`
	// Line is the zero-based line of the last marker, or NoMarker.
	Line  int `json:"line"`
	Major int `json:"major"`
	Minor int `json:"minor"`
}

// HasMarker reports whether the document contained a version marker.
func (i Info) HasMarker() bool {
	return i.Line != NoMarker
}

// marker is a matched version heading.
type marker struct {
	line  int
	major int
	minor int
}

// Parse locates the last version marker in text and extracts its label,
// content and summary. Documents without markers degrade to whole-document
// behaviour; Parse never fails.
func Parse(text string) Info {
	lines := splitLines(text)

	m, ok := lastMarker(lines)
	if !ok {
		return Info{
			Label:   NotAvailable,
			Content: strings.TrimSpace(text),
			Summary: Summarize(text, LongSummaryCap),
			Line:    NoMarker,
		}
	}

	content := sectionAfter(lines, m.line)
	info := Info{
		Label:   strings.TrimSpace(strings.TrimPrefix(lines[m.line], headingPrefix)),
		Content: content,
		Line:    m.line,
		Major:   m.major,
		Minor:   m.minor,
	}
	// A marker with nothing under it is a valid state and keeps an empty summary.
	if content != "" {
		info.Summary = Summarize(content, ShortSummaryCap)
	}
	return info
}

// IsMarker reports whether line is a version marker heading. Headings whose
// numbers do not fit an int, or whose minor cannot be incremented, are plain
// text.
func IsMarker(line string) bool {
	_, ok := matchMarker(line)
	return ok
}

func matchMarker(line string) (marker, bool) {
	sub := markerRe.FindStringSubmatch(line)
	if sub == nil {
		return marker{}, false
	}
	var (
		m   marker
		err error
	)
	if m.major, err = strconv.Atoi(sub[1]); err != nil {
		return marker{}, false
	}
	if sub[2] != "" {
		if m.minor, err = strconv.Atoi(sub[2]); err != nil {
			return marker{}, false
		}
	}
	if m.minor == math.MaxInt {
		return marker{}, false
	}
	return m, true
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

// lastMarker scans from the end of the document for the first marker line.
// Position wins over version number: the last marker in document order is
// the latest version.
func lastMarker(lines []string) (marker, bool) {
	for i := len(lines) - 1; i >= 0; i-- {
		m, ok := matchMarker(lines[i])
		if !ok {
			continue
		}
		m.line = i
		return m, true
	}
	return marker{}, false
}

// sectionAfter collects the lines following the marker at idx up to the
// next marker line or the end of the document.
func sectionAfter(lines []string, idx int) string {
	var buf []string
	for j := idx + 1; j < len(lines); j++ {
		if IsMarker(lines[j]) {
			break
		}
		buf = append(buf, lines[j])
	}
	return strings.TrimSpace(strings.Join(buf, "\n"))
}
