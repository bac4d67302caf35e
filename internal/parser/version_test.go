package parser

import (
	"strings"
	"testing"
)

func TestParse_NoMarker(t *testing.T) {
	input := "  just a draft\nwith two lines  \n"
	r := Parse(input)
	if r.Label != NotAvailable {
		t.Errorf("label = %q, want %q", r.Label, NotAvailable)
	}
	if r.Line != NoMarker || r.HasMarker() {
		t.Errorf("line = %d, want NoMarker", r.Line)
	}
	if r.Content != "just a draft\nwith two lines" {
		t.Errorf("content = %q", r.Content)
	}
	if r.Summary != "just a draft\nwith two lines" {
		t.Errorf("summary = %q", r.Summary)
	}
}

func TestParse_NoMarkerUsesLongCap(t *testing.T) {
	input := strings.Repeat("a", 200)
	r := Parse(input)
	if r.Summary != strings.Repeat("a", LongSummaryCap)+Ellipsis {
		t.Errorf("summary = %q", r.Summary)
	}
}

func TestParse_LastMarkerWins(t *testing.T) {
	input := "### V3.0\nthree\n\n### V1.2\none point two\n"
	r := Parse(input)
	if r.Label != "V1.2" {
		t.Errorf("label = %q, want V1.2", r.Label)
	}
	if r.Line != 3 {
		t.Errorf("line = %d, want 3", r.Line)
	}
	if r.Major != 1 || r.Minor != 2 {
		t.Errorf("version = %d.%d, want 1.2", r.Major, r.Minor)
	}
	if r.Content != "one point two" {
		t.Errorf("content = %q", r.Content)
	}
}

func TestParse_DuplicateVersionsNotDeduplicated(t *testing.T) {
	input := "### V1.0\nfirst\n### V1.0\nsecond"
	r := Parse(input)
	if r.Line != 2 || r.Content != "second" {
		t.Errorf("line = %d content = %q, want line 2 'second'", r.Line, r.Content)
	}
}

func TestParse_LabelSynonyms(t *testing.T) {
	cases := map[string]string{
		"### V 1.0":       "V 1.0",
		"### v2":          "v2",
		"### Version 3.1": "Version 3.1",
		"### ver4.2":      "ver4.2",
		"### 版本 5.0":      "版本 5.0",
		"###7.1":          "7.1",
		"### 8":           "8",
	}
	for line, want := range cases {
		r := Parse(line + "\nbody")
		if r.Label != want {
			t.Errorf("Parse(%q).Label = %q, want %q", line, r.Label, want)
		}
		if r.Content != "body" {
			t.Errorf("Parse(%q).Content = %q", line, r.Content)
		}
	}
}

func TestParse_NotMarkers(t *testing.T) {
	for _, line := range []string{
		"## V1.0",
		"#### V1.0",
		"### Notes",
		"text ### V1.0",
		"### Vx",
	} {
		if IsMarker(line) {
			t.Errorf("IsMarker(%q) = true", line)
		}
	}
}

func TestParse_MarkerOnLastLine(t *testing.T) {
	r := Parse("intro\n### V1.3")
	if r.Label != "V1.3" {
		t.Errorf("label = %q", r.Label)
	}
	if r.Content != "" || r.Summary != "" {
		t.Errorf("content = %q summary = %q, want empty", r.Content, r.Summary)
	}
	if r.Line != 1 {
		t.Errorf("line = %d, want 1", r.Line)
	}
}

func TestParse_EmptyVersionDoesNotFallBack(t *testing.T) {
	input := "lots of preamble text here\n### V1.0\nold\n### V1.1\n\n   \n"
	r := Parse(input)
	if r.Label != "V1.1" {
		t.Errorf("label = %q", r.Label)
	}
	if r.Summary != "" {
		t.Errorf("summary = %q, want empty", r.Summary)
	}
}

func TestParse_ShortSummaryStripsFences(t *testing.T) {
	input := "### V 1.0\n\n```\n\nPrompt here...\n\n```"
	r := Parse(input)
	if r.Content != "```\n\nPrompt here...\n\n```" {
		t.Errorf("content = %q", r.Content)
	}
	if r.Summary != "Prompt here..." {
		t.Errorf("summary = %q", r.Summary)
	}
}

func TestParse_ContentStopsAtNextMarker(t *testing.T) {
	// The backward scan stops at the last marker, so the forward collection
	// from it only ever hits the end of the document.
	input := "### V1.0\na\n### V1.1\nb\nc\n"
	r := Parse(input)
	if r.Content != "b\nc" {
		t.Errorf("content = %q", r.Content)
	}
}

func TestSectionAfter_StopsBeforeMarker(t *testing.T) {
	lines := splitLines("### V1.0\na\nb\n### V1.1\nc")
	if got := sectionAfter(lines, 0); got != "a\nb" {
		t.Errorf("sectionAfter = %q", got)
	}
}

func TestParse_Empty(t *testing.T) {
	r := Parse("")
	if r.Label != NotAvailable || r.Content != "" || r.Summary != "" {
		t.Errorf("unexpected info for empty doc: %+v", r)
	}
}

func TestParse_OversizedNumbersAreText(t *testing.T) {
	for _, input := range []string{
		"### 99999999999999999999\nx",
		"### V1.99999999999999999999\nx",
		"### V1.9223372036854775807\nx",
	} {
		r := Parse(input)
		if r.HasMarker() || r.Label != NotAvailable {
			t.Errorf("Parse(%q) = %+v, want no marker", input, r)
		}
		if r.Content != input {
			t.Errorf("Parse(%q) content = %q", input, r.Content)
		}
	}
}

func TestParse_OversizedMarkerDoesNotEndSection(t *testing.T) {
	r := Parse("### V1.2\na\n### V1.99999999999999999999\nb")
	if r.Label != "V1.2" || r.Major != 1 || r.Minor != 2 {
		t.Fatalf("got %+v", r)
	}
	if r.Content != "a\n### V1.99999999999999999999\nb" {
		t.Errorf("content = %q", r.Content)
	}
}
