package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Summary caps, in runes.
const (
	ShortSummaryCap = 25
	LongSummaryCap  = 150
)

// Ellipsis is appended to truncated summaries.
const Ellipsis = "…"

var (
	fenceOpenRe  = regexp.MustCompile("(?s)```.*?\n")
	fenceCloseRe = regexp.MustCompile("\n```")
)

// StripFences removes fenced code block delimiters (the opening fence line
// with its info string, and closing fences) while keeping the code itself.
func StripFences(text string) string {
	text = fenceOpenRe.ReplaceAllString(text, "")
	text = fenceCloseRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Summarize strips fence delimiters, trims, and truncates text to limit
// runes, appending Ellipsis when anything was cut.
func Summarize(text string, limit int) string {
	cleaned := StripFences(text)
	if limit < 0 || utf8.RuneCountInString(cleaned) <= limit {
		return cleaned
	}
	return string([]rune(cleaned)[:limit]) + Ellipsis
}
