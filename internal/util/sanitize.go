package util

import (
	"regexp"
	"strings"
)

// Field length caps applied before any value reaches a prompt or the DB.
const (
	MaxLocationLength = 100
	MaxFieldShort     = 150 // single-line fields: accommodation, travel_style, home_city
	MaxFieldMedium    = 500 // multi-line fields: pre_planned, notes
	MaxNameLength     = 200
	MaxExcludeNameLen = 100
	MaxExcludeListLen = 50
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeLine prepares a single-line text field for prompt interpolation:
// all whitespace runs (including newlines and tabs) collapse to one space,
// ends are trimmed, and the result is truncated to maxLen. Returns "" when
// nothing survives. Use this for every field that appears on a single
// logical line in a prompt.
func SanitizeLine(value string, maxLen int) string {
	s := strings.TrimSpace(whitespaceRun.ReplaceAllString(value, " "))
	return truncate(s, maxLen)
}

// SanitizeMultiline trims ends only, since internal newlines are legitimate
// in multi-line fields like pre-planned notes, then truncates to maxLen.
func SanitizeMultiline(value string, maxLen int) string {
	return truncate(strings.TrimSpace(value), maxLen)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return s
}
