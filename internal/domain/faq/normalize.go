package faq

import (
	"strings"
	"unicode"
)

// normalizeSearchTerm lower-cases the term and collapses runs of whitespace and control characters.
func normalizeSearchTerm(q string) string {
	lowered := strings.ToLower(strings.TrimSpace(q))
	var builder strings.Builder
	builder.Grow(len(lowered))
	lastSpace := true
	for _, r := range lowered {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			if !lastSpace {
				builder.WriteRune(' ')
				lastSpace = true
			}
			continue
		}
		builder.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimSpace(builder.String())
}

// Matches reports whether the visible text of item contains the normalized term.
func Matches(item FAQ, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(PlainText(item.Question)), term) ||
		strings.Contains(strings.ToLower(PlainText(item.Answer)), term)
}
