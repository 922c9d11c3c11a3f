package faq

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// richTextPolicy keeps the markup the editor produces (headings, emphasis, links, lists, quotes,
// images) and drops scripts, event handlers and styles.
var richTextPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}()

var plainTextPolicy = bluemonday.StrictPolicy()

// SanitizeRichText returns markup that is safe to render verbatim.
func SanitizeRichText(raw string) string {
	return strings.TrimSpace(richTextPolicy.Sanitize(raw))
}

// PlainText strips every tag and decodes entities.
func PlainText(markup string) string {
	text := html.UnescapeString(plainTextPolicy.Sanitize(markup))
	return strings.Join(strings.Fields(text), " ")
}

// Preview returns at most limit runes of the visible text, with an ellipsis when truncated.
func Preview(markup string, limit int) string {
	text := PlainText(markup)
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:limit])) + "..."
}
