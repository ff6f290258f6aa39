package sanitizer

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy    = bluemonday.StrictPolicy()
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// StripHTML removes every tag and attribute, returning plain text.
// Entities escaped by the policy are decoded again so the result can be
// escaped once by whatever renders it.
func StripHTML(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(s))
}

func Trim(s string) string {
	return strings.TrimSpace(s)
}

// SingleLine collapses all whitespace runs, newlines included, into one space.
func SingleLine(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PlainText strips markup and surrounding whitespace but keeps line breaks.
var PlainText = Compose(StripHTML, Trim)

// Label is PlainText reduced to a single line, for names and short fields.
var Label = Compose(StripHTML, SingleLine)
