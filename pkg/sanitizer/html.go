// Package sanitizer cleans user-supplied text before it is stored or served.
package sanitizer

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()

	richOnce sync.Once
	rich     *bluemonday.Policy
)

func richPolicy() *bluemonday.Policy {
	richOnce.Do(func() {
		rich = bluemonday.NewPolicy()
		rich.AllowStandardURLs()
		rich.AllowElements(
			"p", "br", "hr",
			"h2", "h3", "h4",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
		)
		rich.AllowAttrs("href").OnElements("a")
		rich.RequireNoFollowOnLinks(true)
		rich.AddTargetBlankToFullyQualifiedLinks(true)
	})
	return rich
}

// PlainText removes all markup and returns trimmed text with entities decoded.
// Used for testimonial bodies and customer names.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// HTML keeps basic formatting (paragraphs, emphasis, lists, links) and
// drops scripts, event handlers and javascript: URLs.
func HTML(s string) string {
	return richPolicy().Sanitize(s)
}
