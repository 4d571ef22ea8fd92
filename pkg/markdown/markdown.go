// Package markdown renders listing descriptions to sanitized HTML.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dmitrymomot/kennel/pkg/sanitizer"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))

// ToHTML converts Markdown to HTML and passes the result through
// sanitizer.HTML. Raw HTML in the source is never trusted.
func ToHTML(src string) (string, error) {
	if src == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return sanitizer.HTML(buf.String()), nil
}
