package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make lowercases s, folds diacritics to ASCII, drops quote characters,
// collapses every run of other non-alphanumerics into one hyphen and
// trims hyphens from both ends.
func Make(s string) string {
	folded, _, err := transform.String(fold(), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))

	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case isQuote(r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}

	return b.String()
}

// fold decomposes runes and strips combining marks: "é" becomes "e".
func fold() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

func isQuote(r rune) bool {
	switch r {
	case '\'', '"', '`', '‘', '’', '“', '”':
		return true
	}
	return false
}
