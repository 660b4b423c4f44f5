package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticsFolder = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldText lowercases a string and strips diacritics so that values scraped
// from Czech status pages compare equal regardless of accent usage.
func FoldText(value string) string {
	folded, _, err := transform.String(diacriticsFolder, value)
	if err != nil {
		folded = value
	}

	return strings.ToLower(strings.TrimSpace(folded))
}
