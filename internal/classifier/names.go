package classifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var asciiOnly = runes.Remove(runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII
}))

// FoldName reduces a counterparty name to lowercase ASCII so that
// " Oséas Dias" and "oseas dias" compare equal.
func FoldName(name string) string {
	t := transform.Chain(norm.NFKD, asciiOnly)
	folded, _, err := transform.String(t, strings.TrimSpace(name))
	if err != nil {
		folded = strings.TrimSpace(name)
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
