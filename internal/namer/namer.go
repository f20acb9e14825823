// Package namer builds collision-safe target filenames from a capture date,
// a caption, and the original filename.
package namer

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Token normalizes a caption into a compact CamelCase filename component:
// punctuation is stripped, words are split on whitespace, each word is
// capitalized, and the words are concatenated without separators. Only
// letters and digits survive, which also keeps the token clear of characters
// that are illegal on common filesystems.
func Token(caption string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		// Punctuation and other separators split words.
		return ' '
	}, caption)

	caser := cases.Title(language.English)

	var b strings.Builder
	for _, word := range strings.Fields(cleaned) {
		b.WriteString(caser.String(word))
	}
	return b.String()
}
