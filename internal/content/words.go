package content

import (
	"strings"
	"unicode"
)

// CountWords counts whitespace separated words, with every CJK character
// counted as a word of its own.
func CountWords(text string) int {
	n := 0
	for _, field := range strings.Fields(text) {
		inWord := false
		for _, r := range field {
			if isCJK(r) {
				n++
				inWord = false
				continue
			}
			if !inWord {
				n++
				inWord = true
			}
		}
	}
	return n
}

func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}
