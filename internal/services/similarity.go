package services

import (
	"strings"
	"unicode"
)

// DiceSimilarity returns the Sørensen–Dice coefficient over character bigrams
// of a and b after all whitespace is removed. The result is in [0, 1]; equal
// inputs score 1, and anything shorter than two runes otherwise scores 0.
func DiceSimilarity(a, b string) float64 {
	ra := []rune(stripWhitespace(a))
	rb := []rune(stripWhitespace(b))

	if string(ra) == string(rb) {
		return 1
	}
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	bigrams := make(map[[2]rune]int, len(ra)-1)
	for i := 0; i < len(ra)-1; i++ {
		bigrams[[2]rune{ra[i], ra[i+1]}]++
	}

	intersection := 0
	for i := 0; i < len(rb)-1; i++ {
		bg := [2]rune{rb[i], rb[i+1]}
		if n := bigrams[bg]; n > 0 {
			bigrams[bg] = n - 1
			intersection++
		}
	}

	return 2 * float64(intersection) / float64(len(ra)+len(rb)-2)
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
