package motif

import "unicode/utf8"

const (
	hangulFirst = 0xAC00
	hangulLast  = 0xD7A3
)

// ObjectParticle returns 을 or 를 depending on whether word ends in a final consonant.
// Words not ending in a Hangul syllable get 를.
func ObjectParticle(word string) string {
	if hasFinalConsonant(word) {
		return "을"
	}
	return "를"
}

func hasFinalConsonant(word string) bool {
	r, size := utf8.DecodeLastRuneInString(word)
	if size == 0 || r < hangulFirst || r > hangulLast {
		return false
	}
	return (r-hangulFirst)%28 != 0
}
