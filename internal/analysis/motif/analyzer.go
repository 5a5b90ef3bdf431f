package motif

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Label은 사연에서 찾아낸 디자인 모티브입니다.
type Label string

const (
	Nature    Label = "nature"
	Flower    Label = "flower"
	Travel    Label = "travel"
	Animal    Label = "animal"
	Waterside Label = "waterside"
)

// Decision is the outcome of scanning a story.
type Decision struct {
	Motif   Label
	Word    string
	Matched []Label
}

type bucket struct {
	label    Label
	word     string
	keywords []string
}

// Buckets are checked in order; the first hit decides the motif.
var keywordBuckets = []bucket{
	{label: Flower, word: "벚꽃", keywords: []string{"벚꽃", "벚꽃잎"}},
	{label: Travel, word: "여행", keywords: []string{"여행"}},
	{label: Animal, word: "고양이", keywords: []string{"고양이"}},
	{label: Waterside, word: "강", keywords: []string{"강", "강가"}},
}

const fallbackWord = "자연"

// Normalize converts text to NFC so decomposed Hangul matches the keyword set.
func Normalize(text string) string {
	return norm.NFC.String(text)
}

// Detect scans story for motif keywords. Matching is a case-sensitive
// substring test; a story without keywords falls back to Nature.
func Detect(story string) Decision {
	normalized := Normalize(story)

	decision := Decision{Motif: Nature, Word: fallbackWord}
	for _, b := range keywordBuckets {
		if !containsAny(normalized, b.keywords) {
			continue
		}
		if len(decision.Matched) == 0 {
			decision.Motif = b.label
			decision.Word = b.word
		}
		decision.Matched = append(decision.Matched, b.label)
	}
	return decision
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
