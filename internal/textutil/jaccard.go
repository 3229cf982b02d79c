package textutil

import (
	"strings"
	"unicode"
)

var commonWords = map[string]struct{}{
	"project": {}, "program": {}, "initiative": {}, "the": {}, "and": {}, "for": {},
	"of": {}, "to": {}, "in": {}, "a": {}, "an": {},
}

// NormalizeText lowercases text, splits it on anything other than letters,
// digits and underscores, drops filler words that carry no identity
// (project, program, articles, short prepositions) and rejoins the rest
// with single spaces.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '_'
	})
	kept := fields[:0]
	for _, w := range fields {
		if _, ok := commonWords[w]; ok {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// TextSimilarity returns a 0-100 similarity between two strings. Identical
// normalized text scores 100; otherwise the Jaccard overlap of words longer
// than three characters is returned as a percentage.
func TextSimilarity(a, b string) float64 {
	normA := NormalizeText(a)
	normB := NormalizeText(b)
	if normA == "" || normB == "" {
		return 0
	}
	if normA == normB {
		return 100
	}
	wordsA := significantWords(normA)
	wordsB := significantWords(normB)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}
	intersection := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	return float64(intersection) / float64(union) * 100
}

func significantWords(normalized string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(normalized) {
		if len([]rune(w)) > 3 {
			words[w] = struct{}{}
		}
	}
	return words
}
