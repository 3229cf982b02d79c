package textutil

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Analyzer turns free text into index terms.
type Analyzer struct {
	// Stem reduces terms with the Snowball English stemmer.
	Stem bool
}

// FoldAccents strips combining marks after canonical decomposition, so
// "Café" and "Cafe" compare equal.
func FoldAccents(text string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, text)
	if err != nil {
		return text
	}
	return folded
}

// Tokenize returns the index terms for text in document order.
func (a Analyzer) Tokenize(text string) []string {
	lowered := strings.ToLower(FoldAccents(text))
	raw := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if len([]rune(token)) < 2 || IsStopWord(token) {
			continue
		}
		if a.Stem {
			if stemmed, err := snowball.Stem(token, "english", true); err == nil && stemmed != "" {
				token = stemmed
			}
		}
		terms = append(terms, token)
	}
	return terms
}

// Tokenize splits text with the default analyzer.
func Tokenize(text string) []string {
	return Analyzer{}.Tokenize(text)
}
