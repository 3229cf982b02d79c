package textutil

import "math"

// Fingerprint represents a weighted term vector for cosine comparison.
type Fingerprint struct {
	tokens map[string]float64
	norm   float64
}

// NewFingerprint creates a term-frequency fingerprint with the default analyzer.
// Returns nil if the text produces no valid tokens.
func NewFingerprint(text string) *Fingerprint {
	return Analyzer{}.Fingerprint(text)
}

// Fingerprint creates a term-frequency fingerprint from text.
// Returns nil if the text produces no valid tokens.
func (a Analyzer) Fingerprint(text string) *Fingerprint {
	tokens := a.Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &Fingerprint{
		tokens: counts,
		norm:   math.Sqrt(norm),
	}
}

// TokenCount returns the number of unique tokens in the fingerprint.
func (f *Fingerprint) TokenCount() int {
	if f == nil {
		return 0
	}
	return len(f.tokens)
}

// WithIDF returns a new Fingerprint with TF-IDF weights applied.
// Terms absent from the IDF map are unknown to the corpus and dropped.
func (f *Fingerprint) WithIDF(idf map[string]float64) *Fingerprint {
	if f == nil || len(idf) == 0 {
		return nil
	}
	weighted := make(map[string]float64, len(f.tokens))
	var norm float64
	for token, count := range f.tokens {
		idfVal, ok := idf[token]
		if !ok {
			continue
		}
		w := count * idfVal
		if w == 0 {
			continue
		}
		weighted[token] = w
		norm += w * w
	}
	if len(weighted) == 0 {
		return nil
	}
	return &Fingerprint{
		tokens: weighted,
		norm:   math.Sqrt(norm),
	}
}

// Corpus collects document frequency statistics for IDF computation.
type Corpus struct {
	docCount int
	docFreq  map[string]int
}

// NewCorpus creates an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{docFreq: make(map[string]int)}
}

// Add registers a fingerprint's unique terms in the corpus. A nil fingerprint
// still counts as a document.
func (c *Corpus) Add(fp *Fingerprint) {
	if c == nil {
		return
	}
	c.docCount++
	if fp == nil {
		return
	}
	for token := range fp.tokens {
		c.docFreq[token]++
	}
}

// Docs returns the number of documents added.
func (c *Corpus) Docs() int {
	if c == nil {
		return 0
	}
	return c.docCount
}

// IDF computes smoothed inverse document frequency weights:
// ln((N+1)/(1+df)) + 1, so a term present in every document keeps weight 1.
func (c *Corpus) IDF() map[string]float64 {
	if c == nil || c.docCount == 0 {
		return nil
	}
	idf := make(map[string]float64, len(c.docFreq))
	n := float64(c.docCount)
	for term, df := range c.docFreq {
		idf[term] = math.Log((n+1)/(1+float64(df))) + 1
	}
	return idf
}
