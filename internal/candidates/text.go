package candidates

import (
	"projmerge/internal/project"
	"projmerge/internal/textutil"
)

// TextIndex is a TF-IDF model fitted on registry names and descriptions.
type TextIndex struct {
	analyzer textutil.Analyzer
	idf      map[string]float64
	vectors  []*textutil.Fingerprint
}

// NewTextIndex fits the model over name + description of every registry
// record. Records with no usable terms hold a nil vector.
func NewTextIndex(registry []project.Project, analyzer textutil.Analyzer) *TextIndex {
	raw := make([]*textutil.Fingerprint, len(registry))
	corpus := textutil.NewCorpus()
	for i, p := range registry {
		raw[i] = analyzer.Fingerprint(p.Text())
		corpus.Add(raw[i])
	}
	idf := corpus.IDF()
	vectors := make([]*textutil.Fingerprint, len(raw))
	for i, fp := range raw {
		vectors[i] = fp.WithIDF(idf)
	}
	return &TextIndex{analyzer: analyzer, idf: idf, vectors: vectors}
}

// Transform maps arbitrary text into the fitted vector space. Terms the
// registry never used carry no weight.
func (t *TextIndex) Transform(text string) *textutil.Fingerprint {
	if t == nil {
		return nil
	}
	return t.analyzer.Fingerprint(text).WithIDF(t.idf)
}

// Similarities returns the cosine similarity of vec against every registry
// vector, in registry order.
func (t *TextIndex) Similarities(vec *textutil.Fingerprint) []float64 {
	if t == nil {
		return nil
	}
	out := make([]float64, len(t.vectors))
	if vec == nil {
		return out
	}
	for i, v := range t.vectors {
		out[i] = textutil.CosineSimilarity(vec, v)
	}
	return out
}

// Above returns registry positions whose similarity to text strictly
// exceeds cutoff (0-1).
func (t *TextIndex) Above(text string, cutoff float64) []int {
	var out []int
	for i, s := range t.Similarities(t.Transform(text)) {
		if s > cutoff {
			out = append(out, i)
		}
	}
	return out
}
