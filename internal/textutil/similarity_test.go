package textutil

import (
	"math"
	"testing"
)

func TestCosineSimilarityNil(t *testing.T) {
	tests := []struct {
		name string
		a    *Fingerprint
		b    *Fingerprint
		want float64
	}{
		{"both nil", nil, nil, 0},
		{"a nil", nil, NewFingerprint("bridge replacement"), 0},
		{"b nil", NewFingerprint("bridge replacement"), nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarityIdentical(t *testing.T) {
	text := "Lead service line replacement for the city water system"
	got := CosineSimilarity(NewFingerprint(text), NewFingerprint(text))
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("CosineSimilarity(identical) = %v, want 1.0", got)
	}
}

func TestCosineSimilarityCompletelyDifferent(t *testing.T) {
	a := NewFingerprint("culvert upgrade salmon passage")
	b := NewFingerprint("battery factory expansion")

	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("CosineSimilarity(different) = %v, want 0", got)
	}
}

func TestCosineSimilarityPartialOverlap(t *testing.T) {
	a := NewFingerprint("harbor dredging and breakwater repair")
	b := NewFingerprint("breakwater repair at the ferry terminal")

	got := CosineSimilarity(a, b)
	if got <= 0 || got >= 1 {
		t.Errorf("CosineSimilarity(partial) = %v, want between 0 and 1", got)
	}
}

func TestCosineSimilaritySymmetric(t *testing.T) {
	a := NewFingerprint("wastewater treatment plant upgrade")
	b := NewFingerprint("treatment plant resilience")

	if ab, ba := CosineSimilarity(a, b), CosineSimilarity(b, a); ab != ba {
		t.Errorf("CosineSimilarity not symmetric: (%v, %v)", ab, ba)
	}
}

func TestCosineSimilarityZeroNorm(t *testing.T) {
	a := &Fingerprint{tokens: map[string]float64{}, norm: 0}
	b := NewFingerprint("transit bus electrification")

	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("CosineSimilarity(zero norm) = %v, want 0", got)
	}
}

func TestNewFingerprintEmpty(t *testing.T) {
	if fp := NewFingerprint(""); fp != nil {
		t.Error("expected nil for empty text")
	}
	if fp := NewFingerprint("the and of a"); fp != nil {
		t.Error("expected nil for text with only stop words")
	}
}

func TestNewFingerprintNormCalculation(t *testing.T) {
	// bridge:2, deck:1 -> sqrt(5)
	fp := NewFingerprint("bridge bridge deck")
	if fp == nil {
		t.Fatal("expected fingerprint")
	}
	if math.Abs(fp.norm-math.Sqrt(5)) > 0.0001 {
		t.Errorf("norm = %v, want %v", fp.norm, math.Sqrt(5))
	}
}

func TestFingerprintTokenCount(t *testing.T) {
	tests := []struct {
		name string
		fp   *Fingerprint
		want int
	}{
		{"nil fingerprint", nil, 0},
		{"unique tokens", NewFingerprint("solar array installation"), 3},
		{"repeated tokens", NewFingerprint("solar solar array array array"), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fp.TokenCount(); got != tt.want {
				t.Errorf("TokenCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIDFWeighting(t *testing.T) {
	corpus := NewCorpus()
	docs := []string{
		"water main replacement",
		"water treatment plant",
		"highway bridge repair",
	}
	for _, d := range docs {
		corpus.Add(NewFingerprint(d))
	}
	corpus.Add(nil)
	if corpus.Docs() != 4 {
		t.Fatalf("Docs() = %d, want 4", corpus.Docs())
	}

	idf := corpus.IDF()
	if idf["water"] >= idf["bridge"] {
		t.Errorf("common term weight %v should be below rare term weight %v", idf["water"], idf["bridge"])
	}
	if idf["water"] <= 0 {
		t.Errorf("expected positive weight for shared term, got %v", idf["water"])
	}

	q := NewFingerprint("water main break").WithIDF(idf)
	if q == nil {
		t.Fatal("expected weighted fingerprint")
	}
	if _, ok := q.tokens["break"]; ok {
		t.Error("terms outside the corpus should be dropped")
	}
	if NewFingerprint("unrelated vocabulary").WithIDF(idf) != nil {
		t.Error("expected nil when no term is known to the corpus")
	}
}
