package resolution

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"projmerge/internal/candidates"
	"projmerge/internal/project"
	"projmerge/internal/services"
	"projmerge/internal/similarity"
)

func regionRegistry(n int) []project.Project {
	registry := make([]project.Project, n)
	for i := range registry {
		registry[i] = project.Project{UniqueID: "R" + string(rune('A'+i)), Name: "existing", Region: "PA"}
	}
	return registry
}

// fixedScores scores registry entries by UniqueID.
func fixedScores(scores map[string]int) similarity.Func {
	return func(_, existing project.Project) similarity.Result {
		return similarity.Result{Score: scores[existing.UniqueID], Reasons: []string{"fixed"}}
	}
}

func newTestResolver(registry []project.Project, score similarity.Func) *Resolver {
	r := NewResolver(registry, candidates.Build(registry, candidates.Options{}), Thresholds{Confidence: 80, Review: 40}, 5)
	if score != nil {
		r.Score = score
	}
	return r
}

func TestResolveOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		scores    map[string]int
		want      Outcome
		wantCount int
		wantTop   string
	}{
		{"no qualifying candidates", map[string]int{"RA": 10, "RB": 39}, OutcomeNew, 0, ""},
		{"duplicate at confidence", map[string]int{"RA": 45, "RB": 80}, OutcomeDuplicate, 2, "RB"},
		{"review between thresholds", map[string]int{"RA": 40, "RB": 79, "RC": 12}, OutcomeReview, 2, "RB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(regionRegistry(3), fixedScores(tt.scores))
			d := r.Resolve(project.Project{Name: "incoming", Region: "PA"})
			if d.Outcome != tt.want {
				t.Fatalf("Outcome = %s, want %s", d.Outcome, tt.want)
			}
			if d.MatchCount != tt.wantCount {
				t.Fatalf("MatchCount = %d, want %d", d.MatchCount, tt.wantCount)
			}
			if d.Considered != 3 {
				t.Fatalf("Considered = %d, want 3", d.Considered)
			}
			top, ok := d.Top()
			if tt.wantTop == "" {
				if ok {
					t.Fatalf("expected no retained match, got %s", top.Existing.UniqueID)
				}
				return
			}
			if !ok || top.Existing.UniqueID != tt.wantTop {
				t.Fatalf("top = %+v, want %s", top, tt.wantTop)
			}
		})
	}
}

func TestResolveReviewKeepsTopNWithStableTies(t *testing.T) {
	registry := regionRegistry(7)
	scores := map[string]int{"RA": 50, "RB": 60, "RC": 50, "RD": 70, "RE": 50, "RF": 50, "RG": 41}
	r := newTestResolver(registry, fixedScores(scores))
	d := r.Resolve(project.Project{Region: "PA"})
	if d.Outcome != OutcomeReview {
		t.Fatalf("Outcome = %s, want REVIEW", d.Outcome)
	}
	if d.MatchCount != 7 {
		t.Fatalf("MatchCount = %d, want 7", d.MatchCount)
	}
	want := []string{"RD", "RB", "RA", "RC", "RE"}
	if len(d.Matches) != len(want) {
		t.Fatalf("retained %d matches, want %d", len(d.Matches), len(want))
	}
	for i, id := range want {
		if d.Matches[i].Existing.UniqueID != id {
			t.Fatalf("match %d = %s, want %s", i, d.Matches[i].Existing.UniqueID, id)
		}
	}
}

func TestResolveDefaultScorerDuplicate(t *testing.T) {
	registry := []project.Project{
		{UniqueID: "ASST1", Name: "Brandon Road Lock and Dam Barrier", Description: "Invasive carp barrier on the Des Plaines River",
			Latitude: 41.50, Longitude: -88.10, Region: "IL", FundingSource: "BIL", FundingAmount: 1e6, Agency: "DOD"},
		{UniqueID: "ASST2", Name: "Rural broadband expansion", Latitude: 43.0, Longitude: -89.0, Region: "WI"},
	}
	r := newTestResolver(registry, nil)
	incoming := registry[0]
	incoming.UniqueID = ""
	incoming.Latitude += 0.0045
	d := r.Resolve(incoming)
	if d.Outcome != OutcomeDuplicate {
		t.Fatalf("Outcome = %s, want DUPLICATE", d.Outcome)
	}
	if top, _ := d.Top(); top.Existing.UniqueID != "ASST1" || top.Result.Score < 95 {
		t.Fatalf("top = %s score %d", top.Existing.UniqueID, top.Result.Score)
	}
}

func TestResolveDefaultScorerNew(t *testing.T) {
	registry := []project.Project{
		{UniqueID: "ASST1", Name: "Brandon Road Lock and Dam", Latitude: 41.50, Longitude: -88.10, Region: "IL"},
	}
	r := newTestResolver(registry, nil)
	d := r.Resolve(project.Project{Name: "Coastal wetland restoration", Latitude: 39.70, Longitude: -88.10, Region: "OH"})
	if d.Outcome != OutcomeNew {
		t.Fatalf("Outcome = %s, want NEW", d.Outcome)
	}
	if d.Via != candidates.SourceNone {
		t.Fatalf("Via = %s, want none", d.Via)
	}
}

func TestExplainListsBelowThreshold(t *testing.T) {
	r := newTestResolver(regionRegistry(3), fixedScores(map[string]int{"RA": 5, "RB": 55, "RC": 30}))
	exp := r.Explain(project.Project{Region: "PA"})
	if len(exp.Matches) != 3 {
		t.Fatalf("Explain returned %d matches, want 3", len(exp.Matches))
	}
	if exp.Matches[0].Existing.UniqueID != "RB" || exp.Outcome != OutcomeReview {
		t.Fatalf("unexpected explanation %+v", exp)
	}
}

func TestThresholdsValidate(t *testing.T) {
	if err := (Thresholds{Confidence: 80, Review: 40}).Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	err := Thresholds{Confidence: 30, Review: 40}.Validate()
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestClassifyPartitionsOutcomes(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("exactly one outcome; duplicate iff top >= confidence", prop.ForAll(
		func(scores []int, review, gap float64) bool {
			th := Thresholds{Review: review, Confidence: min(review+gap, 100)}
			var matches []Match
			for _, s := range scores {
				if float64(s) >= th.Review {
					matches = append(matches, Match{Result: similarity.Result{Score: s}})
				}
			}
			best := -1
			for _, m := range matches {
				best = max(best, m.Result.Score)
			}
			// Classify expects best-first input.
			for i := range matches {
				if matches[i].Result.Score == best {
					matches[0], matches[i] = matches[i], matches[0]
					break
				}
			}
			outcome := Classify(matches, th)
			hits := 0
			for _, o := range Outcomes {
				if o == outcome {
					hits++
				}
			}
			if hits != 1 {
				return false
			}
			if len(matches) == 0 {
				return outcome == OutcomeNew
			}
			return (outcome == OutcomeDuplicate) == (float64(best) >= th.Confidence)
		},
		gen.SliceOf(gen.IntRange(0, 100)),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
	))

	properties.TestingRun(t)
}
