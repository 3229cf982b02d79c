package resolution

import (
	"fmt"
	"sort"

	"projmerge/internal/candidates"
	"projmerge/internal/project"
	"projmerge/internal/services"
	"projmerge/internal/similarity"
)

// Thresholds holds the 0-100 cutoffs used for classification.
type Thresholds struct {
	Confidence float64
	Review     float64
}

// Validate reports threshold combinations that cannot partition outcomes.
func (t Thresholds) Validate() error {
	if t.Review < 0 || t.Confidence > similarity.MaxScore || t.Review > t.Confidence {
		return services.Wrap(services.ErrConfiguration, "resolution", "thresholds",
			fmt.Sprintf("need 0 <= review (%.1f) <= confidence (%.1f) <= %d", t.Review, t.Confidence, similarity.MaxScore), nil)
	}
	return nil
}

// Resolver classifies single projects. It holds only read-only state and is
// safe for concurrent use.
type Resolver struct {
	Registry   []project.Project
	Index      *candidates.Index
	Score      similarity.Func
	Thresholds Thresholds
	TopN       int
}

// NewResolver builds a resolver using the default scorer.
func NewResolver(registry []project.Project, index *candidates.Index, thresholds Thresholds, topN int) *Resolver {
	return &Resolver{
		Registry:   registry,
		Index:      index,
		Score:      similarity.Score,
		Thresholds: thresholds,
		TopN:       topN,
	}
}

// Resolve scores p against its candidates and classifies it.
func (r *Resolver) Resolve(p project.Project) Decision {
	sel := r.Index.Candidates(p, r.Thresholds.Review)
	scored := r.score(p, sel.Positions)

	matches := scored[:0]
	for _, m := range scored {
		if float64(m.Result.Score) >= r.Thresholds.Review {
			matches = append(matches, m)
		}
	}

	decision := Decision{
		Project:    p,
		Via:        sel.Via,
		Considered: len(sel.Positions),
		MatchCount: len(matches),
		Outcome:    Classify(matches, r.Thresholds),
	}
	switch decision.Outcome {
	case OutcomeDuplicate:
		decision.Matches = matches[:1]
	case OutcomeReview:
		n := r.TopN
		if n <= 0 || n > len(matches) {
			n = len(matches)
		}
		decision.Matches = matches[:n]
	}
	return decision
}

// Explanation lists every candidate the index selected with its score.
type Explanation struct {
	Selection candidates.Selection
	Matches   []Match
	Outcome   Outcome
}

// Explain scores every selected candidate without applying the review cutoff.
func (r *Resolver) Explain(p project.Project) Explanation {
	sel := r.Index.Candidates(p, r.Thresholds.Review)
	matches := r.score(p, sel.Positions)
	qualified := make([]Match, 0, len(matches))
	for _, m := range matches {
		if float64(m.Result.Score) >= r.Thresholds.Review {
			qualified = append(qualified, m)
		}
	}
	return Explanation{
		Selection: sel,
		Matches:   matches,
		Outcome:   Classify(qualified, r.Thresholds),
	}
}

// score returns matches sorted by score descending; ties keep registry order
// because positions arrive ascending and the sort is stable.
func (r *Resolver) score(p project.Project, positions []int) []Match {
	scorer := r.Score
	if scorer == nil {
		scorer = similarity.Score
	}
	matches := make([]Match, 0, len(positions))
	for _, pos := range positions {
		existing := r.Registry[pos]
		matches = append(matches, Match{Position: pos, Existing: existing, Result: scorer(p, existing)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Result.Score > matches[j].Result.Score
	})
	return matches
}

// Classify maps review-qualified matches, best first, to an outcome.
func Classify(matches []Match, t Thresholds) Outcome {
	if len(matches) == 0 {
		return OutcomeNew
	}
	if float64(matches[0].Result.Score) >= t.Confidence {
		return OutcomeDuplicate
	}
	return OutcomeReview
}
