package resolution

import (
	"projmerge/internal/candidates"
	"projmerge/internal/project"
	"projmerge/internal/similarity"
)

// Outcome is the terminal classification of an incoming project.
type Outcome string

const (
	OutcomeNew       Outcome = "NEW"
	OutcomeDuplicate Outcome = "DUPLICATE"
	OutcomeReview    Outcome = "REVIEW"
)

// Outcomes lists every classification in display order.
var Outcomes = []Outcome{OutcomeNew, OutcomeDuplicate, OutcomeReview}

// Match pairs a registry entry with its score against the incoming project.
type Match struct {
	Position int
	Existing project.Project
	Result   similarity.Result
}

// Decision records how one incoming row was classified.
type Decision struct {
	// Record is the 0-based data row index within the source file.
	Record  int
	Project project.Project
	Outcome Outcome
	Via     candidates.Source
	// Considered counts candidates scored, before the review cutoff.
	Considered int
	// MatchCount counts candidates at or above the review threshold.
	MatchCount int
	// Matches holds the retained candidates, best first. Review decisions keep
	// up to the configured top N; duplicates keep the winning match only.
	Matches []Match
}

// Top returns the best retained match.
func (d Decision) Top() (Match, bool) {
	if len(d.Matches) == 0 {
		return Match{}, false
	}
	return d.Matches[0], true
}
