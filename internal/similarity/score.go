package similarity

import (
	"fmt"

	"projmerge/internal/project"
	"projmerge/internal/textutil"
)

// MaxScore is the ceiling of a combined score.
const MaxScore = 100

// Result is the outcome of comparing two projects.
type Result struct {
	Score         int
	Reasons       []string
	DistanceKM    float64
	DistanceKnown bool
}

// Func scores an incoming project against a registry project.
type Func func(incoming, existing project.Project) Result

type tier struct {
	above  float64
	points int
	label  string
}

var (
	distanceTiers = []tier{
		{1, 40, "<1km"},
		{10, 30, "<10km"},
		{50, 15, "<50km"},
		{100, 5, "<100km"},
	}
	nameTiers = []tier{
		{80, 30, "high"},
		{50, 20, "medium"},
		{30, 10, "low"},
	}
	descriptionTiers = []tier{
		{70, 15, "high"},
		{40, 10, "medium"},
		{20, 5, "low"},
	}
)

// Score compares a and b.
func Score(a, b project.Project) Result {
	var res Result
	add := func(points int, reason string) {
		res.Score += points
		res.Reasons = append(res.Reasons, reason)
	}

	if km, ok := Distance(a, b); ok {
		res.DistanceKM, res.DistanceKnown = km, true
		for _, t := range distanceTiers {
			if km < t.above {
				add(t.points, fmt.Sprintf("Geographic distance %s (%.2fkm)", t.label, km))
				break
			}
		}
	}

	if a.Region != "" && a.Region == b.Region {
		add(10, fmt.Sprintf("State match: %s", a.Region))
	}

	if a.FundingSource != "" && a.FundingSource == b.FundingSource {
		add(5, fmt.Sprintf("Funding source match: %s", a.FundingSource))
	}

	if sim := textutil.TextSimilarity(a.Name, b.Name); sim > 0 {
		for _, t := range nameTiers {
			if sim > t.above {
				add(t.points, fmt.Sprintf("Project name %s similarity (%.1f%%)", t.label, sim))
				break
			}
		}
	}

	if sim := textutil.TextSimilarity(a.Description, b.Description); sim > 0 {
		for _, t := range descriptionTiers {
			if sim > t.above {
				add(t.points, fmt.Sprintf("Project description %s similarity (%.1f%%)", t.label, sim))
				break
			}
		}
	}

	if a.FundingAmount > 0 && b.FundingAmount > 0 {
		lo, hi := a.FundingAmount, b.FundingAmount
		if lo > hi {
			lo, hi = hi, lo
		}
		if ratio := lo / hi; ratio > 0.9 {
			add(5, fmt.Sprintf("Funding amount similar (ratio: %.2f)", ratio))
		}
	}

	if a.Agency != "" && a.Agency == b.Agency {
		add(5, fmt.Sprintf("Agency match: %s", a.Agency))
	}

	if res.Score > MaxScore {
		res.Score = MaxScore
	}
	return res
}
