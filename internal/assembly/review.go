package assembly

import (
	"fmt"
	"strconv"
	"strings"

	"projmerge/internal/project"
	"projmerge/internal/resolution"
)

// ReviewStatus marks every review report row.
const ReviewStatus = "needs_review"

// condensedMatches bounds the all_matches column.
const condensedMatches = 5

// ReviewHeader is the review report column order.
var ReviewHeader = []string{
	"status",
	"new_project_name",
	"new_project_desc",
	"new_latitude",
	"new_longitude",
	"new_state",
	"new_city",
	"new_funding",
	"new_source",
	"match_count",
	"top_match_id",
	"top_match_name",
	"top_match_score",
	"top_match_reasons",
	"all_matches",
}

// ReviewRow renders one REVIEW decision.
func ReviewRow(d resolution.Decision) project.Row {
	p := d.Project
	row := project.Row{
		"status":            ReviewStatus,
		"new_project_name":  p.Name,
		"new_project_desc":  p.Description,
		"new_latitude":      FormatFloat(p.Latitude),
		"new_longitude":     FormatFloat(p.Longitude),
		"new_state":         p.Region,
		"new_city":          p.City,
		"new_funding":       FormatFloat(p.FundingAmount),
		"new_source":        p.SourceFile,
		"match_count":       strconv.Itoa(d.MatchCount),
		"top_match_id":      "",
		"top_match_name":    "",
		"top_match_score":   "",
		"top_match_reasons": "",
		"all_matches":       "",
	}
	top, ok := d.Top()
	if !ok {
		return row
	}
	row["top_match_id"] = top.Existing.UniqueID
	row["top_match_name"] = top.Existing.Name
	row["top_match_score"] = strconv.Itoa(top.Result.Score)
	row["top_match_reasons"] = strings.Join(top.Result.Reasons, "; ")
	row["all_matches"] = CondensedMatches(d.Matches)
	return row
}

// CondensedMatches renders up to five matches as "id (score%)".
func CondensedMatches(matches []resolution.Match) string {
	n := min(len(matches), condensedMatches)
	parts := make([]string, 0, n)
	for _, m := range matches[:n] {
		parts = append(parts, fmt.Sprintf("%s (%.1f%%)", m.Existing.UniqueID, float64(m.Result.Score)))
	}
	return strings.Join(parts, "; ")
}

// ReviewRows renders REVIEW decisions in order; other outcomes are ignored.
func ReviewRows(decisions []resolution.Decision) []project.Row {
	rows := make([]project.Row, 0, len(decisions))
	for _, d := range decisions {
		if d.Outcome != resolution.OutcomeReview {
			continue
		}
		rows = append(rows, ReviewRow(d))
	}
	return rows
}
