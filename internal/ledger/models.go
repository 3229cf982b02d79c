package ledger

import (
	"time"

	"projmerge/internal/resolution"
)

// RunStatus tracks a run's lifecycle.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Counts aggregates outcome totals for a run.
type Counts struct {
	Rows      int
	Skipped   int
	Failed    int
	New       int
	Duplicate int
	Review    int
	// Invalid counts NEW records dropped at assembly for bad coordinates.
	Invalid int
}

// CountsFromStats converts pipeline stats.
func CountsFromStats(s resolution.Stats, invalid int) Counts {
	return Counts{
		Rows:      s.Rows,
		Skipped:   s.Skipped,
		Failed:    s.Failed,
		New:       s.New,
		Duplicate: s.Duplicate,
		Review:    s.Review,
		Invalid:   invalid,
	}
}

// Run is one recorded merge invocation.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     RunStatus
	Registry   string
	Sources    []string
	Confidence float64
	Review     float64
	DryRun     bool
	Counts     Counts
	Error      string
}

// DecisionRecord is one stored classification.
type DecisionRecord struct {
	RunID       string
	SourceFile  string
	Record      int
	Outcome     resolution.Outcome
	Via         string
	ProjectName string
	MatchCount  int
	TopMatchID  string
	TopScore    *int
	Reasons     string
}
