package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"projmerge/internal/resolution"
	"projmerge/internal/services"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the run ledger backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes or connects to the ledger database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "ledger", "open", "ensure directory", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun inserts a running run and returns it with ID and start time set.
func (s *Store) BeginRun(ctx context.Context, run Run) (*Run, error) {
	run.ID = uuid.NewString()
	run.StartedAt = s.now().UTC()
	run.Status = RunRunning
	sources, err := json.Marshal(run.Sources)
	if err != nil {
		return nil, fmt.Errorf("encode sources: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, status, registry_path, sources_json,
            confidence_threshold, review_threshold, dry_run)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.Format(timeLayout),
		run.Status,
		run.Registry,
		string(sources),
		run.Confidence,
		run.Review,
		boolToInt(run.DryRun),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return &run, nil
}

// RecordDecisions stores the decisions of one source file in a single transaction.
func (s *Store) RecordDecisions(ctx context.Context, runID, sourceFile string, decisions []resolution.Decision) error {
	if len(decisions) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin decisions tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO decisions (run_id, source_file, record_index, outcome, via,
            project_name, match_count, top_match_id, top_score, reasons)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare decision insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range decisions {
		var topID, topScore, reasons any
		if top, ok := d.Top(); ok {
			topID = nullableString(top.Existing.UniqueID)
			topScore = top.Result.Score
			reasons = nullableString(strings.Join(top.Result.Reasons, "; "))
		}
		if _, err := stmt.ExecContext(ctx,
			runID, sourceFile, d.Record, d.Outcome, string(d.Via),
			nullableString(d.Project.Name), d.MatchCount, topID, topScore, reasons,
		); err != nil {
			return fmt.Errorf("insert decision %d: %w", d.Record, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit decisions: %w", err)
	}
	return nil
}

// FinishRun stamps the run's final status and counts. A non-nil runErr marks
// the run failed.
func (s *Store) FinishRun(ctx context.Context, runID string, counts Counts, runErr error) error {
	status := RunCompleted
	var message any
	if runErr != nil {
		status = RunFailed
		message = runErr.Error()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, rows_total = ?, skipped = ?, failed = ?,
            new_count = ?, duplicate_count = ?, review_count = ?, invalid_count = ?, error_message = ?
        WHERE id = ?`,
		s.now().UTC().Format(timeLayout),
		status,
		counts.Rows, counts.Skipped, counts.Failed,
		counts.New, counts.Duplicate, counts.Review, counts.Invalid,
		message,
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return services.Wrap(services.ErrNotFound, "ledger", "finish run", runID, nil)
	}
	return nil
}

const runColumns = `id, started_at, finished_at, status, registry_path, sources_json,
    confidence_threshold, review_threshold, dry_run, rows_total, skipped, failed,
    new_count, duplicate_count, review_count, invalid_count, error_message`

// ListRuns returns the most recent runs first. A non-positive limit returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches a run by ID or unique ID prefix.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, services.Wrap(services.ErrValidation, "ledger", "get run", "run id is required", nil)
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ORDER BY started_at DESC LIMIT 2`, id, id+"%")
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, run := range runs {
		if run.ID == id {
			return run, nil
		}
	}
	switch len(runs) {
	case 0:
		return nil, services.Wrap(services.ErrNotFound, "ledger", "get run", fmt.Sprintf("no run %q", id), nil)
	case 1:
		return runs[0], nil
	default:
		return nil, services.Wrap(services.ErrValidation, "ledger", "get run", fmt.Sprintf("run id prefix %q is ambiguous", id), nil)
	}
}

// Decisions returns a run's decisions in file and record order, optionally
// restricted to the given outcomes.
func (s *Store) Decisions(ctx context.Context, runID string, outcomes ...resolution.Outcome) ([]DecisionRecord, error) {
	query := `SELECT run_id, source_file, record_index, outcome, via, project_name,
            match_count, top_match_id, top_score, reasons
        FROM decisions WHERE run_id = ?`
	args := []any{runID}
	if len(outcomes) > 0 {
		query += ` AND outcome IN (` + makePlaceholders(len(outcomes)) + `)`
		for _, o := range outcomes {
			args = append(args, o)
		}
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var records []DecisionRecord
	for rows.Next() {
		var (
			rec                  DecisionRecord
			outcome              string
			name, topID, reasons sql.NullString
			topScore             sql.NullInt64
		)
		if err := rows.Scan(&rec.RunID, &rec.SourceFile, &rec.Record, &outcome, &rec.Via, &name,
			&rec.MatchCount, &topID, &topScore, &reasons); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		rec.Outcome = resolution.Outcome(outcome)
		rec.ProjectName = name.String
		rec.TopMatchID = topID.String
		rec.Reasons = reasons.String
		if topScore.Valid {
			score := int(topScore.Int64)
			rec.TopScore = &score
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		started     string
		finished    sql.NullString
		status      string
		sourcesJSON string
		dryRun      int
		message     sql.NullString
	)
	if err := scanner.Scan(
		&run.ID, &started, &finished, &status, &run.Registry, &sourcesJSON,
		&run.Confidence, &run.Review, &dryRun,
		&run.Counts.Rows, &run.Counts.Skipped, &run.Counts.Failed,
		&run.Counts.New, &run.Counts.Duplicate, &run.Counts.Review, &run.Counts.Invalid,
		&message,
	); err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.Status = RunStatus(status)
	run.DryRun = dryRun != 0
	run.Error = message.String
	if t, err := parseTimeString(started); err == nil {
		run.StartedAt = t
	}
	if finished.Valid {
		if t, err := parseTimeString(finished.String); err == nil {
			run.FinishedAt = &t
		}
	}
	if err := json.Unmarshal([]byte(sourcesJSON), &run.Sources); err != nil {
		return nil, fmt.Errorf("decode sources for run %s: %w", run.ID, err)
	}
	return &run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(timeLayout, value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", count), ",")
}
