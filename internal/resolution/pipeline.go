package resolution

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"projmerge/internal/logging"
	"projmerge/internal/project"
	"projmerge/internal/services"
)

// DefaultChunkSize is used when Options.ChunkSize is not positive.
const DefaultChunkSize = 100

// Adapter converts a raw row into a canonical project; false means skip.
type Adapter interface {
	Adapt(row project.Row) (project.Project, bool)
}

// Options configures pipeline fan-out.
type Options struct {
	Workers   int
	ChunkSize int
	Logger    *slog.Logger
}

// Pipeline resolves whole source files through a bounded worker pool.
type Pipeline struct {
	resolver  *Resolver
	workers   int
	chunkSize int
	logger    *slog.Logger
}

// NewPipeline wires a resolver into a pipeline.
func NewPipeline(resolver *Resolver, opts Options) *Pipeline {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Pipeline{
		resolver:  resolver,
		workers:   workers,
		chunkSize: chunkSize,
		logger:    logging.NewComponentLogger(opts.Logger, "resolution"),
	}
}

// Failure describes a record dropped because resolving it panicked.
type Failure struct {
	Record int
	Reason string
}

// Stats counts what happened to each row of a source file.
type Stats struct {
	Rows      int
	Skipped   int
	Failed    int
	New       int
	Duplicate int
	Review    int
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Rows += other.Rows
	s.Skipped += other.Skipped
	s.Failed += other.Failed
	s.New += other.New
	s.Duplicate += other.Duplicate
	s.Review += other.Review
}

func (s *Stats) count(outcome Outcome) {
	switch outcome {
	case OutcomeNew:
		s.New++
	case OutcomeDuplicate:
		s.Duplicate++
	case OutcomeReview:
		s.Review++
	}
}

// Batch is the resolved content of one source file, in input order.
type Batch struct {
	SourceFile string
	Decisions  []Decision
	Failures   []Failure
	Stats      Stats
}

// Filter returns the decisions with the given outcome, preserving order.
func (b Batch) Filter(outcome Outcome) []Decision {
	var out []Decision
	for _, d := range b.Decisions {
		if d.Outcome == outcome {
			out = append(out, d)
		}
	}
	return out
}

type chunkResult struct {
	decisions []Decision
	failures  []Failure
	stats     Stats
}

// Run adapts and resolves rows from sourceFile. Chunks are processed in
// parallel; results are concatenated in chunk order. Only cancellation of
// ctx makes Run fail.
func (p *Pipeline) Run(ctx context.Context, sourceFile string, rows []project.Row, adapter Adapter) (Batch, error) {
	name := filepath.Base(sourceFile)
	ctx = services.WithSourceFile(ctx, name)
	ctx = services.WithStage(ctx, "resolve")
	logger := logging.WithContext(ctx, p.logger)

	chunks := partition(len(rows), p.chunkSize)
	results := make([]chunkResult, len(chunks))
	sampler := logging.NewProgressSampler(10)
	var done atomic.Int32

	logger.Info("resolving source",
		logging.Int("rows", len(rows)),
		logging.Int("chunks", len(chunks)),
		logging.Int("workers", min(p.workers, max(len(chunks), 1))),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for idx, bounds := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			chunkCtx := services.WithChunk(gctx, idx)
			results[idx] = p.runChunk(chunkCtx, name, rows, bounds, adapter)
			finished := int(done.Add(1))
			if percent, ok := sampler.Completed(finished, len(chunks), ""); ok {
				logger.Debug("resolution progress", logging.Float64(logging.FieldProgressPercent, percent))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Batch{}, services.Wrap(services.ErrTransient, "resolution", "run", fmt.Sprintf("resolve %s", name), err)
	}

	batch := Batch{SourceFile: name}
	for _, res := range results {
		batch.Decisions = append(batch.Decisions, res.decisions...)
		batch.Failures = append(batch.Failures, res.failures...)
		batch.Stats.Add(res.stats)
	}
	batch.Stats.Rows = len(rows)
	return batch, nil
}

func (p *Pipeline) runChunk(ctx context.Context, sourceFile string, rows []project.Row, bounds [2]int, adapter Adapter) chunkResult {
	logger := logging.WithContext(ctx, p.logger)
	var res chunkResult
	for i := bounds[0]; i < bounds[1]; i++ {
		decision, ok, err := p.resolveRow(sourceFile, i, rows[i], adapter)
		switch {
		case err != nil:
			res.stats.Failed++
			res.failures = append(res.failures, Failure{Record: i, Reason: err.Error()})
			logging.WarnWithContext(logger, "record failed", "record_failed",
				logging.Int("record", i),
				logging.Error(err),
				logging.String(logging.FieldImpact, "record dropped from output"),
				logging.String(logging.FieldErrorHint, "inspect the source row for unexpected values"),
			)
		case !ok:
			res.stats.Skipped++
		default:
			res.stats.count(decision.Outcome)
			res.decisions = append(res.decisions, decision)
			logDecision(logger, decision)
		}
	}
	return res
}

func (p *Pipeline) resolveRow(sourceFile string, index int, row project.Row, adapter Adapter) (decision Decision, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic resolving record %d: %v", index, r)
			ok = false
		}
	}()
	proj, keep := adapter.Adapt(row)
	if !keep {
		return Decision{}, false, nil
	}
	if sourceFile != "" && sourceFile != "." {
		proj.SourceFile = sourceFile
	}
	decision = p.resolver.Resolve(proj)
	decision.Record = index
	return decision, true, nil
}

func logDecision(logger *slog.Logger, d Decision) {
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	attrs := []logging.Attr{
		logging.String("project", d.Project.Name),
		logging.String("via", string(d.Via)),
		logging.Int("matches", d.MatchCount),
	}
	reason := "no candidate reached the review threshold"
	if top, ok := d.Top(); ok {
		attrs = append(attrs,
			logging.String("top_match", top.Existing.UniqueID),
			logging.Int("score", top.Result.Score),
		)
		reason = fmt.Sprintf("top match %s scored %d", top.Existing.UniqueID, top.Result.Score)
	}
	attrs = append(attrs, logging.DecisionAttrs("classification", string(d.Outcome), reason)...)
	logger.Debug("record classified", logging.Args(attrs...)...)
}

// partition splits n rows into [start, end) chunk bounds.
func partition(n, size int) [][2]int {
	if n == 0 {
		return nil
	}
	chunks := make([][2]int, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		chunks = append(chunks, [2]int{start, min(start+size, n)})
	}
	return chunks
}
