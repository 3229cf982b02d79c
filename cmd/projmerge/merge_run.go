package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"projmerge/internal/adapters"
	"projmerge/internal/assembly"
	"projmerge/internal/candidates"
	"projmerge/internal/config"
	"projmerge/internal/fileutil"
	"projmerge/internal/ledger"
	"projmerge/internal/logging"
	"projmerge/internal/preflight"
	"projmerge/internal/project"
	"projmerge/internal/report"
	"projmerge/internal/resolution"
	"projmerge/internal/services"
	"projmerge/internal/tabular"
	"projmerge/internal/textutil"
)

type mergeRequest struct {
	Registry string
	Sources  []string
	DryRun   bool
}

type mergeOutcome struct {
	Files        []report.FileSummary
	Totals       resolution.Stats
	RegistryRows int
	Appended     int
	Invalid      int
	Written      []string
	Backup       string
	RunID        string
}

// merger runs one merge invocation. ids is nil outside tests.
type merger struct {
	cfg    *config.Config
	logger *slog.Logger
	ids    adapters.IDSource
}

// registryData is the loaded registry: raw rows for the merged view and
// canonical projects for matching, position-aligned.
type registryData struct {
	table    *tabular.Table
	projects []project.Project
}

func (m *merger) run(ctx context.Context, req mergeRequest) (*mergeOutcome, error) {
	cfg := m.cfg
	logger := logging.NewComponentLogger(m.logger, "merge")
	start := time.Now()

	thresholds := resolution.Thresholds{
		Confidence: cfg.Matching.ConfidenceThreshold,
		Review:     cfg.Matching.ReviewThreshold,
	}
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}

	if !req.DryRun {
		if err := cfg.EnsureOutputDirectories(); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "merge", "prepare outputs", "create output directories", err)
		}
	}
	checks := preflight.Run(cfg, preflight.Inputs{Registry: req.Registry, Sources: req.Sources, DryRun: req.DryRun})
	for _, res := range checks.Failed() {
		impact := "source file will be skipped"
		if res.Required {
			impact = "run aborted before any work"
		}
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", res.Name),
			logging.String("path", res.Path),
			logging.String("detail", res.Detail),
			logging.String(logging.FieldErrorHint, "verify the path exists and is accessible"),
			logging.String(logging.FieldImpact, impact),
		)
	}
	if err := checks.Err(); err != nil {
		return nil, err
	}

	registry, err := m.loadRegistry(ctx, req.Registry)
	if err != nil {
		return nil, err
	}
	index := candidates.Build(registry.projects, candidates.Options{
		SpatialHalfWidth: cfg.Index.SpatialHalfWidth,
		Analyzer:         textutil.Analyzer{Stem: cfg.Index.StemTerms},
	})
	logger.Info("registry indexed",
		logging.Int("registry_size", index.Len()),
		logging.Int("located", index.Located()),
		logging.Int("regions", index.Regions()),
	)

	resolver := resolution.NewResolver(registry.projects, index, thresholds, cfg.Matching.ReviewTopN)
	pipeline := resolution.NewPipeline(resolver, resolution.Options{
		Workers:   cfg.EffectiveWorkers(),
		ChunkSize: cfg.Pipeline.ChunkSize,
		Logger:    m.logger,
	})

	outcome := &mergeOutcome{RegistryRows: len(registry.table.Rows)}
	store, run, err := m.beginRun(ctx, req)
	if err != nil {
		return nil, err
	}
	if store != nil {
		defer store.Close()
		outcome.RunID = run.ID
		ctx = services.WithRunID(ctx, run.ID)
	}

	runErr := m.process(ctx, req, registry, pipeline, store, outcome)
	if store != nil {
		counts := ledger.CountsFromStats(outcome.Totals, outcome.Invalid)
		if err := store.FinishRun(context.WithoutCancel(ctx), run.ID, counts, runErr); err != nil {
			logging.WarnWithContext(logger, "ledger update failed", "ledger_finish_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the ledger database path"),
				logging.String(logging.FieldImpact, "run history is incomplete"),
			)
		}
	}
	if runErr != nil {
		return nil, runErr
	}

	logger.Info("merge complete",
		logging.Int("new", outcome.Totals.New),
		logging.Int("duplicate", outcome.Totals.Duplicate),
		logging.Int("review", outcome.Totals.Review),
		logging.Int("skipped", outcome.Totals.Skipped),
		logging.Int("failed", outcome.Totals.Failed),
		logging.Duration("duration", time.Since(start)),
	)
	return outcome, nil
}

func (m *merger) process(ctx context.Context, req mergeRequest, registry *registryData, pipeline *resolution.Pipeline, store *ledger.Store, outcome *mergeOutcome) error {
	var additions []project.Project
	var reviews []resolution.Decision
	for _, source := range req.Sources {
		batch, summary, err := m.resolveSource(ctx, pipeline, source)
		if err != nil {
			return err
		}
		outcome.Files = append(outcome.Files, summary)
		if summary.Error != "" {
			continue
		}
		outcome.Totals.Add(batch.Stats)
		for _, d := range batch.Filter(resolution.OutcomeNew) {
			additions = append(additions, d.Project)
		}
		reviews = append(reviews, batch.Filter(resolution.OutcomeReview)...)
		if store != nil {
			if err := store.RecordDecisions(ctx, outcome.RunID, batch.SourceFile, batch.Decisions); err != nil {
				return fmt.Errorf("record decisions for %s: %w", batch.SourceFile, err)
			}
		}
	}

	merged := assembly.Merge(registry.table.Header, registry.table.Rows, additions, assembly.Options{
		IDPrefixes: m.cfg.Output.RecognizedIDPrefixes,
		IDs:        m.ids,
	})
	outcome.Appended = len(merged.Appended)
	outcome.Invalid = merged.Invalid
	if merged.Invalid > 0 {
		logging.WarnWithContext(m.logger, "new records dropped", "invalid_location",
			logging.Int("dropped", merged.Invalid),
			logging.String(logging.FieldErrorHint, "supply latitude and longitude within range"),
			logging.String(logging.FieldImpact, "records not added to the registry"),
		)
	}

	if req.DryRun {
		return nil
	}
	return m.writeOutputs(merged, reviews, outcome)
}

func (m *merger) loadRegistry(ctx context.Context, path string) (*registryData, error) {
	table, err := tabular.LoadMode(path, tabular.Verbatim)
	if err != nil {
		return nil, err
	}
	adapter, err := adapters.New(adapters.FormatMain, nil, m.ids)
	if err != nil {
		return nil, err
	}
	projects := make([]project.Project, 0, len(table.Rows))
	for _, row := range table.Rows {
		p, _ := adapter.Adapt(row)
		projects = append(projects, p)
	}
	logger := logging.WithContext(services.WithSourceFile(ctx, filepath.Base(path)), m.logger)
	logger.Info("registry loaded", logging.Int("rows", len(table.Rows)))
	if len(table.Generated) > 0 {
		logging.WarnWithContext(logger, "registry rows carry values beyond the header", "registry_extra_values",
			logging.String("columns", strings.Join(table.Generated, ", ")),
			logging.String(logging.FieldErrorHint, "check the registry for stray delimiters"),
			logging.String(logging.FieldImpact, "extra values are kept under generated columns"),
		)
	}
	return &registryData{table: table, projects: projects}, nil
}

// resolveSource loads and resolves one source file. File-level problems are
// reported in the summary and skip the file; only cancellation is an error.
func (m *merger) resolveSource(ctx context.Context, pipeline *resolution.Pipeline, path string) (resolution.Batch, report.FileSummary, error) {
	name := filepath.Base(path)
	summary := report.FileSummary{File: name}
	logger := logging.WithContext(services.WithSourceFile(ctx, name), logging.NewComponentLogger(m.logger, "merge"))

	skip := func(reason string, err error) (resolution.Batch, report.FileSummary, error) {
		summary.Error = reason
		logging.WarnWithContext(logger, "source file skipped", "source_skipped",
			logging.String("reason", reason),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the file name carries a format tag and the file is readable"),
			logging.String(logging.FieldImpact, "no records from this file were merged"),
		)
		return resolution.Batch{}, summary, nil
	}

	format, err := adapters.DetectFormat(path)
	if err != nil {
		return skip("unknown format", err)
	}
	adapter, err := adapters.New(format, nil, m.ids)
	if err != nil {
		return skip("unsupported format", err)
	}
	table, err := tabular.Load(path)
	if err != nil {
		return skip("unreadable", err)
	}
	summary.Malformed = table.Malformed
	if table.Transcoded {
		logger.Debug("decoded as Windows-1252")
	}

	batch, err := pipeline.Run(ctx, name, table.Rows, adapter)
	if err != nil {
		return resolution.Batch{}, summary, err
	}
	summary.Rows = batch.Stats.Rows
	summary.Skipped = batch.Stats.Skipped
	summary.Failed = batch.Stats.Failed
	summary.New = batch.Stats.New
	summary.Duplicates = batch.Stats.Duplicate
	summary.Review = batch.Stats.Review
	logger.Info("source resolved",
		logging.String("format", string(format)),
		logging.Int("rows", batch.Stats.Rows),
		logging.Int("new", batch.Stats.New),
		logging.Int("duplicate", batch.Stats.Duplicate),
		logging.Int("review", batch.Stats.Review),
		logging.Int("skipped", batch.Stats.Skipped),
		logging.Int("failed", batch.Stats.Failed),
		logging.Int("malformed", table.Malformed),
	)
	return batch, summary, nil
}

func (m *merger) writeOutputs(merged assembly.Result, reviews []resolution.Decision, outcome *mergeOutcome) error {
	out := m.cfg.Output

	registryPath := out.RegistryOutput
	err := report.Locked(registryPath, out.LockOutputs, func() error {
		backup, ok, err := fileutil.Backup(registryPath)
		if err != nil {
			return err
		}
		if ok {
			outcome.Backup = backup
		}
		return tabular.Write(registryPath, merged.Header, merged.Rows)
	})
	if err != nil {
		return fmt.Errorf("write registry output: %w", err)
	}
	outcome.Written = append(outcome.Written, registryPath)

	if err := report.Locked(out.ReviewOutput, out.LockOutputs, func() error {
		return report.WriteReviewCSV(out.ReviewOutput, reviews)
	}); err != nil {
		return fmt.Errorf("write review output: %w", err)
	}
	outcome.Written = append(outcome.Written, out.ReviewOutput)

	if out.ReviewWorkbook != "" {
		if err := report.Locked(out.ReviewWorkbook, out.LockOutputs, func() error {
			return report.WriteReviewWorkbook(out.ReviewWorkbook, reviews)
		}); err != nil {
			return fmt.Errorf("write review workbook: %w", err)
		}
		outcome.Written = append(outcome.Written, out.ReviewWorkbook)
	}
	return nil
}

// beginRun opens the ledger when enabled. Both return values are nil when
// the ledger is off.
func (m *merger) beginRun(ctx context.Context, req mergeRequest) (*ledger.Store, *ledger.Run, error) {
	if !m.cfg.Ledger.Enabled {
		return nil, nil, nil
	}
	store, err := ledger.Open(m.cfg.Ledger.Path)
	if err != nil {
		return nil, nil, err
	}
	sources := make([]string, 0, len(req.Sources))
	for _, s := range req.Sources {
		sources = append(sources, filepath.Base(s))
	}
	run, err := store.BeginRun(ctx, ledger.Run{
		Registry:   req.Registry,
		Sources:    sources,
		Confidence: m.cfg.Matching.ConfidenceThreshold,
		Review:     m.cfg.Matching.ReviewThreshold,
		DryRun:     req.DryRun,
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return store, run, nil
}
