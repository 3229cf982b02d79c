package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"projmerge/internal/config"
	"projmerge/internal/report"
	"projmerge/internal/resolution"
)

type mergeFlags struct {
	confidence   float64
	review       float64
	dryRun       bool
	workers      int
	chunkSize    int
	output       string
	reviewOutput string
	workbook     string
	ledger       bool
	noLock       bool
}

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var flags mergeFlags

	cmd := &cobra.Command{
		Use:   "merge <registry.csv> <source.csv>...",
		Short: "Merge incoming project feeds into the registry",
		Long: `Merge classifies every record of each source file against the registry.

NEW records are appended to the registry output, DUPLICATE records are
dropped, and REVIEW records are written to the review report with their best
matches. Source formats are detected from file names (bia, doe, doi, epa,
noaa, usbr).`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *base
			applyMergeFlags(cmd, &cfg, flags)
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			m := &merger{cfg: &cfg, logger: logger}
			outcome, err := m.run(cmd.Context(), mergeRequest{
				Registry: args[0],
				Sources:  args[1:],
				DryRun:   flags.dryRun,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printMergeOutcome(out, outcome, flags.dryRun, shouldColorize(out))
			return nil
		},
	}

	cmd.Flags().Float64Var(&flags.confidence, "confidence", 0, "Duplicate score threshold (0-100)")
	cmd.Flags().Float64Var(&flags.review, "review", 0, "Review score threshold (0-100)")
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "Classify without writing any output")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Worker goroutines (0 uses one per CPU)")
	cmd.Flags().IntVar(&flags.chunkSize, "chunk-size", 0, "Incoming rows per work unit")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Updated registry destination")
	cmd.Flags().StringVar(&flags.reviewOutput, "review-output", "", "Review report destination")
	cmd.Flags().StringVar(&flags.workbook, "workbook", "", "Also write the review report as an XLSX workbook")
	cmd.Flags().BoolVar(&flags.ledger, "ledger", false, "Record the run in the ledger")
	cmd.Flags().BoolVar(&flags.noLock, "no-lock", false, "Do not lock outputs while writing")
	return cmd
}

func applyMergeFlags(cmd *cobra.Command, cfg *config.Config, flags mergeFlags) {
	changed := cmd.Flags().Changed
	if changed("confidence") {
		cfg.Matching.ConfidenceThreshold = flags.confidence
	}
	if changed("review") {
		cfg.Matching.ReviewThreshold = flags.review
	}
	if changed("workers") {
		cfg.Pipeline.Workers = flags.workers
	}
	if changed("chunk-size") {
		cfg.Pipeline.ChunkSize = flags.chunkSize
	}
	if changed("output") {
		cfg.Output.RegistryOutput = expandOrKeep(flags.output)
	}
	if changed("review-output") {
		cfg.Output.ReviewOutput = expandOrKeep(flags.reviewOutput)
	}
	if changed("workbook") {
		cfg.Output.ReviewWorkbook = expandOrKeep(flags.workbook)
	}
	if changed("ledger") {
		cfg.Ledger.Enabled = flags.ledger
	}
	if flags.noLock {
		cfg.Output.LockOutputs = false
	}
}

func expandOrKeep(path string) string {
	if expanded, err := config.ExpandPath(path); err == nil {
		return expanded
	}
	return path
}

func printMergeOutcome(out io.Writer, o *mergeOutcome, dryRun, colorize bool) {
	fmt.Fprintln(out, report.RenderSummary(o.Files))

	newLabel := outcomeLabel(resolution.OutcomeNew, colorize)
	reviewLabel := outcomeLabel(resolution.OutcomeReview, colorize)
	if dryRun {
		fmt.Fprintf(out, "Dry run: would add %d %s project(s) to %d registry rows; %d record(s) need %s\n",
			o.Appended, newLabel, o.RegistryRows, o.Totals.Review, reviewLabel)
	} else {
		fmt.Fprintf(out, "Added %d %s project(s) to %d registry rows; %d record(s) need %s\n",
			o.Appended, newLabel, o.RegistryRows, o.Totals.Review, reviewLabel)
	}
	if o.Invalid > 0 {
		fmt.Fprintln(out, warnText(strconv.Itoa(o.Invalid)+" new record(s) dropped for missing or invalid coordinates", colorize))
	}
	for _, path := range o.Written {
		fmt.Fprintf(out, "Wrote %s\n", path)
	}
	if o.Backup != "" {
		fmt.Fprintf(out, "Previous registry output saved to %s\n", o.Backup)
	}
	if o.RunID != "" {
		fmt.Fprintf(out, "Ledger run %s\n", o.RunID)
	}
}
