package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"projmerge/internal/ledger"
	"projmerge/internal/report"
	"projmerge/internal/resolution"
	"projmerge/internal/services"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var outcomes []string

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded runs or show the decisions of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.Ledger.Path
			if !fileExists(path) {
				return services.Wrap(services.ErrNotFound, "history", "open ledger",
					fmt.Sprintf("no ledger at %s; run merge with --ledger first", path), nil)
			}
			store, err := ledger.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				printRuns(out, runs)
				return nil
			}

			filter, err := parseOutcomes(outcomes)
			if err != nil {
				return err
			}
			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			records, err := store.Decisions(cmd.Context(), run.ID, filter...)
			if err != nil {
				return err
			}
			printRun(out, run, records, shouldColorize(out))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum runs to list (0 lists all)")
	cmd.Flags().StringSliceVar(&outcomes, "outcome", nil, "Only show decisions with these outcomes (new, duplicate, review)")
	return cmd
}

func parseOutcomes(values []string) ([]resolution.Outcome, error) {
	var out []resolution.Outcome
	for _, v := range values {
		want := resolution.Outcome(strings.ToUpper(strings.TrimSpace(v)))
		found := false
		for _, o := range resolution.Outcomes {
			if o == want {
				out = append(out, o)
				found = true
				break
			}
		}
		if !found {
			return nil, services.Wrap(services.ErrValidation, "history", "parse outcome", fmt.Sprintf("unknown outcome %q", v), nil)
		}
	}
	return out, nil
}

func printRuns(out io.Writer, runs []*ledger.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return
	}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		status := string(run.Status)
		if run.DryRun {
			status += " (dry run)"
		}
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format(time.DateTime),
			status,
			strings.Join(run.Sources, ", "),
			strconv.Itoa(run.Counts.Rows),
			strconv.Itoa(run.Counts.New),
			strconv.Itoa(run.Counts.Duplicate),
			strconv.Itoa(run.Counts.Review),
		})
	}
	headers := []string{"Run", "Started", "Status", "Sources", "Rows", "New", "Duplicates", "Review"}
	aligns := []report.Alignment{report.AlignLeft, report.AlignLeft, report.AlignLeft, report.AlignLeft, report.AlignRight, report.AlignRight, report.AlignRight, report.AlignRight}
	fmt.Fprintln(out, report.RenderTable(headers, rows, aligns))
}

func printRun(out io.Writer, run *ledger.Run, records []ledger.DecisionRecord, colorize bool) {
	fmt.Fprintf(out, "Run:        %s\n", run.ID)
	fmt.Fprintf(out, "Status:     %s\n", run.Status)
	fmt.Fprintf(out, "Registry:   %s\n", run.Registry)
	fmt.Fprintf(out, "Thresholds: confidence %s, review %s\n",
		strconv.FormatFloat(run.Confidence, 'f', -1, 64), strconv.FormatFloat(run.Review, 'f', -1, 64))
	fmt.Fprintf(out, "Dry run:    %s\n", yesNo(run.DryRun))
	if run.Error != "" {
		fmt.Fprintf(out, "Error:      %s\n", warnText(run.Error, colorize))
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No decisions recorded")
		return
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		score := "-"
		if r.TopScore != nil {
			score = strconv.Itoa(*r.TopScore)
		}
		rows = append(rows, []string{
			r.SourceFile,
			strconv.Itoa(r.Record + 1),
			outcomeLabel(r.Outcome, colorize),
			r.ProjectName,
			r.TopMatchID,
			score,
			r.Via,
		})
	}
	headers := []string{"File", "Row", "Outcome", "Project", "Top Match", "Score", "Via"}
	aligns := []report.Alignment{report.AlignLeft, report.AlignRight, report.AlignLeft, report.AlignLeft, report.AlignLeft, report.AlignRight, report.AlignLeft}
	fmt.Fprintln(out, report.RenderTable(headers, rows, aligns))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
