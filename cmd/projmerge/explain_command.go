package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"projmerge/internal/adapters"
	"projmerge/internal/candidates"
	"projmerge/internal/config"
	"projmerge/internal/project"
	"projmerge/internal/report"
	"projmerge/internal/resolution"
	"projmerge/internal/services"
	"projmerge/internal/tabular"
	"projmerge/internal/textutil"
)

type explainFlags struct {
	source      string
	row         int
	name        string
	description string
	latitude    string
	longitude   string
	state       string
	city        string
	agency      string
	funding     string
	fundingType string
}

func newExplainCommand(ctx *commandContext) *cobra.Command {
	var flags explainFlags

	cmd := &cobra.Command{
		Use:   "explain <registry.csv>",
		Short: "Show how one record scores against registry candidates",
		Long: `Explain scores one incoming record against every candidate the index
selects, including candidates below the review threshold.

Describe the record with --name, --lat, --lon and the other field flags, or
pick a data row from a source file with --source and --row (1-based).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			incoming, err := flags.project()
			if err != nil {
				return err
			}
			explanation, err := explain(cmd.Context(), cfg, args[0], incoming)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printExplanation(out, incoming, explanation, shouldColorize(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.source, "source", "", "Source file holding the record")
	cmd.Flags().IntVar(&flags.row, "row", 1, "Data row in --source (1-based)")
	cmd.Flags().StringVar(&flags.name, "name", "", "Project name")
	cmd.Flags().StringVar(&flags.description, "description", "", "Project description")
	cmd.Flags().StringVar(&flags.latitude, "lat", "", "Latitude in decimal degrees")
	cmd.Flags().StringVar(&flags.longitude, "lon", "", "Longitude in decimal degrees")
	cmd.Flags().StringVar(&flags.state, "state", "", "State or territory")
	cmd.Flags().StringVar(&flags.city, "city", "", "City")
	cmd.Flags().StringVar(&flags.agency, "agency", "", "Agency name")
	cmd.Flags().StringVar(&flags.funding, "funding", "", "Funding amount, e.g. $1.5M")
	cmd.Flags().StringVar(&flags.fundingType, "funding-source", "", "Funding source, e.g. BIL or IRA")
	return cmd
}

func (f explainFlags) project() (project.Project, error) {
	if strings.TrimSpace(f.source) != "" {
		return projectFromSource(f.source, f.row)
	}
	if strings.TrimSpace(f.name) == "" && strings.TrimSpace(f.description) == "" {
		return project.Project{}, services.Wrap(services.ErrValidation, "explain", "read flags", "set --source or at least --name", nil)
	}
	return project.Project{
		Name:          f.name,
		Description:   f.description,
		Latitude:      project.ParseCoordinate(f.latitude),
		Longitude:     project.ParseCoordinate(f.longitude),
		Region:        project.NormalizeRegion(f.state),
		City:          f.city,
		Agency:        f.agency,
		FundingAmount: project.ParseFunding(f.funding),
		FundingSource: f.fundingType,
		SourceFile:    "explain",
	}, nil
}

func projectFromSource(path string, row int) (project.Project, error) {
	format, err := adapters.DetectFormat(path)
	if err != nil {
		return project.Project{}, err
	}
	table, err := tabular.Load(path)
	if err != nil {
		return project.Project{}, err
	}
	if row < 1 || row > len(table.Rows) {
		return project.Project{}, services.Wrap(services.ErrValidation, "explain", "select row",
			fmt.Sprintf("row %d out of range (file has %d data rows)", row, len(table.Rows)), nil)
	}
	adapter, err := adapters.New(format, nil, nil)
	if err != nil {
		return project.Project{}, err
	}
	p, ok := adapter.Adapt(table.Rows[row-1])
	if !ok {
		return project.Project{}, services.Wrap(services.ErrValidation, "explain", "adapt row",
			fmt.Sprintf("row %d is skipped by the %s adapter", row, format), nil)
	}
	p.SourceFile = filepath.Base(path)
	return p, nil
}

func explain(ctx context.Context, cfg *config.Config, registryPath string, incoming project.Project) (resolution.Explanation, error) {
	if err := ctx.Err(); err != nil {
		return resolution.Explanation{}, err
	}
	table, err := tabular.LoadMode(registryPath, tabular.Verbatim)
	if err != nil {
		return resolution.Explanation{}, err
	}
	adapter, err := adapters.New(adapters.FormatMain, nil, nil)
	if err != nil {
		return resolution.Explanation{}, err
	}
	registry := make([]project.Project, 0, len(table.Rows))
	for _, row := range table.Rows {
		p, _ := adapter.Adapt(row)
		registry = append(registry, p)
	}
	index := candidates.Build(registry, candidates.Options{
		SpatialHalfWidth: cfg.Index.SpatialHalfWidth,
		Analyzer:         textutil.Analyzer{Stem: cfg.Index.StemTerms},
	})
	resolver := resolution.NewResolver(registry, index, resolution.Thresholds{
		Confidence: cfg.Matching.ConfidenceThreshold,
		Review:     cfg.Matching.ReviewThreshold,
	}, cfg.Matching.ReviewTopN)
	return resolver.Explain(incoming), nil
}

func printExplanation(out io.Writer, incoming project.Project, e resolution.Explanation, colorize bool) {
	fmt.Fprintf(out, "Record:     %s\n", incoming.Name)
	if incoming.HasLocation() {
		fmt.Fprintf(out, "Location:   %.5f, %.5f\n", incoming.Latitude, incoming.Longitude)
	}
	if incoming.Region != "" {
		fmt.Fprintf(out, "Region:     %s\n", incoming.Region)
	}
	fmt.Fprintf(out, "Candidates: %d via %s\n", len(e.Selection.Positions), e.Selection.Via)
	fmt.Fprintf(out, "Outcome:    %s\n", outcomeLabel(e.Outcome, colorize))
	if len(e.Matches) == 0 {
		return
	}

	rows := make([][]string, 0, len(e.Matches))
	for i, m := range e.Matches {
		distance := "-"
		if m.Result.DistanceKnown {
			distance = strconv.FormatFloat(m.Result.DistanceKM, 'f', 1, 64)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			m.Existing.UniqueID,
			m.Existing.Name,
			strconv.Itoa(m.Result.Score),
			distance,
			strings.Join(m.Result.Reasons, "; "),
		})
	}
	headers := []string{"Rank", "Registry ID", "Name", "Score", "Distance km", "Reasons"}
	aligns := []report.Alignment{report.AlignRight, report.AlignLeft, report.AlignLeft, report.AlignRight, report.AlignRight, report.AlignLeft}
	fmt.Fprintln(out, report.RenderTable(headers, rows, aligns))
}
