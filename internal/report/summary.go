package report

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Alignment selects a column's horizontal alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// RenderTable renders rows in the rounded style used across the CLI.
func RenderTable(headers []string, rows [][]string, aligns []Alignment) string {
	return render(headers, rows, nil, aligns)
}

func render(headers []string, rows [][]string, footer []string, aligns []Alignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(toRow(headers, columns))
	for _, row := range rows {
		tw.AppendRow(toRow(row, columns))
	}
	if footer != nil {
		tw.AppendFooter(toRow(footer, columns))
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == AlignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignFooter: align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func toRow(values []string, columns int) table.Row {
	row := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		if i < len(values) {
			row[i] = values[i]
		} else {
			row[i] = ""
		}
	}
	return row
}

// FileSummary holds the per-source counts shown at the end of a run.
type FileSummary struct {
	File       string
	Rows       int
	Malformed  int
	Skipped    int
	Failed     int
	New        int
	Duplicates int
	Review     int
	// Error is set when the whole file was skipped.
	Error string
}

var summaryHeaders = []string{"File", "Rows", "Malformed", "Skipped", "Failed", "New Projects", "Duplicates", "Needs Review", "Status"}

// RenderSummary renders per-file counts with a TOTAL footer.
func RenderSummary(files []FileSummary) string {
	rows := make([][]string, 0, len(files))
	var total FileSummary
	for _, f := range files {
		status := "ok"
		if f.Error != "" {
			status = "skipped: " + f.Error
		}
		rows = append(rows, []string{
			f.File,
			strconv.Itoa(f.Rows),
			strconv.Itoa(f.Malformed),
			strconv.Itoa(f.Skipped),
			strconv.Itoa(f.Failed),
			strconv.Itoa(f.New),
			strconv.Itoa(f.Duplicates),
			strconv.Itoa(f.Review),
			status,
		})
		total.Rows += f.Rows
		total.Malformed += f.Malformed
		total.Skipped += f.Skipped
		total.Failed += f.Failed
		total.New += f.New
		total.Duplicates += f.Duplicates
		total.Review += f.Review
	}
	footer := []string{
		"TOTAL",
		strconv.Itoa(total.Rows),
		strconv.Itoa(total.Malformed),
		strconv.Itoa(total.Skipped),
		strconv.Itoa(total.Failed),
		strconv.Itoa(total.New),
		strconv.Itoa(total.Duplicates),
		strconv.Itoa(total.Review),
		"",
	}
	aligns := []Alignment{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft}
	return render(summaryHeaders, rows, footer, aligns)
}
