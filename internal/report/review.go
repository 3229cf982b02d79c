package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"projmerge/internal/assembly"
	"projmerge/internal/fileutil"
	"projmerge/internal/resolution"
	"projmerge/internal/services"
	"projmerge/internal/tabular"
)

const (
	reviewSheet  = "Review"
	matchesSheet = "Matches"
)

var matchesHeader = []string{"new_project_name", "new_source", "rank", "match_id", "match_name", "score", "distance_km", "reasons"}

// WriteReviewCSV writes REVIEW decisions to path in review column order.
func WriteReviewCSV(path string, decisions []resolution.Decision) error {
	return tabular.Write(path, assembly.ReviewHeader, assembly.ReviewRows(decisions))
}

// WriteReviewWorkbook writes a workbook with a "Review" sheet mirroring the
// review CSV and a "Matches" sheet listing every retained candidate.
func WriteReviewWorkbook(path string, decisions []resolution.Decision) error {
	f, err := buildWorkbook(decisions)
	if err != nil {
		return services.Wrap(services.ErrTransient, "report", "workbook", "build", err)
	}
	defer f.Close()

	err = fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		_, werr := f.WriteTo(w)
		return werr
	})
	if err != nil {
		return services.Wrap(services.ErrTransient, "report", "workbook", path, err)
	}
	return nil
}

func buildWorkbook(decisions []resolution.Decision) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", reviewSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(matchesSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := writeHeader(f, reviewSheet, assembly.ReviewHeader, headerStyle); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeHeader(f, matchesSheet, matchesHeader, headerStyle); err != nil {
		_ = f.Close()
		return nil, err
	}

	reviewRow, matchRow := 2, 2
	for _, d := range decisions {
		if d.Outcome != resolution.OutcomeReview {
			continue
		}
		row := assembly.ReviewRow(d)
		values := make([]any, len(assembly.ReviewHeader))
		for i, name := range assembly.ReviewHeader {
			values[i] = cellValue(name, row.Get(name))
		}
		if err := setRow(f, reviewSheet, reviewRow, values); err != nil {
			_ = f.Close()
			return nil, err
		}
		reviewRow++

		for rank, m := range d.Matches {
			distance := any("")
			if m.Result.DistanceKnown {
				distance = m.Result.DistanceKM
			}
			values := []any{
				d.Project.Name,
				d.Project.SourceFile,
				rank + 1,
				m.Existing.UniqueID,
				m.Existing.Name,
				m.Result.Score,
				distance,
				strings.Join(m.Result.Reasons, "; "),
			}
			if err := setRow(f, matchesSheet, matchRow, values); err != nil {
				_ = f.Close()
				return nil, err
			}
			matchRow++
		}
	}

	for _, sheet := range []string{reviewSheet, matchesSheet} {
		if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("freeze header: %w", err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeHeader(f *excelize.File, sheet string, header []string, style int) error {
	for i, name := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("write header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("style header %s: %w", cell, err)
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, 18); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

var numericReviewColumns = map[string]bool{
	"new_latitude":    true,
	"new_longitude":   true,
	"new_funding":     true,
	"match_count":     true,
	"top_match_score": true,
}

// cellValue stores numeric review columns as numbers.
func cellValue(column, s string) any {
	if s == "" || !numericReviewColumns[column] {
		return s
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	return s
}
