// Package tabular loads and saves header-keyed delimited files.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"projmerge/internal/fileutil"
	"projmerge/internal/project"
	"projmerge/internal/services"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a parsed delimited file. Header keeps the file's column order.
type Table struct {
	Header []string
	Rows   []project.Row
	// Malformed counts data rows dropped because they could not be parsed or
	// carried values beyond the header.
	Malformed int
	// Transcoded reports that the file was not UTF-8 and was decoded as
	// Windows-1252.
	Transcoded bool
	// Generated lists header names added in Verbatim mode for values beyond
	// the original header.
	Generated []string
}

// Mode selects how rows that do not fit the header are handled.
type Mode int

const (
	// SkipMalformed drops and counts rows that fail to parse or carry
	// non-empty values beyond the header.
	SkipMalformed Mode = iota
	// Verbatim keeps every row. Values beyond the header get generated
	// columns; a row that fails to parse is an error.
	Verbatim
)

// Load reads path in SkipMalformed mode. Missing or unreadable files fail
// with services.ErrInput.
func Load(path string) (*Table, error) {
	return LoadMode(path, SkipMalformed)
}

// LoadMode reads path with the given malformed-row handling.
func LoadMode(path string, mode Mode) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrInput, "load", "read", fmt.Sprintf("%s does not exist", path), err)
		}
		return nil, services.Wrap(services.ErrInput, "load", "read", path, err)
	}
	table, err := ParseMode(data, mode)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "load", "parse", path, err)
	}
	return table, nil
}

// Parse decodes data in SkipMalformed mode. The first record is the header;
// blank lines are ignored.
func Parse(data []byte) (*Table, error) {
	return ParseMode(data, SkipMalformed)
}

// ParseMode decodes data with the given malformed-row handling.
func ParseMode(data []byte, mode Mode) (*Table, error) {
	table := &Table{}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode windows-1252: %w", err)
		}
		data = decoded
		table.Transcoded = true
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("missing header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	table.Header = make([]string, len(header))
	for i, name := range header {
		table.Header[i] = strings.TrimSpace(name)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) && mode == SkipMalformed {
				table.Malformed++
				continue
			}
			return nil, fmt.Errorf("read row: %w", err)
		}
		if mode == Verbatim {
			table.extendHeader(usedWidth(record))
		}
		row, ok := table.rowFor(record)
		if !ok {
			table.Malformed++
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func (t *Table) rowFor(record []string) (project.Row, bool) {
	for i := len(t.Header); i < len(record); i++ {
		if strings.TrimSpace(record[i]) != "" {
			return nil, false
		}
	}
	row := make(project.Row, len(t.Header))
	for i, name := range t.Header {
		if i < len(record) {
			row[name] = record[i]
		} else {
			row[name] = ""
		}
	}
	return row, true
}

// usedWidth is the record length without trailing empty values.
func usedWidth(record []string) int {
	n := len(record)
	for n > 0 && strings.TrimSpace(record[n-1]) == "" {
		n--
	}
	return n
}

// extendHeader adds generated columns until the header covers width values.
func (t *Table) extendHeader(width int) {
	if width <= len(t.Header) {
		return
	}
	taken := make(map[string]struct{}, len(t.Header))
	for _, name := range t.Header {
		taken[name] = struct{}{}
	}
	for i := len(t.Header); i < width; i++ {
		name := fmt.Sprintf("Column %d", i+1)
		for n := 2; ; n++ {
			if _, ok := taken[name]; !ok {
				break
			}
			name = fmt.Sprintf("Column %d (%d)", i+1, n)
		}
		taken[name] = struct{}{}
		t.Header = append(t.Header, name)
		t.Generated = append(t.Generated, name)
	}
}

// Encode writes header followed by rows projected onto it.
func Encode(w io.Writer, header []string, rows []project.Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, name := range header {
			record[i] = row.Get(name)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Write replaces path atomically with the encoded table.
func Write(path string, header []string, rows []project.Row) error {
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Encode(w, header, rows)
	})
	if err != nil {
		return services.Wrap(services.ErrTransient, "write", "csv", path, err)
	}
	return nil
}
