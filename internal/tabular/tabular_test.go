package tabular

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"projmerge/internal/project"
	"projmerge/internal/services"
)

func TestParseHeaderOrderAndBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Unique ID, Project Name ,State\nASST1,Dam,IL\n\nASST2,\"Lock, Phase 2\",PA\n")...)
	table, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if want := []string{"Unique ID", "Project Name", "State"}; !reflect.DeepEqual(table.Header, want) {
		t.Fatalf("Header = %q, want %q", table.Header, want)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if got := table.Rows[1].Get("Project Name"); got != "Lock, Phase 2" {
		t.Fatalf("quoted field = %q", got)
	}
	if table.Malformed != 0 || table.Transcoded {
		t.Fatalf("unexpected flags %+v", table)
	}
}

func TestParseMalformedRows(t *testing.T) {
	data := []byte("a,b\n1,2\n3\n4,5,extra\n6,7,\n")
	table, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if table.Malformed != 1 {
		t.Fatalf("Malformed = %d, want 1", table.Malformed)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(table.Rows))
	}
	if got := table.Rows[1]; got.Get("a") != "3" || got.Get("b") != "" {
		t.Fatalf("short row not padded: %v", got)
	}
}

func TestParseVerbatimKeepsEveryRow(t *testing.T) {
	data := []byte("a,b\n1,2\n3\n4,5,extra\n6,7,\n")
	table, err := ParseMode(data, Verbatim)
	if err != nil {
		t.Fatalf("ParseMode: %v", err)
	}
	if table.Malformed != 0 || len(table.Rows) != 4 {
		t.Fatalf("Malformed = %d rows = %d, want 0 and 4", table.Malformed, len(table.Rows))
	}
	if want := []string{"a", "b", "Column 3"}; !reflect.DeepEqual(table.Header, want) {
		t.Fatalf("Header = %q, want %q", table.Header, want)
	}
	if !reflect.DeepEqual(table.Generated, []string{"Column 3"}) {
		t.Fatalf("Generated = %q", table.Generated)
	}
	if got := table.Rows[2].Get("Column 3"); got != "extra" {
		t.Fatalf("extra value = %q, want extra", got)
	}
	if got := table.Rows[0].Get("Column 3"); got != "" {
		t.Fatalf("earlier row gained value %q", got)
	}
}

func TestParseVerbatimGeneratedNameAvoidsCollision(t *testing.T) {
	table, err := ParseMode([]byte("Column 2\nx,y\n"), Verbatim)
	if err != nil {
		t.Fatalf("ParseMode: %v", err)
	}
	if want := []string{"Column 2", "Column 2 (2)"}; !reflect.DeepEqual(table.Header, want) {
		t.Fatalf("Header = %q, want %q", table.Header, want)
	}
}

func TestParseWindows1252(t *testing.T) {
	data := []byte("name\nS\xe3o Tom\xe9\n")
	table, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !table.Transcoded {
		t.Fatal("expected Transcoded")
	}
	if got := table.Rows[0].Get("name"); got != "São Tomé" {
		t.Fatalf("decoded = %q", got)
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := Parse(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	header := []string{"Unique ID", "Project Name"}
	rows := []project.Row{
		{"Unique ID": "ASST1", "Project Name": "Dam", "Dropped": "x"},
		{"Unique ID": "EPA1A2B3C4D"},
	}
	if err := Write(path, header, rows); err != nil {
		t.Fatalf("Write: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Unique ID,Project Name\nASST1,Dam\nEPA1A2B3C4D,\n"
	if string(raw) != want {
		t.Fatalf("content = %q, want %q", raw, want)
	}
	table, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(table.Header, header) || len(table.Rows) != 2 {
		t.Fatalf("unexpected table %+v", table)
	}
}

func TestEncodeQuotes(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, []string{"d"}, []project.Row{{"d": "a \"b\", c"}}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "d\n\"a \"\"b\"\", c\"\n" {
		t.Fatalf("encoded = %q", got)
	}
}
