package adapters

import (
	"errors"
	"strings"
	"testing"

	"projmerge/internal/project"
	"projmerge/internal/services"
)

type fixedIDs struct{ token string }

func (f fixedIDs) Token(length int) string {
	if length > len(f.token) {
		return f.token
	}
	return f.token[:length]
}

func newAdapter(t *testing.T, f Format) *Adapter {
	t.Helper()
	a, err := New(f, DefaultTables(), fixedIDs{token: "abcdef0123456789"})
	if err != nil {
		t.Fatalf("New(%s): %v", f, err)
	}
	return a
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"data/raw/BIA-projects-2024.csv", FormatBIA},
		{"doe_investments.csv", FormatDOE},
		{"/tmp/doi.csv", FormatDOI},
		{"epa-awards.csv", FormatEPA},
		{"NOAA.csv", FormatNOAA},
		{"usbr-bil.csv", FormatUSBR},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.path)
		if err != nil {
			t.Fatalf("DetectFormat(%q): %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}

	_, err := DetectFormat("registry.csv")
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !errors.Is(err, services.ErrInput) {
		t.Errorf("expected input error, got %v", err)
	}
}

func TestDataSource(t *testing.T) {
	if got := DataSource("/data/epa-awards.v2.csv"); got != "EPA-AWARDS" {
		t.Errorf("DataSource() = %q, want EPA-AWARDS", got)
	}
}

func TestNewUnsupportedFormat(t *testing.T) {
	if _, err := New(Format("fema"), nil, nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestAdaptMain(t *testing.T) {
	row := project.Row{
		"Unique ID":      "ASST_001",
		"Project Name":   "Harbor Dredging",
		"Latitude":       "40.71",
		"Longitude":      "-74.01",
		"State":          "New York",
		"Funding Amount": "$2.5M",
		"Funding Source": "BIL",
		"Agency Name":    "Department of Transportation",
	}
	p, ok := newAdapter(t, FormatMain).Adapt(row)
	if !ok {
		t.Fatal("main rows are never skipped")
	}
	if p.UniqueID != "ASST_001" || p.Region != "NY" || p.FundingAmount != 2_500_000 {
		t.Fatalf("unexpected projection: %+v", p)
	}
	if p.Original["Project Name"] != "Harbor Dredging" {
		t.Error("original row should be carried through")
	}
}

func TestAdaptBIA(t *testing.T) {
	a := newAdapter(t, FormatBIA)
	p, ok := a.Adapt(project.Row{
		"location_n":  "Navajo Nation, AZ",
		"project":     "Canal lining",
		"POINT_Y":     "36.1",
		"POINT_X":     "-109.5",
		"proj_type":   "Irrigation",
		"fiscal_year": "2023",
		"proj_am":     "1,200,000",
	})
	if !ok {
		t.Fatal("unexpected skip")
	}
	if p.Tribe != "Navajo Nation" || p.City != "" {
		t.Errorf("tribe/city = %q/%q", p.Tribe, p.City)
	}
	if p.Region != "AZ" || p.Category != CategoryWater || p.ProgramID != "BIA2023" {
		t.Errorf("unexpected projection: %+v", p)
	}
	if p.SourceFile != "bia" {
		t.Errorf("SourceFile = %q, want bia", p.SourceFile)
	}

	p, _ = a.Adapt(project.Row{"location_n": "Gallup, NM", "proj_type": "Roads"})
	if p.City != "Gallup" || p.Category != CategoryTribal {
		t.Errorf("city/category = %q/%q", p.City, p.Category)
	}
}

func TestAdaptDOE(t *testing.T) {
	a := newAdapter(t, FormatDOE)
	if _, ok := a.Adapt(project.Row{"private": "Yes"}); ok {
		t.Fatal("private rows must be skipped")
	}
	p, ok := a.Adapt(project.Row{
		"project":      "IRA Section 48C credit",
		"company_name": "Acme Cells",
		"tech":         "Battery",
		"state":        "MI",
		"pubinvest":    "$10M",
	})
	if !ok {
		t.Fatal("unexpected skip")
	}
	if p.FundingSource != "IRA" || p.Category != CategoryCleanEnergy {
		t.Errorf("source/category = %q/%q", p.FundingSource, p.Category)
	}
	if p.Description != "IRA Section 48C credit - Acme Cells - Battery technology" {
		t.Errorf("Description = %q", p.Description)
	}
	if p.ProgramID != "DOEabcdef" {
		t.Errorf("ProgramID = %q, want DOEabcdef", p.ProgramID)
	}

	p, _ = a.Adapt(project.Row{"project": "Grid upgrade", "tech": "Other", "category": "Advanced Manufacturing"})
	if p.FundingSource != "BIL" || p.Category != CategoryCleanEnergy || strings.Contains(p.Description, "technology") {
		t.Errorf("unexpected projection: %+v", p)
	}
}

func TestAdaptDOI(t *testing.T) {
	a := newAdapter(t, FormatDOI)
	for _, amount := range []string{"", "-", "$0"} {
		if _, ok := a.Adapt(project.Row{" Total Announced Funding Amount ": amount}); ok {
			t.Errorf("announced funding %q should skip", amount)
		}
	}
	p, ok := a.Adapt(project.Row{
		" Project Title ":                  "Orphan well plugging",
		"Total Announced Funding Amount ": "$4.1M",
		"Program Area":                     "Legacy Pollution",
		"State or US Territory":            "Pennsylvania",
	})
	if !ok {
		t.Fatal("unexpected skip")
	}
	if p.Name != "Orphan well plugging" || p.Region != "PA" || p.Category != CategoryLegacyPollution {
		t.Errorf("unexpected projection: %+v", p)
	}

	p, _ = a.Adapt(project.Row{"Total Announced Funding Amount": "5000", "Program Area": "Unlisted", "Program Name": "Fuels and fire resilience"})
	if p.Category != CategoryWildfire {
		t.Errorf("keyword fallback category = %q, want %q", p.Category, CategoryWildfire)
	}
	p, _ = a.Adapt(project.Row{"Total Announced Funding Amount": "5000", "Program Area": "Unlisted"})
	if p.Category != CategoryOther {
		t.Errorf("fallback category = %q, want %q", p.Category, CategoryOther)
	}
}

func TestAdaptEPA(t *testing.T) {
	a := newAdapter(t, FormatEPA)
	p, _ := a.Adapt(project.Row{
		"Funding Source":                      "IRA - Inflation Reduction Act",
		"Investment Category":                 "Brownfields Cleanup",
		"Federal Award Identification Number": "EPA-FAIN-1",
		"Announcement Url":                    "https://epa.example/a",
	})
	if p.FundingSource != "IRA" || p.Category != CategoryLegacyPollution {
		t.Errorf("source/category = %q/%q", p.FundingSource, p.Category)
	}
	if p.ProgramID != "EPA-FAIN-1" || p.Link != "https://epa.example/a" {
		t.Errorf("id/link = %q/%q", p.ProgramID, p.Link)
	}

	p, _ = a.Adapt(project.Row{"Program": "Drinking Water State Revolving Fund"})
	if p.Category != CategoryWater || p.ProgramID != "EPAabcdef" {
		t.Errorf("category/id = %q/%q", p.Category, p.ProgramID)
	}
	p, _ = a.Adapt(project.Row{"Investment Category": "Unknown"})
	if p.Category != CategoryEnvironmentalPro {
		t.Errorf("fallback category = %q", p.Category)
	}
}

func TestAdaptNOAA(t *testing.T) {
	p, _ := newAdapter(t, FormatNOAA).Adapt(project.Row{
		"Recipient.lat":                 "47.6",
		"Recipient.long":                "-122.3",
		"Place of Performance State(s)": "Washington, Oregon",
		"Strategic Plan Goal":           "",
		"Program Full Title":            "Coastal Habitat Restoration",
		"Funding Statute":               "BIL",
	})
	if p.Latitude != 47.6 || p.Longitude != -122.3 {
		t.Errorf("coordinates = %v,%v", p.Latitude, p.Longitude)
	}
	if p.Region != "WA" || p.Category != CategoryEcosystem || p.FundingSource != "BIL" {
		t.Errorf("unexpected projection: %+v", p)
	}
}

func TestAdaptUSBR(t *testing.T) {
	p, _ := newAdapter(t, FormatUSBR).Adapt(project.Row{
		"ProjectName":     "Canal repair",
		"SubsectionTitle": "Drought Mitigation",
		"Subprogram":      "WaterSMART",
		"Identifier":      "R23AP001",
	})
	if p.Category != CategoryWater {
		t.Errorf("Category = %q, want %q", p.Category, CategoryWater)
	}
	if p.ProgramName != "Drought Mitigation - WaterSMART" || p.ProgramID != "R23AP001" || p.FundingSource != "IRA" {
		t.Errorf("unexpected projection: %+v", p)
	}
}

func TestCategoriesClosedSet(t *testing.T) {
	tables := DefaultTables()
	allowed := map[string]bool{}
	for _, c := range tables.Categories() {
		allowed[c] = true
	}
	rows := []project.Row{
		{}, {"proj_type": "anything"}, {"tech": "Fusion"}, {"Program": "random"},
		{"Total Announced Funding Amount": "10"}, {"Strategic Plan Goal": "zzz"},
	}
	for _, f := range SourceFormats {
		a, err := New(f, tables, fixedIDs{token: "000000"})
		if err != nil {
			t.Fatal(err)
		}
		for _, row := range rows {
			p, ok := a.Adapt(row)
			if ok && !allowed[p.Category] {
				t.Errorf("%s produced category %q outside the closed set", f, p.Category)
			}
		}
	}
}

func TestUUIDSourceToken(t *testing.T) {
	tok := UUIDSource{}.Token(8)
	if len(tok) != 8 {
		t.Fatalf("Token(8) length = %d", len(tok))
	}
	if RegistryID(fixedIDs{token: "abcdef0123"}, "epa") != "EPAABCDEF01" {
		t.Errorf("RegistryID = %q", RegistryID(fixedIDs{token: "abcdef0123"}, "epa"))
	}
}
