package assembly

import (
	"reflect"
	"strings"
	"testing"

	"projmerge/internal/project"
)

type fixedIDs struct{ token string }

func (f fixedIDs) Token(length int) string {
	if length > len(f.token) {
		return f.token
	}
	return f.token[:length]
}

var registryHeader = []string{"Unique ID", "Data Source", "Project Name", "Latitude", "Longitude", "State", "Funding Amount", "Link"}

func testOptions() Options {
	return Options{IDs: fixedIDs{token: "abcdef0123"}}
}

func TestFormatRowLocationValidity(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		ok       bool
	}{
		{"origin rejected", 0, 0, false},
		{"zero latitude rejected", 0, -75, false},
		{"out of range rejected", 91, -75, false},
		{"valid accepted", 40.0, -75.0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := FormatRow(project.Project{Name: "x", Latitude: tt.lat, Longitude: tt.lon, SourceFile: "epa.csv"}, testOptions())
			if ok != tt.ok {
				t.Fatalf("FormatRow ok = %v, want %v", ok, tt.ok)
			}
		})
	}
}

func TestMergeProjectsOntoRegistrySchema(t *testing.T) {
	registry := []project.Row{{"Unique ID": "ASST1", "Project Name": "Existing", "State": "IL"}}
	additions := []project.Project{
		{
			Name:          "Coastal wetland restoration",
			Latitude:      40.0,
			Longitude:     -75.0,
			Region:        "NJ",
			FundingAmount: 1.5e6,
			Link:          `<a href="https://example.gov/p/1">details</a>`,
			SourceFile:    "noaa_projects.csv",
			Original:      project.Row{"recipient": "Town", "award": "12"},
		},
		{Name: "No coordinates", SourceFile: "noaa_projects.csv"},
	}
	res := Merge(registryHeader, registry, additions, testOptions())
	if res.Invalid != 1 || len(res.Appended) != 1 || len(res.Rows) != 2 {
		t.Fatalf("unexpected result: invalid=%d appended=%d rows=%d", res.Invalid, len(res.Appended), len(res.Rows))
	}
	if !reflect.DeepEqual(res.Rows[0], registry[0]) {
		t.Fatalf("registry row changed: %v", res.Rows[0])
	}
	want := project.Row{
		"Unique ID":      "NOAAABCDEF01",
		"Data Source":    "NOAA_PROJECTS",
		"Project Name":   "Coastal wetland restoration",
		"Latitude":       "40.0",
		"Longitude":      "-75.0",
		"State":          "NJ",
		"Funding Amount": "1500000.0",
		"Link":           "https://example.gov/p/1",
	}
	if !reflect.DeepEqual(res.Appended[0], want) {
		t.Fatalf("appended row = %v\nwant %v", res.Appended[0], want)
	}
}

func TestMergePrependsUniqueID(t *testing.T) {
	res := Merge([]string{"Project Name"}, nil, nil, testOptions())
	if !reflect.DeepEqual(res.Header, []string{"Unique ID", "Project Name"}) {
		t.Fatalf("Header = %v", res.Header)
	}
}

func TestAssignID(t *testing.T) {
	opts := testOptions()
	tests := []struct {
		name string
		p    project.Project
		want string
	}{
		{"own recognized id", project.Project{UniqueID: "CONT77", SourceFile: "doe.csv"}, "CONT77"},
		{"original field", project.Project{SourceFile: "doe.csv", Original: project.Row{"award_id": "ASST_9", "b": "x"}}, "ASST_9"},
		{"minted with format prefix", project.Project{SourceFile: "usbr-2024.csv"}, "USBRABCDEF01"},
		{"minted with fallback prefix", project.Project{SourceFile: "other.csv"}, "PROJABCDEF01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AssignID(tt.p, opts); got != tt.want {
				t.Fatalf("AssignID = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssignIDCustomPrefixes(t *testing.T) {
	opts := testOptions()
	opts.IDPrefixes = []string{"GRANT"}
	p := project.Project{UniqueID: "ASST1", SourceFile: "epa.csv", Original: project.Row{"id": "GRANT-5"}}
	if got := AssignID(p, opts); got != "GRANT-5" {
		t.Fatalf("AssignID = %q, want GRANT-5", got)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{40: "40.0", -75.25: "-75.25", 0: "0.0", 1500000: "1500000.0"}
	for in, want := range tests {
		if got := FormatFloat(in); got != want {
			t.Errorf("FormatFloat(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatRowClearsProgramType(t *testing.T) {
	row, ok := FormatRow(project.Project{Latitude: 1, Longitude: 1, SourceFile: "bia.csv", Original: project.Row{"Program Type": "Formula"}}, testOptions())
	if !ok {
		t.Fatal("expected valid row")
	}
	if row.Get("Program Type") != "" || row.Get("Project Location Type") != "Latitude and Longitude" {
		t.Fatalf("unexpected defaults: %v", row)
	}
	if !strings.HasPrefix(row.Get("Unique ID"), "BIA") {
		t.Fatalf("Unique ID = %q", row.Get("Unique ID"))
	}
}
