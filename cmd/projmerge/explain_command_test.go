package main

import (
	"path/filepath"
	"testing"
)

func TestExplainFromFlags(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"explain", env.registry,
		"--name", "Yakima Basin Water Supply",
		"--description", "Canal lining and storage",
		"--lat", "46.60", "--lon", "-120.50", "--state", "Washington",
		"--agency", "Department of the Interior", "--funding", "5000000", "--funding-source", "IRA",
	}, env.configPath)
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	requireContains(t, out, "Candidates: 1 via spatial_region")
	requireContains(t, out, "Outcome:    DUPLICATE")
	requireContains(t, out, "ASST001")
}

func TestExplainFromSourceRow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"explain", env.registry, "--source", env.source, "--row", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	requireContains(t, out, "Record:     Rio Grande Pueblo Irrigation")
	requireContains(t, out, "Candidates: 0 via none")
	requireContains(t, out, "Outcome:    NEW")
}

func TestExplainRowOutOfRange(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"explain", env.registry, "--source", env.source, "--row", "9"}, env.configPath); err == nil {
		t.Fatal("expected out of range error")
	}
	if _, _, err := runCLI(t, []string{"explain", filepath.Join(env.baseDir, "nope.csv"), "--name", "x"}, env.configPath); err == nil {
		t.Fatal("expected missing registry error")
	}
}

func TestFormatsListsSources(t *testing.T) {
	out, _, err := runCLI(t, []string{"formats", "--categories"}, "")
	if err != nil {
		t.Fatalf("formats: %v", err)
	}
	for _, want := range []string{"bia", "doe", "doi", "epa", "noaa", "usbr", "USBR", "Water"} {
		requireContains(t, out, want)
	}
}
