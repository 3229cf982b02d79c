package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"projmerge/internal/config"
	"projmerge/internal/testsupport"
)

var registryHeader = []string{
	"Unique ID", "Project Name", "Project Description", "Latitude", "Longitude", "State", "City",
	"Funding Amount", "Funding Source", "Agency Name", "Bureau Name", "Category",
}

var usbrHeader = []string{
	"ProjectName", "ProjectDescription", "Latitude", "Longitude", "State", "City",
	"Announced", "SubsectionTitle", "Subprogram", "PressRelease",
}

type cliTestEnv struct {
	cfg        *config.Config
	baseDir    string
	configPath string
	registry   string
	source     string
}

// setupCLITestEnv writes a two-row registry and a USBR feed whose four rows
// resolve to DUPLICATE, NEW, REVIEW and an invalid-location NEW.
func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))

	registry := testsupport.WriteCSV(t, filepath.Join(base, "in", "registry.csv"), registryHeader,
		[]string{"ASST001", "Yakima Basin Water Supply", "Canal lining and storage", "46.60", "-120.50", "WA", "Yakima",
			"5000000", "IRA", "Department of the Interior", "Bureau of Reclamation", "Water"},
		[]string{"ASST002", "Colorado River Drought Plan", "System conservation", "36.00", "-114.70", "NV", "Boulder City",
			"40000000", "IRA", "Department of the Interior", "Bureau of Reclamation", "Water"},
	)
	source := testsupport.WriteCSV(t, filepath.Join(base, "in", "usbr-2024.csv"), usbrHeader,
		[]string{"Yakima Basin Water Supply", "Canal lining and storage", "46.60", "-120.50", "Washington", "Yakima",
			"5000000", "Water Storage", "Canal", ""},
		[]string{"Rio Grande Pueblo Irrigation", "Headgate replacement", "35.08", "-106.65", "NM", "Albuquerque",
			"$2M", "Rural Water", "Irrigation", ""},
		[]string{"Yakima Fish Passage", "Fish ladder construction", "46.60", "-120.50", "WA", "Yakima",
			"100000", "Ecosystem", "Fish", ""},
		[]string{"Remote Station", "Weather monitoring", "", "", "AK", "",
			"250000", "Drought", "Monitoring", ""},
	)

	configPath := filepath.Join(base, "projmerge.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, baseDir: base, configPath: configPath, registry: registry, source: source}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[matching]
confidence_threshold = %.1f
review_threshold = %.1f

[pipeline]
workers = %d
chunk_size = %d

[output]
registry_output = %q
review_output = %q
review_workbook = %q

[ledger]
enabled = %v
path = %q
`,
		cfg.Matching.ConfidenceThreshold,
		cfg.Matching.ReviewThreshold,
		cfg.Pipeline.Workers,
		cfg.Pipeline.ChunkSize,
		cfg.Output.RegistryOutput,
		cfg.Output.ReviewOutput,
		cfg.Output.ReviewWorkbook,
		cfg.Ledger.Enabled,
		cfg.Ledger.Path,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n--- output ---\n%s", needle, haystack)
	}
}
