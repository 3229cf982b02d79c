package preflight

import (
	"path/filepath"
	"strings"

	"projmerge/internal/config"
	"projmerge/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Path     string
	Passed   bool
	Required bool
	// Source marks source-file checks. A run fails when none of them pass.
	Source   bool
	Detail   string
}

// Inputs names the files a run will read.
type Inputs struct {
	Registry string
	Sources  []string
	DryRun   bool
}

// Report is the full set of check results.
type Report struct {
	Results []Result
}

// Run executes every applicable check for the given inputs and config.
func Run(cfg *config.Config, in Inputs) Report {
	var report Report
	registry := CheckFileReadable("Registry", in.Registry)
	registry.Required = true
	report.Results = append(report.Results, registry)

	for _, source := range in.Sources {
		result := CheckFileReadable("Source "+filepath.Base(source), source)
		result.Source = true
		report.Results = append(report.Results, result)
	}

	if cfg == nil || in.DryRun {
		return report
	}
	for _, dir := range outputDirs(cfg) {
		result := CheckDirectoryAccess("Output directory", dir)
		result.Required = true
		report.Results = append(report.Results, result)
	}
	if cfg.Ledger.Enabled && cfg.Ledger.Path != "" {
		result := CheckDirectoryAccess("Ledger directory", filepath.Dir(cfg.Ledger.Path))
		result.Required = true
		report.Results = append(report.Results, result)
	}
	return report
}

// Err returns an input error describing failed required checks, or nil.
// Unreadable sources fail the run only when no source is readable.
func (r Report) Err() error {
	var failed, sources []string
	usableSource := false
	for _, res := range r.Results {
		switch {
		case res.Source && res.Passed:
			usableSource = true
		case res.Source:
			sources = append(sources, res.Name+": "+res.Detail)
		case res.Required && !res.Passed:
			failed = append(failed, res.Name+": "+res.Detail)
		}
	}
	if !usableSource && len(sources) > 0 {
		failed = append(failed, "no readable source file")
		failed = append(failed, sources...)
	}
	if len(failed) == 0 {
		return nil
	}
	return services.Wrap(services.ErrInput, "preflight", "check", strings.Join(failed, "; "), nil)
}

// Usable reports whether path passed its check. Unknown paths are usable.
func (r Report) Usable(path string) bool {
	for _, res := range r.Results {
		if res.Path == path {
			return res.Passed
		}
	}
	return true
}

// Failed returns the results that did not pass.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed {
			out = append(out, res)
		}
	}
	return out
}

func outputDirs(cfg *config.Config) []string {
	seen := make(map[string]struct{})
	var dirs []string
	for _, path := range []string{cfg.Output.RegistryOutput, cfg.Output.ReviewOutput, cfg.Output.ReviewWorkbook} {
		if strings.TrimSpace(path) == "" {
			continue
		}
		dir := filepath.Dir(path)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	return dirs
}
