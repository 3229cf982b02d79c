package testsupport

import (
	"path/filepath"
	"testing"

	"projmerge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose outputs and ledger live in a per-test
// temp directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Output.RegistryOutput = filepath.Join(base, "out", "registry-updated.csv")
	cfgVal.Output.ReviewOutput = filepath.Join(base, "out", "projects-to-review.csv")
	cfgVal.Ledger.Path = filepath.Join(base, "ledger.db")
	cfgVal.Pipeline.Workers = 2
	cfgVal.Pipeline.ChunkSize = 4

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithLedger enables the run ledger on the test config.
func WithLedger() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ledger.Enabled = true
	}
}

// WithWorkbook enables the XLSX review workbook output.
func WithWorkbook() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.ReviewWorkbook = filepath.Join(b.baseDir, "out", "projects-to-review.xlsx")
	}
}

// WithThresholds overrides the matching thresholds.
func WithThresholds(confidence, review float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Matching.ConfidenceThreshold = confidence
		b.cfg.Matching.ReviewThreshold = review
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Ledger.Path)
}
