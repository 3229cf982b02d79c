package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"projmerge/internal/services"
)

//go:embed sample_config.toml
var sampleConfig string

// Matching contains the score thresholds that classify incoming records.
type Matching struct {
	// ConfidenceThreshold is the score at or above which a match is a silent duplicate.
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
	// ReviewThreshold is the score at or above which a match needs manual review.
	ReviewThreshold float64 `toml:"review_threshold"`
	// ReviewTopN bounds the candidates kept for each review entry.
	ReviewTopN int `toml:"review_top_n"`
}

// Index contains candidate index settings.
type Index struct {
	SpatialHalfWidth float64 `toml:"spatial_half_width"`
	StemTerms        bool    `toml:"stem_terms"`
}

// Pipeline contains batching and worker pool sizing.
type Pipeline struct {
	Workers   int `toml:"workers"` // 0 means one per CPU
	ChunkSize int `toml:"chunk_size"`
}

// Output contains output file locations and identifier rules.
type Output struct {
	RegistryOutput       string   `toml:"registry_output"`
	ReviewOutput         string   `toml:"review_output"`
	ReviewWorkbook       string   `toml:"review_workbook"`
	RecognizedIDPrefixes []string `toml:"recognized_id_prefixes"`
	LockOutputs          bool     `toml:"lock_outputs"`
}

// Ledger contains the optional SQLite run history.
type Ledger struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for projmerge.
//
// Configuration sections by subsystem:
//   - Matching: duplicate and review score thresholds
//   - Index: spatial box half-width and text analyzer options
//   - Pipeline: chunk size and worker count
//   - Output: registry/review destinations and identifier prefixes
//   - Ledger: SQLite history of runs and decisions
//   - Logging: log format, level, and optional log file
type Config struct {
	Matching Matching `toml:"matching"`
	Index    Index    `toml:"index"`
	Pipeline Pipeline `toml:"pipeline"`
	Output   Output   `toml:"output"`
	Ledger   Ledger   `toml:"ledger"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		if err := decodeFile(resolvedPath, &cfg); err != nil {
			return nil, "", false, err
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "normalize", "Invalid configuration", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "validate", "Invalid configuration", err)
	}

	return &cfg, resolvedPath, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "open", "Unable to open config file", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "parse", fmt.Sprintf("Unable to parse %s", path), err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("projmerge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EffectiveWorkers returns the worker pool size, resolving 0 to the CPU count.
func (c *Config) EffectiveWorkers() int {
	if c.Pipeline.Workers > 0 {
		return c.Pipeline.Workers
	}
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 4
}

// EnsureOutputDirectories creates parent directories for every configured output.
func (c *Config) EnsureOutputDirectories() error {
	paths := []string{c.Output.RegistryOutput, c.Output.ReviewOutput, c.Output.ReviewWorkbook}
	if c.Ledger.Enabled {
		paths = append(paths, c.Ledger.Path)
	}
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		dir := filepath.Dir(p)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
