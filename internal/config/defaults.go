package config

const (
	defaultConfigPath          = "~/.config/projmerge/config.toml"
	defaultConfidenceThreshold = 80.0
	defaultReviewThreshold     = 40.0
	defaultReviewTopN          = 5
	defaultSpatialHalfWidth    = 0.1
	defaultChunkSize           = 100
	defaultRegistryOutput      = "registry-updated.csv"
	defaultReviewOutput        = "projects-to-review.csv"
	defaultLedgerPath          = "~/.local/share/projmerge/ledger.db"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	maxSpatialHalfWidth        = 5.0
)

var defaultRecognizedIDPrefixes = []string{"ASST", "CONT"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Matching: Matching{
			ConfidenceThreshold: defaultConfidenceThreshold,
			ReviewThreshold:     defaultReviewThreshold,
			ReviewTopN:          defaultReviewTopN,
		},
		Index: Index{
			SpatialHalfWidth: defaultSpatialHalfWidth,
		},
		Pipeline: Pipeline{
			ChunkSize: defaultChunkSize,
		},
		Output: Output{
			RegistryOutput:       defaultRegistryOutput,
			ReviewOutput:         defaultReviewOutput,
			RecognizedIDPrefixes: append([]string(nil), defaultRecognizedIDPrefixes...),
			LockOutputs:          true,
		},
		Ledger: Ledger{
			Path: defaultLedgerPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
