// Package config loads, normalizes, and validates projmerge configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PROJMERGE_LOG_LEVEL and PROJMERGE_LEDGER_PATH. The Config type centralizes
// every knob the merge run needs: matching thresholds, index geometry, worker
// sizing, output locations, and the run ledger.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
