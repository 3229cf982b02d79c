// Package services defines shared plumbing consumed by every projmerge stage.
//
// Key responsibilities:
//   - Context helpers that stamp source files, chunk indexes, stage names,
//     and run identifiers for logging.
//   - Structured error markers plus the Wrap helper so callers can decide
//     whether a failure drops a record, skips a file, or aborts the run.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
