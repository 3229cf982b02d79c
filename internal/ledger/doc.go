// Package ledger keeps an optional SQLite history of merge runs.
//
// Each run row stores the thresholds, files, and outcome counts; each decision
// row stores how one incoming record was classified and against which
// registry entry. The schema is embedded and versioned: a database created by
// a different schema version is rejected rather than migrated.
package ledger
