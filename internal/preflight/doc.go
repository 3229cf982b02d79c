// Package preflight provides readiness checks for the files and directories
// a merge run depends on.
//
// The merge command calls Run before loading anything: a missing or
// unreadable registry aborts the run, while an unreadable source file is
// reported and skipped. Output directories must be writable unless the run is
// a dry run.
package preflight
