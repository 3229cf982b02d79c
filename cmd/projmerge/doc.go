// Package main hosts the projmerge CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, builds loggers, and hands
// registry and source files to the internal packages: merge reconciles
// incoming feeds against the registry, explain shows how one record would be
// scored, formats lists the supported source schemas, and history reads the
// optional run ledger.
//
// Keep this package lean: behavior belongs in internal packages and is
// surfaced here through commands and flags.
package main
