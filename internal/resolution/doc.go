// Package resolution classifies incoming projects against the registry.
//
// A Resolver scores one canonical project against the candidates the index
// selects and decides whether it is new, a duplicate, or needs manual review.
// A Pipeline adapts a whole source file, partitions it into chunks, and fans
// the chunks out to a fixed-size worker pool that shares the registry and the
// candidate index read-only. Decisions come back in input order regardless of
// which worker finished first.
package resolution
