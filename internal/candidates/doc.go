// Package candidates prunes the registry down to the records worth scoring
// against an incoming project.
//
// An Index is built once from the registry and is read-only afterwards, so a
// single Index may be shared by any number of goroutines. It combines three
// lookups: a point quadtree answering fixed half-width box overlaps, a region
// code map, and a TF-IDF text index used only when the first two return
// nothing.
package candidates
