// Package adapters converts source-specific rows into canonical project
// records.
//
// Each source format has its own projection function that reads the field
// names that feed publishes, applies the shared cleaning rules from package
// project, and assigns agency, bureau and category from the Tables passed in
// at construction. A projection may decline a row (privately funded, no
// announced funding); callers treat that as a skip, not an error.
package adapters
