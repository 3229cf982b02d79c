// Package project defines the canonical project record every source format is
// converted into, along with the shared field-cleaning rules applied by the
// schema adapters.
//
// Cleaning never fails: unparseable funding amounts and coordinates collapse
// to 0.0, which downstream code reads as "unknown". Region normalization only
// maps values it recognizes and passes anything else through untouched.
package project
