// Package similarity scores a pair of canonical projects.
//
// Score sums independent point pools for geographic distance, region,
// funding source, name, description, funding amount and agency, and returns
// the reasons that contributed in evaluation order. Scoring is pure and
// deterministic.
package similarity
