// Package textutil provides the text processing shared by the candidate index
// and the similarity scorer.
//
// Two independent measures live here:
//   - TF-IDF fingerprints compared with cosine similarity, used to find
//     candidates for records that have no usable geography
//   - a normalized-word Jaccard percentage, used by the scorer for names
//     and descriptions
//
// Analyzer tokenization folds accents, lowercases, splits on
// non-alphanumeric runs, drops English stop words and optionally applies the
// Snowball English stemmer.
package textutil
