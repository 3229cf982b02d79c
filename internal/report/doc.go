// Package report writes the operator-facing outputs of a merge run: the
// review CSV, the optional XLSX review workbook, and the plain-text run
// summary. Writers hold an advisory lock on their output path so two runs
// never interleave output.
package report
