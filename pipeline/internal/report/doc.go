// Package report renders the human-readable output of the pipeline stages.
//
// Reporter is the sink the cleaner and scorer write to. Text is the default
// implementation: an aligned plain-text report on an io.Writer (stdout in the
// CLI), with the headline numbers mirrored as structured slog records so a
// log collector sees the same run summary.
//
// Discard drops everything and is what tests and library callers use when no
// report is wanted.
package report
