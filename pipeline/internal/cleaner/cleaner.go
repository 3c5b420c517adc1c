package cleaner

import (
	"fmt"
	"log/slog"

	"github.com/menuscore/menuscore/pipeline/internal/report"
	"github.com/menuscore/menuscore/pkg/dataset"
)

// DefaultDrop is the set of columns removed when Options.Drop is nil.
var DefaultDrop = []string{"Serving Size", "Calories from Fat"}

// profileSamples is the number of distinct sample values shown per column.
const profileSamples = 5

// Options configures one cleaning run.
type Options struct {
	Input  string
	Output string
	// Drop lists the columns to remove. nil means DefaultDrop.
	Drop []string
	// Reporter receives the run summary. nil means report.Discard.
	Reporter report.Reporter
}

// Run cleans opts.Input into opts.Output and returns the run summary.
// The output file is only written once the whole table has been processed.
func Run(opts Options) (report.CleanSummary, error) {
	drop := opts.Drop
	if drop == nil {
		drop = DefaultDrop
	}
	rep := opts.Reporter
	if rep == nil {
		rep = report.Discard
	}

	raw, err := dataset.ReadFile(opts.Input)
	if err != nil {
		return report.CleanSummary{}, fmt.Errorf("cleaner: load: %w", err)
	}
	slog.Debug("cleaner: loaded", "path", opts.Input, "rows", raw.Len(), "columns", len(raw.Columns()))

	cleaned, err := raw.Drop(drop...)
	if err != nil {
		return report.CleanSummary{}, fmt.Errorf("cleaner: drop columns: %w", err)
	}

	if err := cleaned.WriteFile(opts.Output); err != nil {
		return report.CleanSummary{}, fmt.Errorf("cleaner: save: %w", err)
	}

	sum := report.CleanSummary{
		Input:     opts.Input,
		Output:    opts.Output,
		Before:    report.Shape{Rows: raw.Len(), Columns: len(raw.Columns())},
		Columns:   raw.Columns(),
		Profiles:  raw.Profile(profileSamples),
		Dropped:   append([]string(nil), drop...),
		After:     report.Shape{Rows: cleaned.Len(), Columns: len(cleaned.Columns())},
		Remaining: cleaned.Columns(),
	}
	rep.CleanSummary(sum)
	return sum, nil
}
