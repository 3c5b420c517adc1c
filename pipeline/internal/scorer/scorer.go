package scorer

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/menuscore/menuscore/pipeline/internal/compute"
	"github.com/menuscore/menuscore/pipeline/internal/report"
	"github.com/menuscore/menuscore/pkg/dataset"
	"github.com/menuscore/menuscore/pkg/types"
)

// DefaultTopN is the length of the ranked preview.
const DefaultTopN = 10

// Options configures one scoring run.
type Options struct {
	Input  string
	Output string
	// TopN is the preview length. <= 0 means DefaultTopN.
	TopN int
	// Reporter receives the preview. nil means report.Discard.
	Reporter report.Reporter
}

// Run scores opts.Input into opts.Output and returns the preview that was
// reported. Nothing is written unless every row scored.
func Run(opts Options) (report.ScorePreview, error) {
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	rep := opts.Reporter
	if rep == nil {
		rep = report.Discard
	}

	tbl, err := dataset.ReadFile(opts.Input)
	if err != nil {
		return report.ScorePreview{}, fmt.Errorf("scorer: load: %w", err)
	}
	items, err := dataset.DecodeItems(tbl)
	if err != nil {
		return report.ScorePreview{}, fmt.Errorf("scorer: decode: %w", err)
	}

	results := compute.Compute(items)
	cells := make([]string, len(results))
	tiers := make(map[string]int, len(types.Tiers))
	for i, r := range results {
		cells[i] = FormatScore(r.Score)
		tiers[r.Tier]++
	}
	slog.Debug("scorer: computed", "path", opts.Input, "rows", len(results))

	scored, err := tbl.WithColumn(types.ColumnHealthScore, cells)
	if err != nil {
		return report.ScorePreview{}, fmt.Errorf("scorer: add score column: %w", err)
	}
	if err := scored.WriteFile(opts.Output); err != nil {
		return report.ScorePreview{}, fmt.Errorf("scorer: save: %w", err)
	}

	preview := report.ScorePreview{
		Input:  opts.Input,
		Output: opts.Output,
		Shape:  report.Shape{Rows: scored.Len(), Columns: len(scored.Columns())},
		Top:    compute.Rank(results, topN),
		Tiers:  tiers,
	}
	rep.ScorePreview(preview)
	return preview, nil
}

// FormatScore renders a score the way it is stored in the scored file.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}
