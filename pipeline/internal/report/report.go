package report

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/menuscore/menuscore/pipeline/internal/compute"
	"github.com/menuscore/menuscore/pkg/dataset"
	"github.com/menuscore/menuscore/pkg/types"
)

// Shape is a rows × columns pair.
type Shape struct {
	Rows, Columns int
}

func (s Shape) String() string { return fmt.Sprintf("%d rows × %d columns", s.Rows, s.Columns) }

// CleanSummary describes one cleaning run.
type CleanSummary struct {
	Input, Output string
	Before        Shape
	Columns       []string
	Profiles      []dataset.ColumnProfile
	Dropped       []string
	After         Shape
	Remaining     []string
}

// ScorePreview describes one scoring run.
type ScorePreview struct {
	Input, Output string
	Shape         Shape
	// Top holds the highest scored items, best first.
	Top []compute.Result
	// Tiers counts items per tier over the whole dataset.
	Tiers map[string]int
}

// Reporter receives stage summaries.
type Reporter interface {
	CleanSummary(s CleanSummary)
	ScorePreview(p ScorePreview)
}

// Discard is a Reporter that drops everything.
var Discard Reporter = discard{}

type discard struct{}

func (discard) CleanSummary(CleanSummary) {}
func (discard) ScorePreview(ScorePreview) {}

// Text writes aligned plain-text reports to w and logs a one-line summary of
// each through logger.
type Text struct {
	w      io.Writer
	logger *slog.Logger
}

// NewText returns a Text reporter. A nil logger uses slog.Default().
func NewText(w io.Writer, logger *slog.Logger) *Text {
	if logger == nil {
		logger = slog.Default()
	}
	return &Text{w: w, logger: logger}
}

// CleanSummary prints the dataset profile before and after cleaning.
func (t *Text) CleanSummary(s CleanSummary) {
	fmt.Fprintf(t.w, "Original dataset shape: %s\n", s.Before)
	fmt.Fprintf(t.w, "Columns: %s\n\n", strings.Join(s.Columns, ", "))

	tw := tabwriter.NewWriter(t.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tTYPE\tSAMPLES")
	for _, p := range s.Profiles {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, p.Type, strings.Join(p.Samples, " | "))
	}
	tw.Flush()

	fmt.Fprintf(t.w, "\nDropped columns: %s\n", strings.Join(s.Dropped, ", "))
	fmt.Fprintf(t.w, "Cleaned dataset shape: %s\n", s.After)
	fmt.Fprintf(t.w, "Remaining columns: %s\n", strings.Join(s.Remaining, ", "))
	fmt.Fprintf(t.w, "Cleaned dataset saved to %s\n", s.Output)

	t.logger.Info("report: cleaned",
		"input", s.Input,
		"output", s.Output,
		"rows", s.After.Rows,
		"columns_before", s.Before.Columns,
		"columns_after", s.After.Columns,
		"dropped", s.Dropped,
	)
}

// ScorePreview prints the ranked top items and the tier breakdown.
func (t *Text) ScorePreview(p ScorePreview) {
	fmt.Fprintf(t.w, "Top %d items by Health Score:\n", len(p.Top))

	tw := tabwriter.NewWriter(t.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tITEM\tSCORE\tTIER")
	for i, r := range p.Top {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\n", i+1, r.Item, r.Score, r.Tier)
	}
	tw.Flush()

	fmt.Fprintln(t.w)
	for _, tier := range types.Tiers {
		fmt.Fprintf(t.w, "%-10s %d\n", tier+":", p.Tiers[tier])
	}
	fmt.Fprintf(t.w, "Scored dataset saved to %s\n", p.Output)

	attrs := []any{"output", p.Output, "rows", p.Shape.Rows}
	for _, tier := range types.Tiers {
		attrs = append(attrs, strings.ToLower(tier), p.Tiers[tier])
	}
	if len(p.Top) > 0 {
		attrs = append(attrs, "best_item", p.Top[0].Item, "best_score", p.Top[0].Score)
	}
	t.logger.Info("report: scored", attrs...)
}
