// Package charts renders the dashboard's PNG charts with gonum/plot.
package charts

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/menuscore/menuscore/dashboard/internal/store"
	"github.com/menuscore/menuscore/pkg/dataset"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("charts: no data")

// NutrientColors maps each profile nutrient to its bar color.
var NutrientColors = map[dataset.Nutrient]string{
	dataset.Protein:      "#ff4d6d",
	dataset.DietaryFiber: "#59cd90",
	dataset.SaturatedFat: "#ffe066",
	dataset.Sodium:       "#5bc0eb",
	dataset.Sugars:       "#ffc2d1",
}

// Chart sizes.
const (
	width     = 8 * vg.Inch
	height    = 5 * vg.Inch
	barWidth  = 18
	imageType = "png"
)

// Ends of the score color ramp, light for 0 and dark green for 100.
var (
	rampLow  = color.RGBA{R: 0xe5, G: 0xf5, B: 0xe0, A: 0xff}
	rampHigh = color.RGBA{R: 0x00, G: 0x6d, B: 0x2c, A: 0xff}
)

// TopItems draws items as a horizontal bar chart of their scores, the first
// item at the top. Callers pass items already ranked and trimmed.
func TopItems(w io.Writer, items []dataset.ScoredItem) error {
	if len(items) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Top Healthiest Items"
	p.X.Label.Text = "Health Score"
	p.X.Min = 0
	p.X.Max = 100

	n := len(items)
	names := make([]string, n)
	for i, it := range items {
		pos := n - 1 - i
		names[pos] = it.Item

		bar, err := plotter.NewBarChart(plotter.Values{it.Score}, vg.Points(barWidth))
		if err != nil {
			return fmt.Errorf("charts: top items: %w", err)
		}
		bar.Horizontal = true
		bar.XMin = float64(pos)
		bar.Color = ScoreColor(it.Score)
		bar.LineStyle.Width = 0
		p.Add(bar)
	}
	p.NominalY(names...)

	return render(w, p)
}

// CategoryProfile draws the average nutrient content of one category, one
// colored bar per nutrient.
func CategoryProfile(w io.Writer, prof store.Profile) error {
	if prof.Items == 0 || len(prof.Nutrients) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Average Nutrients in %q Items", prof.Category)
	p.Y.Label.Text = "Average per item (grams)"
	p.Y.Min = 0

	names := make([]string, len(prof.Nutrients))
	for i, nm := range prof.Nutrients {
		names[i] = nm.Nutrient.String()

		bar, err := plotter.NewBarChart(plotter.Values{nm.Grams}, vg.Points(barWidth*2))
		if err != nil {
			return fmt.Errorf("charts: category profile: %w", err)
		}
		bar.XMin = float64(i)
		bar.Color = NutrientColor(nm.Nutrient)
		bar.LineStyle.Width = 0
		p.Add(bar)
	}
	p.NominalX(names...)

	return render(w, p)
}

// ScoreColor shades a score on a white-to-green ramp.
func ScoreColor(score float64) color.RGBA {
	t := score / 100
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
	}
	return color.RGBA{
		R: mix(rampLow.R, rampHigh.R),
		G: mix(rampLow.G, rampHigh.G),
		B: mix(rampLow.B, rampHigh.B),
		A: 0xff,
	}
}

// NutrientColor returns the bar color of n, gray when n has none.
func NutrientColor(n dataset.Nutrient) color.RGBA {
	c, err := ParseHex(NutrientColors[n])
	if err != nil {
		return color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
	}
	return c
}

// ParseHex parses a "#rrggbb" color.
func ParseHex(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("charts: invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("charts: invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func render(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(width, height, imageType)
	if err != nil {
		return fmt.Errorf("charts: render: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("charts: write: %w", err)
	}
	return nil
}
