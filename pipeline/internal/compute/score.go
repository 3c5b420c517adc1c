package compute

import (
	"math"

	"github.com/menuscore/menuscore/pkg/dataset"
	"github.com/menuscore/menuscore/pkg/types"
)

// Weight constants for the health score formula. They sum to 1.0, which
// scales the best achievable score to 100.
const (
	weightProtein      = 0.20
	weightDietaryFiber = 0.15
	weightSaturatedFat = 0.20
	weightSodium       = 0.20
	weightSugars       = 0.15
	weightCalories     = 0.10
)

// Score bounds.
const (
	MinScore = 0.0
	MaxScore = 100.0
)

// Direction tells whether a higher nutrient value raises or lowers the score.
type Direction int

const (
	Beneficial Direction = iota
	Harmful
)

func (d Direction) String() string {
	if d == Harmful {
		return "harmful"
	}
	return "beneficial"
}

// Weight is one term of the score formula.
type Weight struct {
	Nutrient  dataset.Nutrient
	Weight    float64
	Direction Direction
}

// Weights is the fixed scoring configuration.
var Weights = []Weight{
	{Nutrient: dataset.Protein, Weight: weightProtein, Direction: Beneficial},
	{Nutrient: dataset.DietaryFiber, Weight: weightDietaryFiber, Direction: Beneficial},
	{Nutrient: dataset.SaturatedFat, Weight: weightSaturatedFat, Direction: Harmful},
	{Nutrient: dataset.Sodium, Weight: weightSodium, Direction: Harmful},
	{Nutrient: dataset.Sugars, Weight: weightSugars, Direction: Harmful},
	{Nutrient: dataset.Calories, Weight: weightCalories, Direction: Harmful},
}

// TotalWeight returns the sum of the weights in ws.
func TotalWeight(ws []Weight) float64 {
	var sum float64
	for _, w := range ws {
		sum += w.Weight
	}
	return sum
}

// Range is the observed span of one nutrient column.
type Range struct {
	Min, Max float64
	// Count is the number of rows that had a value.
	Count int
}

// Normalize rescales v into [0, 1] relative to r. A zero-width range
// normalizes every value to 0.
func (r Range) Normalize(v float64) float64 {
	if r.Max == r.Min {
		return 0
	}
	return (v - r.Min) / (r.Max - r.Min)
}

// Ranges maps each scored nutrient to its observed range.
type Ranges map[dataset.Nutrient]Range

// Fit computes the min and max of every weighted nutrient over the rows that
// have a value for it.
func Fit(items []dataset.MenuItem, ws []Weight) Ranges {
	out := make(Ranges, len(ws))
	for _, w := range ws {
		var r Range
		for _, it := range items {
			a := it.Amount(w.Nutrient)
			if !a.Present {
				continue
			}
			if r.Count == 0 {
				r.Min, r.Max = a.Value, a.Value
			} else {
				r.Min = math.Min(r.Min, a.Value)
				r.Max = math.Max(r.Max, a.Value)
			}
			r.Count++
		}
		out[w.Nutrient] = r
	}
	return out
}

// Contribution returns the score term of one nutrient for one row.
// A missing value contributes 0.
func Contribution(w Weight, a dataset.Amount, r Range) float64 {
	if !a.Present {
		return 0
	}
	norm := r.Normalize(a.Value)
	if w.Direction == Harmful {
		norm = 1 - norm
	}
	return norm * w.Weight * 100
}

// Result is the score of one menu item.
type Result struct {
	// Row is the position of the item in its dataset.
	Row  int
	Item string

	// Raw is the sum of contributions before clipping and rounding.
	Raw float64

	// Score is Raw clipped to [0, 100] and rounded to two decimals.
	Score float64

	// Tier is the qualitative tier derived from Score.
	Tier string

	// Contributions holds each nutrient's term, useful for breakdowns.
	Contributions map[dataset.Nutrient]float64
}

// Compute scores every item with the fixed Weights.
func Compute(items []dataset.MenuItem) []Result {
	return ComputeWith(items, Weights)
}

// ComputeWith scores every item with ws. Ranges are fitted on items, so the
// score of a row depends on the whole dataset.
func ComputeWith(items []dataset.MenuItem, ws []Weight) []Result {
	ranges := Fit(items, ws)
	out := make([]Result, len(items))
	for i, it := range items {
		res := Result{
			Row:           it.Row,
			Item:          it.Item,
			Contributions: make(map[dataset.Nutrient]float64, len(ws)),
		}
		for _, w := range ws {
			c := Contribution(w, it.Amount(w.Nutrient), ranges[w.Nutrient])
			res.Contributions[w.Nutrient] = c
			res.Raw += c
		}
		res.Score = round2(clamp(res.Raw, MinScore, MaxScore))
		res.Tier = types.TierFromScore(res.Score)
		out[i] = res
	}
	return out
}

// Rank returns up to n results ordered by score, highest first. Equal scores
// keep dataset order. n <= 0 returns all results.
func Rank(results []Result, n int) []Result {
	return dataset.RankBy(results, func(r Result) float64 { return r.Score }, n)
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round2 rounds v to two decimal places, halves away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
