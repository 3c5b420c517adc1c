package store

import (
	"math"
	"sort"

	"github.com/menuscore/menuscore/pkg/dataset"
	"github.com/menuscore/menuscore/pkg/types"
)

// Thresholds configures the nutrient filters.
type Thresholds struct {
	HighProteinGrams float64
	LowSodiumMg      float64
}

// Filter selects items. The zero value of Categories matches every category.
type Filter struct {
	Categories  []string
	MinScore    float64
	MaxScore    float64
	HighProtein bool
	LowSodium   bool
}

// AllItems returns a filter that matches every item.
func AllItems() Filter {
	return Filter{MinScore: 0, MaxScore: 100}
}

// Match reports whether it passes f. The nutrient filters reject items with a
// missing value.
func (f Filter) Match(it dataset.ScoredItem, th Thresholds) bool {
	if len(f.Categories) > 0 && !contains(f.Categories, it.Category) {
		return false
	}
	if it.Score < f.MinScore || it.Score > f.MaxScore {
		return false
	}
	if f.HighProtein && !isHighProtein(it, th) {
		return false
	}
	if f.LowSodium && !(it.Sodium.Present && it.Sodium.Value <= th.LowSodiumMg) {
		return false
	}
	return true
}

// Select returns the items matching f in dataset order.
func Select(items []dataset.ScoredItem, f Filter, th Thresholds) []dataset.ScoredItem {
	out := make([]dataset.ScoredItem, 0, len(items))
	for _, it := range items {
		if f.Match(it, th) {
			out = append(out, it)
		}
	}
	return out
}

// Rank returns items ordered by score, highest first, keeping dataset order
// for ties. n <= 0 returns all of them.
func Rank(items []dataset.ScoredItem, n int) []dataset.ScoredItem {
	return dataset.RankBy(items, func(it dataset.ScoredItem) float64 { return it.Score }, n)
}

// KPIs summarises a set of items.
type KPIs struct {
	Total        int
	AverageScore float64
	HighProtein  int
	Tiers        map[string]int
}

// Summarize computes the KPIs of items. The average of an empty set is 0.
func Summarize(items []dataset.ScoredItem, th Thresholds) KPIs {
	k := KPIs{Total: len(items), Tiers: make(map[string]int, len(types.Tiers))}
	for _, tier := range types.Tiers {
		k.Tiers[tier] = 0
	}

	var sum float64
	for _, it := range items {
		sum += it.Score
		k.Tiers[it.Tier()]++
		if isHighProtein(it, th) {
			k.HighProtein++
		}
	}
	if len(items) > 0 {
		k.AverageScore = math.Round(sum/float64(len(items))*100) / 100
	}
	return k
}

// Categories returns the distinct categories of items, sorted.
func Categories(items []dataset.ScoredItem) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, it := range items {
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	sort.Strings(out)
	return out
}

// ProfileNutrients lists the nutrients shown in a category profile, in
// display order. Calories are reported separately.
var ProfileNutrients = []dataset.Nutrient{
	dataset.Protein,
	dataset.DietaryFiber,
	dataset.SaturatedFat,
	dataset.Sodium,
	dataset.Sugars,
}

// NutrientMean is the average of one nutrient over a category.
type NutrientMean struct {
	Nutrient dataset.Nutrient
	// Grams is the mean per item in grams. Sodium is converted from mg.
	Grams float64
}

// Profile is the average nutrient content of one category.
type Profile struct {
	Category  string
	Items     int
	Nutrients []NutrientMean
	Calories  float64
}

// CategoryProfile averages the nutrients of the items in category. Missing
// values are left out of each mean. It returns false when no item belongs
// to the category.
func CategoryProfile(items []dataset.ScoredItem, category string) (Profile, bool) {
	p := Profile{Category: category}

	type acc struct {
		sum float64
		n   int
	}
	sums := make(map[dataset.Nutrient]*acc, len(dataset.Nutrients))
	for _, n := range dataset.Nutrients {
		sums[n] = &acc{}
	}

	for _, it := range items {
		if it.Category != category {
			continue
		}
		p.Items++
		for _, n := range dataset.Nutrients {
			if a := it.Amount(n); a.Present {
				sums[n].sum += a.Value
				sums[n].n++
			}
		}
	}
	if p.Items == 0 {
		return p, false
	}

	mean := func(n dataset.Nutrient) float64 {
		if sums[n].n == 0 {
			return 0
		}
		return sums[n].sum / float64(sums[n].n)
	}
	for _, n := range ProfileNutrients {
		v := mean(n)
		if n == dataset.Sodium {
			v /= 1000
		}
		p.Nutrients = append(p.Nutrients, NutrientMean{Nutrient: n, Grams: v})
	}
	p.Calories = mean(dataset.Calories)
	return p, true
}

func isHighProtein(it dataset.ScoredItem, th Thresholds) bool {
	return it.Protein.Present && it.Protein.Value >= th.HighProteinGrams
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
