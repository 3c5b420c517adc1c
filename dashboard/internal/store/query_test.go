package store

import (
	"math"
	"reflect"
	"testing"

	"github.com/menuscore/menuscore/pkg/dataset"
	"github.com/menuscore/menuscore/pkg/types"
)

var defaultThresholds = Thresholds{HighProteinGrams: 20, LowSodiumMg: 400}

func itemNames(items []dataset.ScoredItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Item
	}
	return out
}

func TestSelect(t *testing.T) {
	items := loaded(t).Items()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", AllItems(), []string{"Egg McMuffin", "Big Breakfast", "Side Salad", "Grilled Chicken", "Water"}},
		{"one category", Filter{Categories: []string{"Breakfast"}, MaxScore: 100}, []string{"Egg McMuffin", "Big Breakfast"}},
		{"two categories", Filter{Categories: []string{"Salads", "Beverages"}, MaxScore: 100}, []string{"Side Salad", "Water"}},
		{"score range inclusive", Filter{MinScore: 59, MaxScore: 70}, []string{"Egg McMuffin", "Grilled Chicken", "Water"}},
		{"high protein", Filter{MaxScore: 100, HighProtein: true}, []string{"Big Breakfast", "Grilled Chicken"}},
		{"low sodium", Filter{MaxScore: 100, LowSodium: true}, []string{"Side Salad", "Water"}},
		{"combined", Filter{Categories: []string{"Breakfast"}, MinScore: 50, MaxScore: 100}, []string{"Egg McMuffin"}},
		{"nothing", Filter{Categories: []string{"Desserts"}, MaxScore: 100}, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := itemNames(Select(items, tc.filter, defaultThresholds))
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Select: got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMatch_MissingNutrient(t *testing.T) {
	it := dataset.ScoredItem{MenuItem: dataset.MenuItem{Item: "x", Protein: dataset.Missing, Sodium: dataset.Missing}, Score: 50}
	if (Filter{MaxScore: 100, HighProtein: true}).Match(it, defaultThresholds) {
		t.Error("missing protein must not pass the high protein filter")
	}
	if (Filter{MaxScore: 100, LowSodium: true}).Match(it, defaultThresholds) {
		t.Error("missing sodium must not pass the low sodium filter")
	}
}

func TestRank(t *testing.T) {
	items := loaded(t).Items()

	got := itemNames(Rank(items, 3))
	want := []string{"Side Salad", "Grilled Chicken", "Egg McMuffin"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rank: got %v, want %v", got, want)
	}
	if len(Rank(items, 0)) != len(items) {
		t.Error("Rank(0) should return every item")
	}
}

func TestSummarize(t *testing.T) {
	items := loaded(t).Items()
	k := Summarize(items, defaultThresholds)

	if k.Total != 5 {
		t.Errorf("Total: got %d, want 5", k.Total)
	}
	// (62.10 + 31.40 + 74.25 + 70.00 + 59.00) / 5 = 59.35
	if k.AverageScore != 59.35 {
		t.Errorf("AverageScore: got %v, want 59.35", k.AverageScore)
	}
	if k.HighProtein != 2 {
		t.Errorf("HighProtein: got %d, want 2", k.HighProtein)
	}
	want := map[string]int{types.TierHealthy: 2, types.TierModerate: 2, types.TierUnhealthy: 1}
	if !reflect.DeepEqual(k.Tiers, want) {
		t.Errorf("Tiers: got %v, want %v", k.Tiers, want)
	}
}

func TestSummarize_Empty(t *testing.T) {
	k := Summarize(nil, defaultThresholds)
	if k.Total != 0 || k.AverageScore != 0 || math.IsNaN(k.AverageScore) {
		t.Errorf("empty KPIs: got %+v", k)
	}
	if len(k.Tiers) != 3 {
		t.Errorf("Tiers should list every tier, got %v", k.Tiers)
	}
}

func TestCategories(t *testing.T) {
	got := Categories(loaded(t).Items())
	want := []string{"Beverages", "Breakfast", "Chicken & Fish", "Salads"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Categories: got %v, want %v", got, want)
	}
}

func TestCategoryProfile(t *testing.T) {
	p, ok := CategoryProfile(loaded(t).Items(), "Breakfast")
	if !ok {
		t.Fatal("CategoryProfile: category not found")
	}
	if p.Items != 2 {
		t.Errorf("Items: got %d, want 2", p.Items)
	}

	want := map[dataset.Nutrient]float64{
		dataset.Protein:      22.5,
		dataset.DietaryFiber: 4,
		dataset.SaturatedFat: 11.5,
		dataset.Sodium:       1.155, // (750 + 1560) / 2 mg → g
		dataset.Sugars:       3,
	}
	if len(p.Nutrients) != len(ProfileNutrients) {
		t.Fatalf("Nutrients len: got %d, want %d", len(p.Nutrients), len(ProfileNutrients))
	}
	for i, nm := range p.Nutrients {
		if nm.Nutrient != ProfileNutrients[i] {
			t.Errorf("Nutrients[%d]: got %v, want %v", i, nm.Nutrient, ProfileNutrients[i])
		}
		if math.Abs(nm.Grams-want[nm.Nutrient]) > 1e-9 {
			t.Errorf("%s: got %v, want %v", nm.Nutrient, nm.Grams, want[nm.Nutrient])
		}
	}
	if p.Calories != 520 {
		t.Errorf("Calories: got %v, want 520", p.Calories)
	}
}

func TestCategoryProfile_Unknown(t *testing.T) {
	if _, ok := CategoryProfile(loaded(t).Items(), "Desserts"); ok {
		t.Error("CategoryProfile: unknown category reported as found")
	}
}
