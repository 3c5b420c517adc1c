package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/menuscore/menuscore/pkg/types"
)

// Nutrient identifies one of the numeric nutrient columns.
type Nutrient int

const (
	Protein Nutrient = iota
	DietaryFiber
	SaturatedFat
	Sodium
	Sugars
	Calories
)

// Nutrients lists every nutrient in column order of the raw dataset.
var Nutrients = []Nutrient{Protein, DietaryFiber, SaturatedFat, Sodium, Sugars, Calories}

// Column returns the CSV column name of n.
func (n Nutrient) Column() string {
	switch n {
	case Protein:
		return types.ColumnProtein
	case DietaryFiber:
		return types.ColumnDietaryFiber
	case SaturatedFat:
		return types.ColumnSaturatedFat
	case Sodium:
		return types.ColumnSodium
	case Sugars:
		return types.ColumnSugars
	case Calories:
		return types.ColumnCalories
	default:
		return fmt.Sprintf("Nutrient(%d)", int(n))
	}
}

func (n Nutrient) String() string { return n.Column() }

// Amount is a nutrient value that may be missing.
type Amount struct {
	Value   float64
	Present bool
}

// Some returns a present Amount.
func Some(v float64) Amount { return Amount{Value: v, Present: true} }

// Missing is the zero Amount.
var Missing = Amount{}

// missingTokens are the cell values treated as "no value".
var missingTokens = map[string]struct{}{
	"":    {},
	"NA":  {},
	"NaN": {},
	"N/A": {},
}

// IsMissing reports whether cell is a missing-value marker.
func IsMissing(cell string) bool {
	_, ok := missingTokens[strings.TrimSpace(cell)]
	return ok
}

// ParseAmount parses a nutrient cell. Missing markers yield Missing; anything
// else must be a finite number.
func ParseAmount(cell string) (Amount, error) {
	if IsMissing(cell) {
		return Missing, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return Missing, fmt.Errorf("not a number: %q", cell)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing, fmt.Errorf("not a finite number: %q", cell)
	}
	return Some(v), nil
}

// MenuItem is one row of the menu dataset.
type MenuItem struct {
	// Row is the 0-based position of the row in its table.
	Row      int
	Item     string
	Category string

	Protein      Amount
	DietaryFiber Amount
	SaturatedFat Amount
	Sodium       Amount
	Sugars       Amount
	Calories     Amount
}

// Amount returns the value of nutrient n.
func (m MenuItem) Amount(n Nutrient) Amount {
	switch n {
	case Protein:
		return m.Protein
	case DietaryFiber:
		return m.DietaryFiber
	case SaturatedFat:
		return m.SaturatedFat
	case Sodium:
		return m.Sodium
	case Sugars:
		return m.Sugars
	case Calories:
		return m.Calories
	default:
		return Missing
	}
}

// SetAmount sets the value of nutrient n.
func (m *MenuItem) SetAmount(n Nutrient, a Amount) {
	switch n {
	case Protein:
		m.Protein = a
	case DietaryFiber:
		m.DietaryFiber = a
	case SaturatedFat:
		m.SaturatedFat = a
	case Sodium:
		m.Sodium = a
	case Sugars:
		m.Sugars = a
	case Calories:
		m.Calories = a
	}
}

// RequiredColumns lists the columns DecodeItems needs.
func RequiredColumns() []string {
	cols := []string{types.ColumnItem, types.ColumnCategory}
	for _, n := range Nutrients {
		cols = append(cols, n.Column())
	}
	return cols
}

// DecodeItems converts t into typed menu items, one per row.
func DecodeItems(t *Table) ([]MenuItem, error) {
	if err := t.Require(RequiredColumns()...); err != nil {
		return nil, err
	}

	names, _ := t.Column(types.ColumnItem)
	cats, _ := t.Column(types.ColumnCategory)
	items := make([]MenuItem, t.Len())
	for i := range items {
		items[i] = MenuItem{Row: i, Item: names[i], Category: cats[i]}
	}

	for _, n := range Nutrients {
		cells, _ := t.Column(n.Column())
		for i, cell := range cells {
			a, err := ParseAmount(cell)
			if err != nil {
				return nil, &SchemaError{Path: t.Path(), Column: n.Column(), Row: i + 1, Reason: err.Error()}
			}
			items[i].SetAmount(n, a)
		}
	}
	return items, nil
}

// ScoredItem is a menu item with its health score.
type ScoredItem struct {
	MenuItem
	Score float64
}

// Tier returns the qualitative tier of the item's score.
func (s ScoredItem) Tier() string { return types.TierFromScore(s.Score) }

// DecodeScored converts a scored table into items. The score column must be
// present on every row and lie in [0, 100].
func DecodeScored(t *Table) ([]ScoredItem, error) {
	items, err := DecodeItems(t)
	if err != nil {
		return nil, err
	}
	scores, err := t.Column(types.ColumnHealthScore)
	if err != nil {
		return nil, err
	}

	out := make([]ScoredItem, len(items))
	for i, cell := range scores {
		a, err := ParseAmount(cell)
		if err != nil || !a.Present {
			reason := "missing score"
			if err != nil {
				reason = err.Error()
			}
			return nil, &SchemaError{Path: t.Path(), Column: types.ColumnHealthScore, Row: i + 1, Reason: reason}
		}
		if a.Value < 0 || a.Value > 100 {
			return nil, &SchemaError{Path: t.Path(), Column: types.ColumnHealthScore, Row: i + 1,
				Reason: fmt.Sprintf("score %v outside [0, 100]", a.Value)}
		}
		out[i] = ScoredItem{MenuItem: items[i], Score: a.Value}
	}
	return out, nil
}
