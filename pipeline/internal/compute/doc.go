// Package compute derives the menu health score from typed menu items.
//
// score.go holds the weighted nutrient groups and the pure scoring functions:
//
//	beneficial: Protein 0.20, Dietary Fiber 0.15
//	harmful:    Saturated Fat 0.20, Sodium 0.20, Sugars 0.15, Calories 0.10
//
// For each nutrient the dataset min and max are taken over rows that have a
// value. A row's term is norm*w*100 for beneficial nutrients and
// (1-norm)*w*100 for harmful ones, norm = (v-min)/(max-min). The total is
// clipped to [0, 100] and rounded to two decimals.
//
// Two conventions keep the result defined for every row:
//   - a column whose min equals its max normalizes to 0 for all rows;
//   - a row without a value for a nutrient gets a 0 term for it.
//
// Tiers follow pkg/types: Healthy ≥70, Moderate 40–69, Unhealthy <40.
package compute
