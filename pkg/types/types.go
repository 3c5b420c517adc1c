package types

// Column names of the menu nutrition dataset.
const (
	ColumnItem         = "Item"
	ColumnCategory     = "Category"
	ColumnProtein      = "Protein"
	ColumnDietaryFiber = "Dietary Fiber"
	ColumnSaturatedFat = "Saturated Fat"
	ColumnSodium       = "Sodium"
	ColumnSugars       = "Sugars"
	ColumnCalories     = "Calories"

	// ColumnHealthScore is appended by the scorer.
	ColumnHealthScore = "Health Score"
)

// Tier names derived from a health score.
const (
	TierHealthy   = "Healthy"
	TierModerate  = "Moderate"
	TierUnhealthy = "Unhealthy"
)

// Thresholds that map a score to a tier. Scores are on the 0–100 scale.
const (
	ThresholdHealthy  = 70.0
	ThresholdModerate = 40.0
)

// Tiers lists the tier names from best to worst.
var Tiers = []string{TierHealthy, TierModerate, TierUnhealthy}

// TierFromScore maps a 0–100 health score to its qualitative tier.
func TierFromScore(score float64) string {
	switch {
	case score >= ThresholdHealthy:
		return TierHealthy
	case score >= ThresholdModerate:
		return TierModerate
	default:
		return TierUnhealthy
	}
}
