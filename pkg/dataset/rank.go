package dataset

import "sort"

// RankBy returns up to n elements of xs ordered by score, highest first.
// Equal scores keep input order and xs itself is not reordered. n <= 0
// returns every element.
func RankBy[T any](xs []T, score func(T) float64, n int) []T {
	ranked := make([]T, len(xs))
	copy(ranked, xs)
	sort.SliceStable(ranked, func(i, j int) bool {
		return score(ranked[i]) > score(ranked[j])
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
