package scoring

import (
	"cmp"
	"slices"
)

// FinishOrder returns the indices of points ordered by finishing place:
// points descending, and among equal points the lower index (earlier seat in
// table iteration order) places higher. The result is a strict total order,
// so equal scores never reach the rater as a tie.
func FinishOrder(points []int) []int {
	idx := make([]int, len(points))
	for i := range idx {
		idx[i] = i
	}
	slices.SortFunc(idx, func(a, b int) int {
		if c := cmp.Compare(points[b], points[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return idx
}
