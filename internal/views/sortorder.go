package views

import (
	"github.com/windrosehq/windrose-go/internal/types"
)

// Edge identifies which side of the drop target a dragged item lands on.
type Edge string

const (
	EdgeAbove Edge = "above"
	EdgeBelow Edge = "below"
)

// Between returns the midpoint of two neighboring sort-order values.
// It reports false when the gap has collapsed below float64 resolution
// and no strictly-between value exists; callers renumber the list then.
func Between(a, b float64) (float64, bool) {
	if b < a {
		a, b = b, a
	}
	mid := a + (b-a)/2
	if mid <= a || mid >= b {
		return 0, false
	}
	return mid, true
}

// Before returns an order value placing an item ahead of the current
// first sibling.
func Before(first float64) float64 {
	return first - types.DefaultOrderStep
}

// After returns an order value placing an item past the current last
// sibling.
func After(last float64) float64 {
	return last + types.DefaultOrderStep
}

// ForDrop computes the order value for dropping an item next to the
// sibling at target, given the ascending order values of the existing
// siblings (excluding the dragged item itself). It reports false when
// the relevant gap has collapsed and the list needs renumbering.
func ForDrop(orders []float64, target int, edge Edge) (float64, bool) {
	if len(orders) == 0 {
		return types.DefaultOrderStep, true
	}
	if target < 0 {
		target = 0
	}
	if target >= len(orders) {
		target = len(orders) - 1
	}

	switch edge {
	case EdgeAbove:
		if target == 0 {
			return Before(orders[0]), true
		}
		return Between(orders[target-1], orders[target])
	default:
		if target == len(orders)-1 {
			return After(orders[len(orders)-1]), true
		}
		return Between(orders[target], orders[target+1])
	}
}

// Renumber returns fresh order values spaced a full step apart for n
// items, restoring headroom after repeated midpoint insertions have
// exhausted a gap.
func Renumber(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i+1) * types.DefaultOrderStep
	}
	return out
}
