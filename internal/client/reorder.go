package client

import (
	"github.com/windrosehq/windrose-go/internal/views"
)

// orderAssign is one sort-order write produced by a reorder plan.
type orderAssign struct {
	id    string
	order float64
}

// planReorder resolves a drag-and-drop to the sort-order writes it
// needs. siblings are the item's neighbors in ascending order, without
// the moved item itself. The common case is a single fractional write;
// when the target gap has collapsed below float64 resolution the whole
// arrangement is renumbered at full steps and every shifted sibling
// gets a write. The moved item is always in the plan, so a caller
// piggybacking extra field changes on its write can rely on it.
func planReorder[T any](siblings []T, moved T, target int, edge views.Edge, idOf func(T) string, orderOf func(T) float64) []orderAssign {
	orders := make([]float64, len(siblings))
	for i, s := range siblings {
		orders[i] = orderOf(s)
	}
	if o, ok := views.ForDrop(orders, target, edge); ok {
		return []orderAssign{{id: idOf(moved), order: o}}
	}

	idx := insertIndex(len(siblings), target, edge)
	arranged := make([]T, 0, len(siblings)+1)
	arranged = append(arranged, siblings[:idx]...)
	arranged = append(arranged, moved)
	arranged = append(arranged, siblings[idx:]...)

	fresh := views.Renumber(len(arranged))
	assigns := make([]orderAssign, 0, len(arranged))
	for i, it := range arranged {
		if orderOf(it) != fresh[i] || idOf(it) == idOf(moved) {
			assigns = append(assigns, orderAssign{id: idOf(it), order: fresh[i]})
		}
	}
	return assigns
}

// insertIndex converts a target/edge pair into a slice insertion point.
func insertIndex(n, target int, edge views.Edge) int {
	if n == 0 {
		return 0
	}
	if target < 0 {
		target = 0
	}
	if target >= n {
		target = n - 1
	}
	if edge == views.EdgeAbove {
		return target
	}
	return target + 1
}

// applyAssigns rewrites the sort orders in a cached list per the plan.
func applyAssigns[T any](v any, assigns []orderAssign, idOf func(T) string, withOrder func(T, float64) T) any {
	items, ok := v.([]T)
	if !ok {
		return v
	}
	out := make([]T, len(items))
	copy(out, items)
	for i := range out {
		for _, a := range assigns {
			if idOf(out[i]) == a.id {
				out[i] = withOrder(out[i], a.order)
			}
		}
	}
	return out
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
