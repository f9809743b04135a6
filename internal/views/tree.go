// Package views derives view-ready shapes (trees, groupings, sort
// orders) from the flat entity collections held in cache. Everything
// here is a pure function over its inputs: trees are always rebuilt
// from the full collection rather than patched incrementally, so they
// can never diverge from the source data.
package views

import (
	"sort"

	"github.com/windrosehq/windrose-go/internal/types"
)

// Node is one element of a derived tree.
type Node[T any] struct {
	Item     T
	Children []*Node[T]
}

// BuildTree arranges a flat collection into a tree using the provided
// accessors. Records whose parent is missing from the input are placed
// at the root rather than dropped: a record can outlive its parent
// between a delete and the next refetch. Siblings sort by ascending
// order value; ties keep input order.
func BuildTree[T any](items []T, id, parentID func(T) string, order func(T) float64) []*Node[T] {
	index := make(map[string]*Node[T], len(items))
	nodes := make([]*Node[T], 0, len(items))
	for _, it := range items {
		n := &Node[T]{Item: it}
		index[id(it)] = n
		nodes = append(nodes, n)
	}

	var roots []*Node[T]
	for _, n := range nodes {
		pid := parentID(n.Item)
		if pid == "" {
			roots = append(roots, n)
			continue
		}
		parent, ok := index[pid]
		if !ok || parent == n {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	sortNodes(roots, order)
	for _, n := range nodes {
		if len(n.Children) > 1 {
			sortNodes(n.Children, order)
		}
	}
	return roots
}

func sortNodes[T any](ns []*Node[T], order func(T) float64) {
	sort.SliceStable(ns, func(i, j int) bool {
		return order(ns[i].Item) < order(ns[j].Item)
	})
}

// Flatten walks the tree depth-first, reporting each item with its depth.
func Flatten[T any](roots []*Node[T], visit func(item T, depth int)) {
	var walk func(ns []*Node[T], depth int)
	walk = func(ns []*Node[T], depth int) {
		for _, n := range ns {
			visit(n.Item, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(roots, 0)
}

// LabelTree builds the label hierarchy for a project.
func LabelTree(labels []types.Label) []*Node[types.Label] {
	return BuildTree(labels,
		func(l types.Label) string { return l.ID },
		func(l types.Label) string { return strOrEmpty(l.ParentID) },
		func(l types.Label) float64 { return l.SortOrder },
	)
}

// PageTree builds the wiki page hierarchy.
func PageTree(pages []types.Page) []*Node[types.Page] {
	return BuildTree(pages,
		func(p types.Page) string { return p.ID },
		func(p types.Page) string { return strOrEmpty(p.ParentID) },
		func(p types.Page) float64 { return p.SortOrder },
	)
}

// FavoriteTree builds the sidebar favorites hierarchy.
func FavoriteTree(favs []types.Favorite) []*Node[types.Favorite] {
	return BuildTree(favs,
		func(f types.Favorite) string { return f.ID },
		func(f types.Favorite) string { return strOrEmpty(f.ParentID) },
		func(f types.Favorite) float64 { return f.SortOrder },
	)
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
