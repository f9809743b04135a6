package views

import (
	"reflect"
	"testing"

	"github.com/windrosehq/windrose-go/internal/types"
)

func label(id, parent string, order float64) types.Label {
	l := types.Label{ID: id, WorkspaceID: "w1", ProjectID: "p1", Name: id, SortOrder: order}
	if parent != "" {
		l.ParentID = &parent
	}
	return l
}

func TestBuildTreeNestsAndSortsSiblings(t *testing.T) {
	labels := []types.Label{
		label("backend", "", 20000),
		label("frontend", "", 10000),
		label("api", "backend", 20000),
		label("storage", "backend", 10000),
	}

	roots := LabelTree(labels)

	if len(roots) != 2 {
		t.Fatalf("got %d roots, want 2", len(roots))
	}
	if roots[0].Item.ID != "frontend" || roots[1].Item.ID != "backend" {
		t.Errorf("root order = [%s, %s], want [frontend, backend]",
			roots[0].Item.ID, roots[1].Item.ID)
	}

	children := roots[1].Children
	if len(children) != 2 {
		t.Fatalf("backend has %d children, want 2", len(children))
	}
	if children[0].Item.ID != "storage" || children[1].Item.ID != "api" {
		t.Errorf("child order = [%s, %s], want [storage, api]",
			children[0].Item.ID, children[1].Item.ID)
	}
}

func TestBuildTreeOrphanBecomesRoot(t *testing.T) {
	labels := []types.Label{
		label("alive", "", 10000),
		label("orphan", "deleted-parent", 20000),
	}

	roots := LabelTree(labels)

	if len(roots) != 2 {
		t.Fatalf("got %d roots, want 2 (orphan must not be dropped)", len(roots))
	}
	if roots[1].Item.ID != "orphan" {
		t.Errorf("orphan not placed at root: %v", roots[1].Item.ID)
	}
}

func TestBuildTreeSelfParentBecomesRoot(t *testing.T) {
	labels := []types.Label{label("loop", "loop", 10000)}

	roots := LabelTree(labels)

	if len(roots) != 1 || len(roots[0].Children) != 0 {
		t.Fatalf("self-parented record mishandled: %+v", roots)
	}
}

func TestFlattenDepthFirst(t *testing.T) {
	pages := []types.Page{
		{ID: "guide", WorkspaceID: "w1", Name: "guide", SortOrder: 10000},
		{ID: "setup", WorkspaceID: "w1", Name: "setup", SortOrder: 10000, ParentID: strPtr("guide")},
		{ID: "deploy", WorkspaceID: "w1", Name: "deploy", SortOrder: 20000, ParentID: strPtr("guide")},
		{ID: "faq", WorkspaceID: "w1", Name: "faq", SortOrder: 20000},
	}

	type visit struct {
		id    string
		depth int
	}
	var got []visit
	Flatten(PageTree(pages), func(p types.Page, depth int) {
		got = append(got, visit{p.ID, depth})
	})

	want := []visit{
		{"guide", 0},
		{"setup", 1},
		{"deploy", 1},
		{"faq", 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("walk order = %v, want %v", got, want)
	}
}

func strPtr(s string) *string { return &s }
