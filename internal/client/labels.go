package client

import (
	"context"
	"fmt"
	"sort"

	"github.com/windrosehq/windrose-go/internal/cache"
	"github.com/windrosehq/windrose-go/internal/idgen"
	"github.com/windrosehq/windrose-go/internal/optimistic"
	"github.com/windrosehq/windrose-go/internal/querykey"
	"github.com/windrosehq/windrose-go/internal/types"
	"github.com/windrosehq/windrose-go/internal/views"
)

// LabelClient reads and mutates project labels. The cache holds the
// flat list; Tree rebuilds the nested view from it on every call.
type LabelClient struct {
	c *Client
}

func labelID(l types.Label) string { return l.ID }

func (lc *LabelClient) List(ctx context.Context, workspace, project string) ([]types.Label, error) {
	if !scoped(workspace, project) {
		return nil, nil
	}
	key := querykey.Labels(workspace, project)
	return fetchAs(ctx, lc.c, key, cache.FetchOptions{}, func(ctx context.Context) ([]types.Label, error) {
		return lc.c.api.Labels.List(ctx, workspace, project)
	})
}

// Tree returns the labels as a nested structure: children under their
// parents, orphans promoted to roots, siblings in sort order.
func (lc *LabelClient) Tree(ctx context.Context, workspace, project string) ([]*views.Node[types.Label], error) {
	labels, err := lc.List(ctx, workspace, project)
	if err != nil {
		return nil, err
	}
	return views.LabelTree(labels), nil
}

// Create appends the label optimistically under a temp id. The caller
// sees it in the list immediately; the refetch swaps in the server
// record with its real id.
func (lc *LabelClient) Create(ctx context.Context, workspace, project string, label types.Label) (*types.Label, error) {
	if !scoped(workspace, project) {
		return nil, scopeErr("label.create")
	}
	if err := label.Validate(); err != nil {
		return nil, fmt.Errorf("client: label.create: %w", err)
	}
	listKey := querykey.Labels(workspace, project)

	local := label
	local.ID = idgen.NewTempID("label")
	local.ProjectID = project
	if local.SortOrder == 0 {
		local.SortOrder = lc.nextOrder(workspace, project)
	}

	var created *types.Label
	err := lc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "label.create",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return appendItem(v, local)
			})
		},
		Call: func(ctx context.Context) error {
			out, err := lc.c.api.Labels.Create(ctx, workspace, project, label)
			if err != nil {
				return err
			}
			created = out
			return nil
		},
		Invalidates: []querykey.Key{listKey},
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// nextOrder places a new label after the current last root sibling.
func (lc *LabelClient) nextOrder(workspace, project string) float64 {
	e, ok := lc.c.store.Get(querykey.Labels(workspace, project))
	if !ok {
		return types.DefaultOrderStep
	}
	labels, ok := e.Value.([]types.Label)
	if !ok || len(labels) == 0 {
		return types.DefaultOrderStep
	}
	last := labels[0].SortOrder
	for _, l := range labels[1:] {
		if l.SortOrder > last {
			last = l.SortOrder
		}
	}
	return views.After(last)
}

func (lc *LabelClient) Update(ctx context.Context, workspace, project, id string, patch types.LabelPatch) error {
	if !scoped(workspace, project, id) {
		return scopeErr("label.update")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	if patch.IsZero() {
		return nil
	}
	listKey := querykey.Labels(workspace, project)
	return lc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "label.update",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return patchItem(v, id, labelID, patch.Apply)
			})
		},
		Call: func(ctx context.Context) error {
			_, err := lc.c.api.Labels.Update(ctx, workspace, project, id, patch)
			return err
		},
	})
}

// Reorder drops the label at target among its same-parent siblings.
// Usually a single fractional sort-order write; when the gap there has
// collapsed, the sibling list is renumbered and every shifted label is
// written, all inside one mutation.
func (lc *LabelClient) Reorder(ctx context.Context, workspace, project, id string, target int, edge views.Edge) error {
	if !scoped(workspace, project, id) {
		return scopeErr("label.reorder")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	labels, err := lc.List(ctx, workspace, project)
	if err != nil {
		return err
	}
	var moved *types.Label
	for i := range labels {
		if labels[i].ID == id {
			moved = &labels[i]
			break
		}
	}
	if moved == nil {
		return fmt.Errorf("client: label.reorder: label %s not found", id)
	}

	siblings := make([]types.Label, 0, len(labels))
	for _, l := range labels {
		if l.ID != id && deref(l.ParentID) == deref(moved.ParentID) {
			siblings = append(siblings, l)
		}
	}
	sort.SliceStable(siblings, func(i, j int) bool {
		return siblings[i].SortOrder < siblings[j].SortOrder
	})

	assigns := planReorder(siblings, *moved, target, edge, labelID,
		func(l types.Label) float64 { return l.SortOrder })

	listKey := querykey.Labels(workspace, project)
	return lc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "label.reorder",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return applyAssigns(v, assigns, labelID, func(l types.Label, o float64) types.Label {
					l.SortOrder = o
					return l
				})
			})
		},
		Call: func(ctx context.Context) error {
			for _, a := range assigns {
				patch := types.LabelPatch{SortOrder: &a.order}
				if _, err := lc.c.api.Labels.Update(ctx, workspace, project, a.id, patch); err != nil {
					return err
				}
			}
			return nil
		},
	})
}

func (lc *LabelClient) Delete(ctx context.Context, workspace, project, id string) error {
	if !scoped(workspace, project, id) {
		return scopeErr("label.delete")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	listKey := querykey.Labels(workspace, project)
	return lc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "label.delete",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return dropItem(v, id, labelID)
			})
		},
		Call: func(ctx context.Context) error {
			return lc.c.api.Labels.Delete(ctx, workspace, project, id)
		},
	})
}
