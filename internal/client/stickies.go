package client

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/windrosehq/windrose-go/internal/cache"
	"github.com/windrosehq/windrose-go/internal/idgen"
	"github.com/windrosehq/windrose-go/internal/optimistic"
	"github.com/windrosehq/windrose-go/internal/querykey"
	"github.com/windrosehq/windrose-go/internal/types"
	"github.com/windrosehq/windrose-go/internal/views"
)

// StickyClient reads and mutates the caller's sticky notes.
type StickyClient struct {
	c *Client
}

func stickyID(s types.Sticky) string { return s.ID }

func (sc *StickyClient) List(ctx context.Context, workspace string) ([]types.Sticky, error) {
	if !scoped(workspace) {
		return nil, nil
	}
	key := querykey.Stickies(workspace)
	return fetchAs(ctx, sc.c, key, cache.FetchOptions{}, func(ctx context.Context) ([]types.Sticky, error) {
		return sc.c.api.Stickies.List(ctx, workspace)
	})
}

func (sc *StickyClient) Create(ctx context.Context, workspace string, sticky types.Sticky) (*types.Sticky, error) {
	if !scoped(workspace) {
		return nil, scopeErr("sticky.create")
	}
	listKey := querykey.Stickies(workspace)

	local := sticky
	local.ID = idgen.NewTempID("sticky")
	now := time.Now().UTC()
	local.CreatedAt, local.UpdatedAt = now, now

	var created *types.Sticky
	err := sc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "sticky.create",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return appendItem(v, local)
			})
		},
		Call: func(ctx context.Context) error {
			out, err := sc.c.api.Stickies.Create(ctx, workspace, sticky)
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

func (sc *StickyClient) Update(ctx context.Context, workspace, id string, patch types.StickyPatch) error {
	if !scoped(workspace, id) {
		return scopeErr("sticky.update")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	if patch.IsZero() {
		return nil
	}
	listKey := querykey.Stickies(workspace)
	return sc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "sticky.update",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return patchItem(v, id, stickyID, patch.Apply)
			})
		},
		Call: func(ctx context.Context) error {
			_, err := sc.c.api.Stickies.Update(ctx, workspace, id, patch)
			return err
		},
	})
}

// Reorder drops the sticky at target among the workspace's stickies.
func (sc *StickyClient) Reorder(ctx context.Context, workspace, id string, target int, edge views.Edge) error {
	if !scoped(workspace, id) {
		return scopeErr("sticky.reorder")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	stickies, err := sc.List(ctx, workspace)
	if err != nil {
		return err
	}
	var moved *types.Sticky
	for i := range stickies {
		if stickies[i].ID == id {
			moved = &stickies[i]
			break
		}
	}
	if moved == nil {
		return fmt.Errorf("client: sticky.reorder: sticky %s not found", id)
	}

	siblings := make([]types.Sticky, 0, len(stickies))
	for _, s := range stickies {
		if s.ID != id {
			siblings = append(siblings, s)
		}
	}
	sort.SliceStable(siblings, func(i, j int) bool {
		return siblings[i].SortOrder < siblings[j].SortOrder
	})

	assigns := planReorder(siblings, *moved, target, edge, stickyID,
		func(s types.Sticky) float64 { return s.SortOrder })

	listKey := querykey.Stickies(workspace)
	return sc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "sticky.reorder",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return applyAssigns(v, assigns, stickyID, func(s types.Sticky, o float64) types.Sticky {
					s.SortOrder = o
					return s
				})
			})
		},
		Call: func(ctx context.Context) error {
			for _, a := range assigns {
				patch := types.StickyPatch{SortOrder: &a.order}
				if _, err := sc.c.api.Stickies.Update(ctx, workspace, a.id, patch); err != nil {
					return err
				}
			}
			return nil
		},
	})
}

func (sc *StickyClient) Delete(ctx context.Context, workspace, id string) error {
	if !scoped(workspace, id) {
		return scopeErr("sticky.delete")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	listKey := querykey.Stickies(workspace)
	return sc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "sticky.delete",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return dropItem(v, id, stickyID)
			})
		},
		Call: func(ctx context.Context) error {
			return sc.c.api.Stickies.Delete(ctx, workspace, id)
		},
	})
}
