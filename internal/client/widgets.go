package client

import (
	"context"
	"fmt"
	"sort"

	"github.com/windrosehq/windrose-go/internal/cache"
	"github.com/windrosehq/windrose-go/internal/optimistic"
	"github.com/windrosehq/windrose-go/internal/querykey"
	"github.com/windrosehq/windrose-go/internal/types"
	"github.com/windrosehq/windrose-go/internal/views"
)

// WidgetClient manages the home dashboard widgets. The widget set is
// fixed server-side; only visibility and order change.
type WidgetClient struct {
	c *Client
}

func widgetID(w types.Widget) string { return w.ID }

func (wc *WidgetClient) List(ctx context.Context, workspace string) ([]types.Widget, error) {
	if !scoped(workspace) {
		return nil, nil
	}
	key := querykey.Widgets(workspace)
	return fetchAs(ctx, wc.c, key, cache.FetchOptions{}, func(ctx context.Context) ([]types.Widget, error) {
		return wc.c.api.Widgets.List(ctx, workspace)
	})
}

// Toggle flips the widget's visibility optimistically.
func (wc *WidgetClient) Toggle(ctx context.Context, workspace, id string) error {
	if !scoped(workspace, id) {
		return scopeErr("widget.toggle")
	}
	listKey := querykey.Widgets(workspace)

	// The remote patch needs the post-flip value, resolved against the
	// cached list before the speculative write.
	var enabled bool
	found := false
	if e, ok := wc.c.store.Get(listKey); ok {
		if widgets, ok := e.Value.([]types.Widget); ok {
			for _, w := range widgets {
				if w.ID == id {
					enabled = !w.IsEnabled
					found = true
					break
				}
			}
		}
	}
	if !found {
		widgets, err := wc.List(ctx, workspace)
		if err != nil {
			return err
		}
		for _, w := range widgets {
			if w.ID == id {
				enabled = !w.IsEnabled
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("client: widget.toggle: widget %s not found", id)
		}
	}

	return wc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "widget.toggle",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return patchItem(v, id, widgetID, func(w types.Widget) types.Widget {
					w.IsEnabled = enabled
					return w
				})
			})
		},
		Call: func(ctx context.Context) error {
			patch := types.WidgetPatch{IsEnabled: &enabled}
			_, err := wc.c.api.Widgets.Update(ctx, workspace, id, patch)
			return err
		},
	})
}

// Reorder drops the widget at target in the dashboard order.
func (wc *WidgetClient) Reorder(ctx context.Context, workspace, id string, target int, edge views.Edge) error {
	if !scoped(workspace, id) {
		return scopeErr("widget.reorder")
	}
	widgets, err := wc.List(ctx, workspace)
	if err != nil {
		return err
	}
	var moved *types.Widget
	for i := range widgets {
		if widgets[i].ID == id {
			moved = &widgets[i]
			break
		}
	}
	if moved == nil {
		return fmt.Errorf("client: widget.reorder: widget %s not found", id)
	}

	siblings := make([]types.Widget, 0, len(widgets))
	for _, w := range widgets {
		if w.ID != id {
			siblings = append(siblings, w)
		}
	}
	sort.SliceStable(siblings, func(i, j int) bool {
		return siblings[i].SortOrder < siblings[j].SortOrder
	})

	assigns := planReorder(siblings, *moved, target, edge, widgetID,
		func(w types.Widget) float64 { return w.SortOrder })

	listKey := querykey.Widgets(workspace)
	return wc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "widget.reorder",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return applyAssigns(v, assigns, widgetID, func(w types.Widget, o float64) types.Widget {
					w.SortOrder = o
					return w
				})
			})
		},
		Call: func(ctx context.Context) error {
			for _, a := range assigns {
				patch := types.WidgetPatch{SortOrder: &a.order}
				if _, err := wc.c.api.Widgets.Update(ctx, workspace, a.id, patch); err != nil {
					return err
				}
			}
			return nil
		},
	})
}
