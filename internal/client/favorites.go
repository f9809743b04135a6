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

// FavoriteClient manages the caller's sidebar favorites and folders.
type FavoriteClient struct {
	c *Client
}

func favoriteID(f types.Favorite) string { return f.ID }

func (fc *FavoriteClient) List(ctx context.Context, workspace string) ([]types.Favorite, error) {
	if !scoped(workspace) {
		return nil, nil
	}
	key := querykey.Favorites(workspace)
	return fetchAs(ctx, fc.c, key, cache.FetchOptions{}, func(ctx context.Context) ([]types.Favorite, error) {
		return fc.c.api.Favorites.List(ctx, workspace)
	})
}

// Tree returns favorites nested under their folders.
func (fc *FavoriteClient) Tree(ctx context.Context, workspace string) ([]*views.Node[types.Favorite], error) {
	favs, err := fc.List(ctx, workspace)
	if err != nil {
		return nil, err
	}
	return views.FavoriteTree(favs), nil
}

// Add saves a favorite, optimistically appended at the end of its
// parent's children.
func (fc *FavoriteClient) Add(ctx context.Context, workspace string, fav types.Favorite) (*types.Favorite, error) {
	if !scoped(workspace) {
		return nil, scopeErr("favorite.add")
	}
	if fav.Name == "" {
		return nil, fmt.Errorf("client: favorite.add: name is required")
	}
	listKey := querykey.Favorites(workspace)

	local := fav
	local.ID = idgen.NewTempID("favorite")

	var created *types.Favorite
	err := fc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "favorite.add",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return appendItem(v, local)
			})
		},
		Call: func(ctx context.Context) error {
			out, err := fc.c.api.Favorites.Create(ctx, workspace, fav)
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

// Move reparents the favorite and drops it at target among the new
// parent's children. parent nil moves it to the top level.
func (fc *FavoriteClient) Move(ctx context.Context, workspace, id string, parent *string, target int, edge views.Edge) error {
	if !scoped(workspace, id) {
		return scopeErr("favorite.move")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	favs, err := fc.List(ctx, workspace)
	if err != nil {
		return err
	}
	var moved *types.Favorite
	for i := range favs {
		if favs[i].ID == id {
			moved = &favs[i]
			break
		}
	}
	if moved == nil {
		return fmt.Errorf("client: favorite.move: favorite %s not found", id)
	}

	siblings := make([]types.Favorite, 0, len(favs))
	for _, f := range favs {
		if f.ID != id && deref(f.ParentID) == deref(parent) {
			siblings = append(siblings, f)
		}
	}
	sort.SliceStable(siblings, func(i, j int) bool {
		return siblings[i].SortOrder < siblings[j].SortOrder
	})

	reparented := *moved
	reparented.ParentID = parent
	assigns := planReorder(siblings, reparented, target, edge, favoriteID,
		func(f types.Favorite) float64 { return f.SortOrder })

	listKey := querykey.Favorites(workspace)
	return fc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "favorite.move",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				v = patchItem(v, id, favoriteID, func(f types.Favorite) types.Favorite {
					f.ParentID = parent
					return f
				})
				return applyAssigns(v, assigns, favoriteID, func(f types.Favorite, o float64) types.Favorite {
					f.SortOrder = o
					return f
				})
			})
		},
		Call: func(ctx context.Context) error {
			for _, a := range assigns {
				patch := types.FavoritePatch{SortOrder: &a.order}
				if a.id == id {
					if parent == nil {
						patch.ClearParent = true
					} else {
						patch.ParentID = parent
					}
				}
				if _, err := fc.c.api.Favorites.Update(ctx, workspace, a.id, patch); err != nil {
					return err
				}
			}
			return nil
		},
	})
}

// Remove deletes the favorite. Children of a removed folder survive on
// the server; the refetch shows them promoted to the top level.
func (fc *FavoriteClient) Remove(ctx context.Context, workspace, id string) error {
	if !scoped(workspace, id) {
		return scopeErr("favorite.remove")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	listKey := querykey.Favorites(workspace)
	return fc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "favorite.remove",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return dropItem(v, id, favoriteID)
			})
		},
		Call: func(ctx context.Context) error {
			return fc.c.api.Favorites.Delete(ctx, workspace, id)
		},
	})
}
