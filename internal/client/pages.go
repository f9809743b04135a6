package client

import (
	"context"
	"fmt"
	"time"

	"github.com/windrosehq/windrose-go/internal/cache"
	"github.com/windrosehq/windrose-go/internal/idgen"
	"github.com/windrosehq/windrose-go/internal/optimistic"
	"github.com/windrosehq/windrose-go/internal/querykey"
	"github.com/windrosehq/windrose-go/internal/types"
	"github.com/windrosehq/windrose-go/internal/views"
)

// PageClient reads and mutates wiki pages. Pages are workspace-scoped;
// the project filter happens server-side and project listings share the
// workspace cache prefix.
type PageClient struct {
	c *Client
}

func pageID(p types.Page) string { return p.ID }

func (pc *PageClient) List(ctx context.Context, workspace string) ([]types.Page, error) {
	if !scoped(workspace) {
		return nil, nil
	}
	key := querykey.Pages(workspace)
	return fetchAs(ctx, pc.c, key, cache.FetchOptions{}, func(ctx context.Context) ([]types.Page, error) {
		return pc.c.api.Pages.List(ctx, workspace, "")
	})
}

// Tree returns the workspace's pages nested by ParentID.
func (pc *PageClient) Tree(ctx context.Context, workspace string) ([]*views.Node[types.Page], error) {
	pages, err := pc.List(ctx, workspace)
	if err != nil {
		return nil, err
	}
	return views.PageTree(pages), nil
}

func (pc *PageClient) Get(ctx context.Context, workspace, id string) (*types.Page, error) {
	if !scoped(workspace, id) {
		return nil, nil
	}
	if idgen.IsTemp(id) {
		return nil, ErrPendingCreate
	}
	key := querykey.PageDetail(workspace, id)
	return fetchAs(ctx, pc.c, key, cache.FetchOptions{}, func(ctx context.Context) (*types.Page, error) {
		return pc.c.api.Pages.Get(ctx, workspace, id)
	})
}

func (pc *PageClient) Create(ctx context.Context, workspace string, page types.Page) (*types.Page, error) {
	if !scoped(workspace) {
		return nil, scopeErr("page.create")
	}
	if err := page.Validate(); err != nil {
		return nil, fmt.Errorf("client: page.create: %w", err)
	}
	listKey := querykey.Pages(workspace)

	local := page
	local.ID = idgen.NewTempID("page")
	now := time.Now().UTC()
	local.CreatedAt, local.UpdatedAt = now, now

	var created *types.Page
	err := pc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "page.create",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return appendItem(v, local)
			})
		},
		Call: func(ctx context.Context) error {
			out, err := pc.c.api.Pages.Create(ctx, workspace, page)
			if err != nil {
				return err
			}
			created = out
			return nil
		},
		OnSuccess: func(s *cache.Store) {
			if created != nil {
				s.Set(querykey.PageDetail(workspace, created.ID), created)
			}
		},
		Invalidates: []querykey.Key{listKey},
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (pc *PageClient) Update(ctx context.Context, workspace, id string, patch types.PagePatch) error {
	if !scoped(workspace, id) {
		return scopeErr("page.update")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	if patch.IsZero() {
		return nil
	}
	listKey := querykey.Pages(workspace)
	detailKey := querykey.PageDetail(workspace, id)
	return pc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "page.update",
		Keys: []querykey.Key{listKey, detailKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(detailKey, func(v any) any {
				return patchPtr(v, patch.Apply)
			})
			tx.Update(listKey, func(v any) any {
				return patchItem(v, id, pageID, patch.Apply)
			})
		},
		Call: func(ctx context.Context) error {
			_, err := pc.c.api.Pages.Update(ctx, workspace, id, patch)
			return err
		},
		Invalidates: []querykey.Key{listKey},
	})
}

// Archive stamps archived_at and drops the page from the active list.
// Descendants keep their ParentID; the tree view promotes them to roots
// until the refetch settles the authoritative arrangement.
func (pc *PageClient) Archive(ctx context.Context, workspace, id string) error {
	if !scoped(workspace, id) {
		return scopeErr("page.archive")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	listKey := querykey.Pages(workspace)
	detailKey := querykey.PageDetail(workspace, id)
	now := time.Now().UTC()
	return pc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "page.archive",
		Keys: []querykey.Key{listKey, detailKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(detailKey, func(v any) any {
				return patchPtr(v, func(p types.Page) types.Page {
					p.ArchivedAt = &now
					p.UpdatedAt = now
					return p
				})
			})
			tx.Update(listKey, func(v any) any {
				return dropItem(v, id, pageID)
			})
		},
		Call: func(ctx context.Context) error {
			_, err := pc.c.api.Pages.Archive(ctx, workspace, id)
			return err
		},
		Invalidates: []querykey.Key{listKey},
	})
}

// Restore brings an archived page back.
func (pc *PageClient) Restore(ctx context.Context, workspace, id string) error {
	if !scoped(workspace, id) {
		return scopeErr("page.restore")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	listKey := querykey.Pages(workspace)
	detailKey := querykey.PageDetail(workspace, id)
	return pc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "page.restore",
		Keys: []querykey.Key{listKey, detailKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(detailKey, func(v any) any {
				return patchPtr(v, func(p types.Page) types.Page {
					p.ArchivedAt = nil
					p.UpdatedAt = time.Now().UTC()
					return p
				})
			})
		},
		Call: func(ctx context.Context) error {
			_, err := pc.c.api.Pages.Restore(ctx, workspace, id)
			return err
		},
		Invalidates: []querykey.Key{listKey},
	})
}

// Lock flips the page's lock flag optimistically. The server enforces
// who may actually edit; the flag only drives the UI affordance.
func (pc *PageClient) Lock(ctx context.Context, workspace, id string) error {
	return pc.setLocked(ctx, workspace, id, true)
}

func (pc *PageClient) Unlock(ctx context.Context, workspace, id string) error {
	return pc.setLocked(ctx, workspace, id, false)
}

func (pc *PageClient) setLocked(ctx context.Context, workspace, id string, locked bool) error {
	op := "page.lock"
	if !locked {
		op = "page.unlock"
	}
	if !scoped(workspace, id) {
		return scopeErr(op)
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	listKey := querykey.Pages(workspace)
	detailKey := querykey.PageDetail(workspace, id)
	flip := func(p types.Page) types.Page {
		p.Locked = locked
		return p
	}
	return pc.c.runner.Run(ctx, optimistic.Mutation{
		Name: op,
		Keys: []querykey.Key{listKey, detailKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(detailKey, func(v any) any {
				return patchPtr(v, flip)
			})
			tx.Update(listKey, func(v any) any {
				return patchItem(v, id, pageID, flip)
			})
		},
		Call: func(ctx context.Context) error {
			if locked {
				return pc.c.api.Pages.Lock(ctx, workspace, id)
			}
			return pc.c.api.Pages.Unlock(ctx, workspace, id)
		},
		Invalidates: []querykey.Key{listKey},
	})
}

func (pc *PageClient) Delete(ctx context.Context, workspace, id string) error {
	if !scoped(workspace, id) {
		return scopeErr("page.delete")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	listKey := querykey.Pages(workspace)
	detailKey := querykey.PageDetail(workspace, id)
	return pc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "page.delete",
		Keys: []querykey.Key{listKey, detailKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return dropItem(v, id, pageID)
			})
			tx.Remove(detailKey)
		},
		Call: func(ctx context.Context) error {
			return pc.c.api.Pages.Delete(ctx, workspace, id)
		},
		Invalidates: []querykey.Key{listKey},
	})
}
