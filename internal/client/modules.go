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
)

// ModuleClient reads and mutates modules.
type ModuleClient struct {
	c *Client
}

func moduleID(m types.Module) string { return m.ID }

func (mc *ModuleClient) List(ctx context.Context, workspace, project string) ([]types.Module, error) {
	if !scoped(workspace, project) {
		return nil, nil
	}
	key := querykey.Modules(workspace, project)
	return fetchAs(ctx, mc.c, key, cache.FetchOptions{}, func(ctx context.Context) ([]types.Module, error) {
		return mc.c.api.Modules.List(ctx, workspace, project)
	})
}

func (mc *ModuleClient) Get(ctx context.Context, workspace, project, id string) (*types.Module, error) {
	if !scoped(workspace, project, id) {
		return nil, nil
	}
	if idgen.IsTemp(id) {
		return nil, ErrPendingCreate
	}
	key := querykey.ModuleDetail(workspace, project, id)
	return fetchAs(ctx, mc.c, key, cache.FetchOptions{}, func(ctx context.Context) (*types.Module, error) {
		return mc.c.api.Modules.Get(ctx, workspace, project, id)
	})
}

func (mc *ModuleClient) Create(ctx context.Context, workspace, project string, module types.Module) (*types.Module, error) {
	if !scoped(workspace, project) {
		return nil, scopeErr("module.create")
	}
	if err := module.Validate(); err != nil {
		return nil, fmt.Errorf("client: module.create: %w", err)
	}
	listKey := querykey.Modules(workspace, project)

	local := module
	local.ID = idgen.NewTempID("module")
	local.ProjectID = project
	now := time.Now().UTC()
	local.CreatedAt, local.UpdatedAt = now, now

	var created *types.Module
	err := mc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "module.create",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return appendItem(v, local)
			})
		},
		Call: func(ctx context.Context) error {
			out, err := mc.c.api.Modules.Create(ctx, workspace, project, module)
			if err != nil {
				return err
			}
			created = out
			return nil
		},
		OnSuccess: func(s *cache.Store) {
			if created != nil {
				s.Set(querykey.ModuleDetail(workspace, project, created.ID), created)
			}
		},
		Invalidates: []querykey.Key{listKey},
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (mc *ModuleClient) Update(ctx context.Context, workspace, project, id string, patch types.ModulePatch) error {
	if !scoped(workspace, project, id) {
		return scopeErr("module.update")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	if patch.IsZero() {
		return nil
	}
	listKey := querykey.Modules(workspace, project)
	detailKey := querykey.ModuleDetail(workspace, project, id)
	return mc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "module.update",
		Keys: []querykey.Key{listKey, detailKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(detailKey, func(v any) any {
				return patchPtr(v, patch.Apply)
			})
			tx.Update(listKey, func(v any) any {
				return patchItem(v, id, moduleID, patch.Apply)
			})
		},
		Call: func(ctx context.Context) error {
			_, err := mc.c.api.Modules.Update(ctx, workspace, project, id, patch)
			return err
		},
		Invalidates: []querykey.Key{listKey},
	})
}

// Archive stamps archived_at through the regular patch path; modules
// have no dedicated archive endpoint.
func (mc *ModuleClient) Archive(ctx context.Context, workspace, project, id string) error {
	now := time.Now().UTC()
	return mc.Update(ctx, workspace, project, id, types.ModulePatch{ArchivedAt: &now})
}

func (mc *ModuleClient) Delete(ctx context.Context, workspace, project, id string) error {
	if !scoped(workspace, project, id) {
		return scopeErr("module.delete")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	listKey := querykey.Modules(workspace, project)
	detailKey := querykey.ModuleDetail(workspace, project, id)
	return mc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "module.delete",
		Keys: []querykey.Key{listKey, detailKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return dropItem(v, id, moduleID)
			})
			tx.Remove(detailKey)
		},
		Call: func(ctx context.Context) error {
			return mc.c.api.Modules.Delete(ctx, workspace, project, id)
		},
		Invalidates: []querykey.Key{listKey},
	})
}
