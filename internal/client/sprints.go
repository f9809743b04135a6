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

// SprintClient reads and mutates sprints. The archived list and the
// detail entries nest under the active list's key, so invalidating
// that one key settles every sprint mutation.
type SprintClient struct {
	c *Client
}

func sprintID(s types.Sprint) string { return s.ID }

func (sc *SprintClient) List(ctx context.Context, workspace, project string) ([]types.Sprint, error) {
	if !scoped(workspace, project) {
		return nil, nil
	}
	key := querykey.Sprints(workspace, project)
	return fetchAs(ctx, sc.c, key, cache.FetchOptions{}, func(ctx context.Context) ([]types.Sprint, error) {
		return sc.c.api.Sprints.List(ctx, workspace, project)
	})
}

func (sc *SprintClient) ListArchived(ctx context.Context, workspace, project string) ([]types.Sprint, error) {
	if !scoped(workspace, project) {
		return nil, nil
	}
	key := querykey.SprintsArchived(workspace, project)
	return fetchAs(ctx, sc.c, key, cache.FetchOptions{}, func(ctx context.Context) ([]types.Sprint, error) {
		return sc.c.api.Sprints.ListArchived(ctx, workspace, project)
	})
}

func (sc *SprintClient) Get(ctx context.Context, workspace, project, id string) (*types.Sprint, error) {
	if !scoped(workspace, project, id) {
		return nil, nil
	}
	if idgen.IsTemp(id) {
		return nil, ErrPendingCreate
	}
	key := querykey.SprintDetail(workspace, project, id)
	return fetchAs(ctx, sc.c, key, cache.FetchOptions{}, func(ctx context.Context) (*types.Sprint, error) {
		return sc.c.api.Sprints.Get(ctx, workspace, project, id)
	})
}

func (sc *SprintClient) Create(ctx context.Context, workspace, project string, sprint types.Sprint) (*types.Sprint, error) {
	if !scoped(workspace, project) {
		return nil, scopeErr("sprint.create")
	}
	if err := sprint.Validate(); err != nil {
		return nil, fmt.Errorf("client: sprint.create: %w", err)
	}
	listKey := querykey.Sprints(workspace, project)

	local := sprint
	local.ID = idgen.NewTempID("sprint")
	local.ProjectID = project
	now := time.Now().UTC()
	local.CreatedAt, local.UpdatedAt = now, now

	var created *types.Sprint
	err := sc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "sprint.create",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return appendItem(v, local)
			})
		},
		Call: func(ctx context.Context) error {
			out, err := sc.c.api.Sprints.Create(ctx, workspace, project, sprint)
			if err != nil {
				return err
			}
			created = out
			return nil
		},
		OnSuccess: func(s *cache.Store) {
			if created != nil {
				s.Set(querykey.SprintDetail(workspace, project, created.ID), created)
			}
		},
		Invalidates: []querykey.Key{listKey},
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (sc *SprintClient) Update(ctx context.Context, workspace, project, id string, patch types.SprintPatch) error {
	if !scoped(workspace, project, id) {
		return scopeErr("sprint.update")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	if patch.IsZero() {
		return nil
	}
	listKey := querykey.Sprints(workspace, project)
	detailKey := querykey.SprintDetail(workspace, project, id)
	return sc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "sprint.update",
		Keys: []querykey.Key{listKey, detailKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(detailKey, func(v any) any {
				return patchPtr(v, patch.Apply)
			})
			tx.Update(listKey, func(v any) any {
				return patchItem(v, id, sprintID, patch.Apply)
			})
		},
		Call: func(ctx context.Context) error {
			_, err := sc.c.api.Sprints.Update(ctx, workspace, project, id, patch)
			return err
		},
		Invalidates: []querykey.Key{listKey},
	})
}

// Archive stamps archived_at and moves the sprint from the active list
// into the archived one. Settling invalidates the whole sprint prefix,
// which covers both lists and the detail entry.
func (sc *SprintClient) Archive(ctx context.Context, workspace, project, id string) error {
	if !scoped(workspace, project, id) {
		return scopeErr("sprint.archive")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	listKey := querykey.Sprints(workspace, project)
	archivedKey := querykey.SprintsArchived(workspace, project)
	detailKey := querykey.SprintDetail(workspace, project, id)
	now := time.Now().UTC()
	stamp := func(s types.Sprint) types.Sprint {
		s.ArchivedAt = &now
		s.UpdatedAt = now
		return s
	}
	return sc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "sprint.archive",
		Keys: []querykey.Key{listKey, archivedKey, detailKey},
		Apply: func(tx *cache.Tx) {
			var moved *types.Sprint
			tx.Update(listKey, func(v any) any {
				sprints, ok := v.([]types.Sprint)
				if !ok {
					return v
				}
				out := make([]types.Sprint, 0, len(sprints))
				for _, s := range sprints {
					if s.ID == id {
						archived := stamp(s)
						moved = &archived
						continue
					}
					out = append(out, s)
				}
				return out
			})
			if moved != nil {
				tx.Update(archivedKey, func(v any) any {
					return appendItem(v, *moved)
				})
			}
			tx.Update(detailKey, func(v any) any {
				return patchPtr(v, stamp)
			})
		},
		Call: func(ctx context.Context) error {
			_, err := sc.c.api.Sprints.Archive(ctx, workspace, project, id)
			return err
		},
		Invalidates: []querykey.Key{listKey},
	})
}

// Restore moves an archived sprint back into the active list.
func (sc *SprintClient) Restore(ctx context.Context, workspace, project, id string) error {
	if !scoped(workspace, project, id) {
		return scopeErr("sprint.restore")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	listKey := querykey.Sprints(workspace, project)
	archivedKey := querykey.SprintsArchived(workspace, project)
	detailKey := querykey.SprintDetail(workspace, project, id)
	unarchive := func(s types.Sprint) types.Sprint {
		s.ArchivedAt = nil
		s.UpdatedAt = time.Now().UTC()
		return s
	}
	return sc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "sprint.restore",
		Keys: []querykey.Key{listKey, archivedKey, detailKey},
		Apply: func(tx *cache.Tx) {
			var moved *types.Sprint
			tx.Update(archivedKey, func(v any) any {
				sprints, ok := v.([]types.Sprint)
				if !ok {
					return v
				}
				out := make([]types.Sprint, 0, len(sprints))
				for _, s := range sprints {
					if s.ID == id {
						restored := unarchive(s)
						moved = &restored
						continue
					}
					out = append(out, s)
				}
				return out
			})
			if moved != nil {
				tx.Update(listKey, func(v any) any {
					return appendItem(v, *moved)
				})
			}
			tx.Update(detailKey, func(v any) any {
				return patchPtr(v, unarchive)
			})
		},
		Call: func(ctx context.Context) error {
			_, err := sc.c.api.Sprints.Restore(ctx, workspace, project, id)
			return err
		},
		Invalidates: []querykey.Key{listKey},
	})
}

func (sc *SprintClient) Delete(ctx context.Context, workspace, project, id string) error {
	if !scoped(workspace, project, id) {
		return scopeErr("sprint.delete")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	listKey := querykey.Sprints(workspace, project)
	archivedKey := querykey.SprintsArchived(workspace, project)
	detailKey := querykey.SprintDetail(workspace, project, id)
	return sc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "sprint.delete",
		Keys: []querykey.Key{listKey, archivedKey, detailKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return dropItem(v, id, sprintID)
			})
			tx.Update(archivedKey, func(v any) any {
				return dropItem(v, id, sprintID)
			})
			tx.Remove(detailKey)
		},
		Call: func(ctx context.Context) error {
			return sc.c.api.Sprints.Delete(ctx, workspace, project, id)
		},
		Invalidates: []querykey.Key{listKey},
	})
}

// RemovalImpact previews which issues a sprint deletion would orphan.
// Served by a stub today, so it always reports an empty impact.
func (sc *SprintClient) RemovalImpact(ctx context.Context, workspace, project, id string) (*types.SprintRemovalImpact, error) {
	if !scoped(workspace, project, id) {
		return nil, nil
	}
	return sc.c.api.Sprints.RemovalImpact(ctx, workspace, project, id)
}
