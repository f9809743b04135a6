package client

import (
	"context"
	"fmt"

	"github.com/windrosehq/windrose-go/internal/cache"
	"github.com/windrosehq/windrose-go/internal/idgen"
	"github.com/windrosehq/windrose-go/internal/optimistic"
	"github.com/windrosehq/windrose-go/internal/querykey"
	"github.com/windrosehq/windrose-go/internal/types"
	"github.com/windrosehq/windrose-go/internal/views"
)

// StateClient reads and mutates a project's workflow states.
type StateClient struct {
	c *Client
}

func stateID(s types.State) string { return s.ID }

func (st *StateClient) List(ctx context.Context, workspace, project string) ([]types.State, error) {
	if !scoped(workspace, project) {
		return nil, nil
	}
	key := querykey.States(workspace, project)
	return fetchAs(ctx, st.c, key, cache.FetchOptions{}, func(ctx context.Context) ([]types.State, error) {
		return st.c.api.States.List(ctx, workspace, project)
	})
}

// Grouped returns the states partitioned into the five kanban groups.
func (st *StateClient) Grouped(ctx context.Context, workspace, project string) (map[types.StateGroup][]types.State, error) {
	states, err := st.List(ctx, workspace, project)
	if err != nil {
		return nil, err
	}
	return views.GroupStates(states), nil
}

func (st *StateClient) Create(ctx context.Context, workspace, project string, state types.State) (*types.State, error) {
	if !scoped(workspace, project) {
		return nil, scopeErr("state.create")
	}
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("client: state.create: %w", err)
	}
	listKey := querykey.States(workspace, project)

	local := state
	local.ID = idgen.NewTempID("state")
	local.ProjectID = project

	var created *types.State
	err := st.c.runner.Run(ctx, optimistic.Mutation{
		Name: "state.create",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return appendItem(v, local)
			})
		},
		Call: func(ctx context.Context) error {
			out, err := st.c.api.States.Create(ctx, workspace, project, state)
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

func (st *StateClient) Update(ctx context.Context, workspace, project, id string, patch types.StatePatch) error {
	if !scoped(workspace, project, id) {
		return scopeErr("state.update")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	if patch.IsZero() {
		return nil
	}
	listKey := querykey.States(workspace, project)
	return st.c.runner.Run(ctx, optimistic.Mutation{
		Name: "state.update",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return patchItem(v, id, stateID, patch.Apply)
			})
		},
		Call: func(ctx context.Context) error {
			_, err := st.c.api.States.Update(ctx, workspace, project, id, patch)
			return err
		},
	})
}

// MarkDefault makes the state the default for new issues. The previous
// default is cleared in the same speculative write, mirroring what the
// server does.
func (st *StateClient) MarkDefault(ctx context.Context, workspace, project, id string) error {
	if !scoped(workspace, project, id) {
		return scopeErr("state.mark-default")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	listKey := querykey.States(workspace, project)
	return st.c.runner.Run(ctx, optimistic.Mutation{
		Name: "state.mark-default",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				states, ok := v.([]types.State)
				if !ok {
					return v
				}
				out := make([]types.State, len(states))
				copy(out, states)
				for i := range out {
					out[i].Default = out[i].ID == id
				}
				return out
			})
		},
		Call: func(ctx context.Context) error {
			_, err := st.c.api.States.MarkDefault(ctx, workspace, project, id)
			return err
		},
	})
}

// Delete removes a state. The server rejects deleting the default state
// or one that still holds issues; the rollback undoes the optimistic
// removal in those cases.
func (st *StateClient) Delete(ctx context.Context, workspace, project, id string) error {
	if !scoped(workspace, project, id) {
		return scopeErr("state.delete")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	listKey := querykey.States(workspace, project)
	return st.c.runner.Run(ctx, optimistic.Mutation{
		Name: "state.delete",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return dropItem(v, id, stateID)
			})
		},
		Call: func(ctx context.Context) error {
			return st.c.api.States.Delete(ctx, workspace, project, id)
		},
	})
}
