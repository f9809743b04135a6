package client

import (
	"context"
	"fmt"
	"time"

	"github.com/windrosehq/windrose-go/internal/api"
	"github.com/windrosehq/windrose-go/internal/cache"
	"github.com/windrosehq/windrose-go/internal/idgen"
	"github.com/windrosehq/windrose-go/internal/optimistic"
	"github.com/windrosehq/windrose-go/internal/querykey"
	"github.com/windrosehq/windrose-go/internal/types"
	"github.com/windrosehq/windrose-go/internal/views"
)

// IssueClient reads and mutates issues. Lists cache as []types.Issue,
// details as *types.Issue; grouped views are derived from the cached
// flat list on every call.
type IssueClient struct {
	c *Client
}

func (ic *IssueClient) List(ctx context.Context, workspace, project string) ([]types.Issue, error) {
	if !scoped(workspace, project) {
		return nil, nil
	}
	key := querykey.Issues(workspace, project)
	return fetchAs(ctx, ic.c, key, cache.FetchOptions{}, func(ctx context.Context) ([]types.Issue, error) {
		return ic.c.api.Issues.List(ctx, workspace, project, api.IssueListOptions{})
	})
}

// ListFiltered runs a server-side filtered listing. Each distinct
// filter caches under its own key; all of them sit under the project's
// issue prefix, so mutations invalidate every variant at once.
func (ic *IssueClient) ListFiltered(ctx context.Context, workspace, project string, opts api.IssueListOptions) ([]types.Issue, error) {
	if !scoped(workspace, project) {
		return nil, nil
	}
	f := querykey.Filter{}
	if opts.StateID != "" {
		f["state_id"] = opts.StateID
	}
	if opts.Priority != "" {
		f["priority"] = string(opts.Priority)
	}
	if opts.SprintID != "" {
		f["sprint_id"] = opts.SprintID
	}
	if opts.ModuleID != "" {
		f["module_id"] = opts.ModuleID
	}
	if opts.LabelID != "" {
		f["label_id"] = opts.LabelID
	}
	key := querykey.IssuesFiltered(workspace, project, f)
	return fetchAs(ctx, ic.c, key, cache.FetchOptions{}, func(ctx context.Context) ([]types.Issue, error) {
		return ic.c.api.Issues.List(ctx, workspace, project, opts)
	})
}

// ListGrouped returns the project's issues partitioned by state id,
// rebuilt from the flat list on every call.
func (ic *IssueClient) ListGrouped(ctx context.Context, workspace, project string) (map[string][]types.Issue, error) {
	issues, err := ic.List(ctx, workspace, project)
	if err != nil {
		return nil, err
	}
	return views.GroupIssuesByState(issues), nil
}

func (ic *IssueClient) Get(ctx context.Context, workspace, project, id string) (*types.Issue, error) {
	if !scoped(workspace, project, id) {
		return nil, nil
	}
	if idgen.IsTemp(id) {
		return nil, ErrPendingCreate
	}
	key := querykey.IssueDetail(workspace, project, id)
	return fetchAs(ctx, ic.c, key, cache.FetchOptions{}, func(ctx context.Context) (*types.Issue, error) {
		return ic.c.api.Issues.Get(ctx, workspace, project, id)
	})
}

// Create appends the issue to the cached list under a temp id, creates
// it remotely, and returns the server record. The temp entry is
// replaced by the invalidation refetch.
func (ic *IssueClient) Create(ctx context.Context, workspace, project string, issue types.Issue) (*types.Issue, error) {
	if !scoped(workspace, project) {
		return nil, scopeErr("issue.create")
	}
	if err := issue.Validate(); err != nil {
		return nil, fmt.Errorf("client: issue.create: %w", err)
	}
	listKey := querykey.Issues(workspace, project)

	local := issue
	local.ID = idgen.NewTempID("issue")
	local.ProjectID = project
	now := time.Now().UTC()
	local.CreatedAt, local.UpdatedAt = now, now

	var created *types.Issue
	err := ic.c.runner.Run(ctx, optimistic.Mutation{
		Name: "issue.create",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return appendIssue(v, local)
			})
		},
		Call: func(ctx context.Context) error {
			out, err := ic.c.api.Issues.Create(ctx, workspace, project, issue)
			if err != nil {
				return err
			}
			created = out
			return nil
		},
		OnSuccess: func(s *cache.Store) {
			if created != nil {
				s.Set(querykey.IssueDetail(workspace, project, created.ID), created)
			}
		},
		Invalidates: []querykey.Key{listKey},
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update patches the issue optimistically. A second update racing a
// refetch is safe: the mutation detaches any in-flight fetch for the
// touched keys, so the stale response can never overwrite this write.
func (ic *IssueClient) Update(ctx context.Context, workspace, project, id string, patch types.IssuePatch) error {
	if !scoped(workspace, project, id) {
		return scopeErr("issue.update")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	if patch.IsZero() {
		return nil
	}
	listKey := querykey.Issues(workspace, project)
	detailKey := querykey.IssueDetail(workspace, project, id)
	return ic.c.runner.Run(ctx, optimistic.Mutation{
		Name: "issue.update",
		Keys: []querykey.Key{listKey, detailKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(detailKey, func(v any) any {
				return patchIssuePtr(v, patch)
			})
			tx.Update(listKey, func(v any) any {
				return patchIssueList(v, id, patch)
			})
		},
		Call: func(ctx context.Context) error {
			_, err := ic.c.api.Issues.Update(ctx, workspace, project, id, patch)
			return err
		},
		Invalidates: []querykey.Key{listKey},
	})
}

// Archive stamps archived_at and drops the issue from the active list.
func (ic *IssueClient) Archive(ctx context.Context, workspace, project, id string) error {
	if !scoped(workspace, project, id) {
		return scopeErr("issue.archive")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	listKey := querykey.Issues(workspace, project)
	detailKey := querykey.IssueDetail(workspace, project, id)
	now := time.Now().UTC()
	return ic.c.runner.Run(ctx, optimistic.Mutation{
		Name: "issue.archive",
		Keys: []querykey.Key{listKey, detailKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(detailKey, func(v any) any {
				return patchIssuePtr(v, types.IssuePatch{ArchivedAt: &now})
			})
			tx.Update(listKey, func(v any) any {
				return dropIssue(v, id)
			})
		},
		Call: func(ctx context.Context) error {
			_, err := ic.c.api.Issues.Archive(ctx, workspace, project, id)
			return err
		},
		Invalidates: []querykey.Key{listKey},
	})
}

// Restore brings an archived issue back.
func (ic *IssueClient) Restore(ctx context.Context, workspace, project, id string) error {
	if !scoped(workspace, project, id) {
		return scopeErr("issue.restore")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	listKey := querykey.Issues(workspace, project)
	detailKey := querykey.IssueDetail(workspace, project, id)
	return ic.c.runner.Run(ctx, optimistic.Mutation{
		Name: "issue.restore",
		Keys: []querykey.Key{listKey, detailKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(detailKey, func(v any) any {
				return patchPtr(v, func(is types.Issue) types.Issue {
					is.ArchivedAt = nil
					return is
				})
			})
		},
		Call: func(ctx context.Context) error {
			_, err := ic.c.api.Issues.Restore(ctx, workspace, project, id)
			return err
		},
		Invalidates: []querykey.Key{listKey},
	})
}

// Delete removes the issue from the list and evicts its detail entry.
func (ic *IssueClient) Delete(ctx context.Context, workspace, project, id string) error {
	if !scoped(workspace, project, id) {
		return scopeErr("issue.delete")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	listKey := querykey.Issues(workspace, project)
	detailKey := querykey.IssueDetail(workspace, project, id)
	return ic.c.runner.Run(ctx, optimistic.Mutation{
		Name: "issue.delete",
		Keys: []querykey.Key{listKey, detailKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return dropIssue(v, id)
			})
			tx.Remove(detailKey)
		},
		Call: func(ctx context.Context) error {
			return ic.c.api.Issues.Delete(ctx, workspace, project, id)
		},
		Invalidates: []querykey.Key{listKey},
	})
}

// BulkMove forwards to the stubbed bulk endpoint and refreshes both
// projects' lists when it lands.
func (ic *IssueClient) BulkMove(ctx context.Context, workspace, project, targetProject string, ids []string) error {
	if !scoped(workspace, project, targetProject) {
		return scopeErr("issue.bulk-move")
	}
	for _, id := range ids {
		if idgen.IsTemp(id) {
			return ErrPendingCreate
		}
	}
	if err := ic.c.api.Issues.BulkMove(ctx, workspace, project, targetProject, ids); err != nil {
		return err
	}
	ic.c.store.Invalidate(querykey.Issues(workspace, project))
	ic.c.store.Invalidate(querykey.Issues(workspace, targetProject))
	return nil
}

func issueID(i types.Issue) string { return i.ID }

func appendIssue(v any, issue types.Issue) any {
	return appendItem(v, issue)
}

func dropIssue(v any, id string) any {
	return dropItem(v, id, issueID)
}

func patchIssuePtr(v any, patch types.IssuePatch) any {
	return patchPtr(v, patch.Apply)
}

func patchIssueList(v any, id string, patch types.IssuePatch) any {
	return patchItem(v, id, issueID, patch.Apply)
}
