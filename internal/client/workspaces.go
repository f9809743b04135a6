package client

import (
	"context"
	"time"

	"github.com/windrosehq/windrose-go/internal/cache"
	"github.com/windrosehq/windrose-go/internal/querykey"
	"github.com/windrosehq/windrose-go/internal/types"
)

// WorkspaceClient lists the workspaces the token can see. Read-only:
// workspace lifecycle is an admin surface, not a client one.
type WorkspaceClient struct {
	c *Client
}

func (wc *WorkspaceClient) List(ctx context.Context) ([]types.Workspace, error) {
	key := querykey.Workspaces()
	return fetchAs(ctx, wc.c, key, cache.FetchOptions{}, func(ctx context.Context) ([]types.Workspace, error) {
		return wc.c.api.Workspaces.List(ctx)
	})
}

func (wc *WorkspaceClient) Get(ctx context.Context, slug string) (*types.Workspace, error) {
	if !scoped(slug) {
		return nil, nil
	}
	key := querykey.Workspaces().Append("detail", slug)
	return fetchAs(ctx, wc.c, key, cache.FetchOptions{}, func(ctx context.Context) (*types.Workspace, error) {
		return wc.c.api.Workspaces.Get(ctx, slug)
	})
}

// ProjectClient lists and reads projects. Read-only here; project
// lifecycle currently stays in the web app.
type ProjectClient struct {
	c *Client
}

func (pc *ProjectClient) List(ctx context.Context, workspace string) ([]types.Project, error) {
	if !scoped(workspace) {
		return nil, nil
	}
	key := querykey.Projects(workspace)
	return fetchAs(ctx, pc.c, key, cache.FetchOptions{}, func(ctx context.Context) ([]types.Project, error) {
		return pc.c.api.Projects.List(ctx, workspace)
	})
}

func (pc *ProjectClient) Get(ctx context.Context, workspace, id string) (*types.Project, error) {
	if !scoped(workspace, id) {
		return nil, nil
	}
	key := querykey.ProjectDetail(workspace, id)
	return fetchAs(ctx, pc.c, key, cache.FetchOptions{}, func(ctx context.Context) (*types.Project, error) {
		return pc.c.api.Projects.Get(ctx, workspace, id)
	})
}

// instanceConfigStale reflects how rarely deployments change.
const instanceConfigStale = time.Hour

// InstanceClient reads deployment metadata.
type InstanceClient struct {
	c *Client
}

func (ic *InstanceClient) Config(ctx context.Context) (*types.InstanceConfig, error) {
	key := querykey.InstanceConfig()
	return fetchAs(ctx, ic.c, key, cache.FetchOptions{StaleTime: instanceConfigStale, GCTime: 2 * instanceConfigStale}, func(ctx context.Context) (*types.InstanceConfig, error) {
		return ic.c.api.Instance.Config(ctx)
	})
}
