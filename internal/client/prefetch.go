package client

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Prefetch warms the cache for a workspace and, when project is set,
// its main collections. Fetches fan out concurrently and coalesce with
// any reads already running; the first failure is returned after the
// rest finish.
func (c *Client) Prefetch(ctx context.Context, workspace, project string) error {
	if !scoped(workspace) {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4) // Bound concurrent warm-up requests

	g.Go(func() error {
		_, err := c.Projects.List(ctx, workspace)
		return err
	})
	g.Go(func() error {
		_, err := c.Notifications.UnreadCount(ctx, workspace)
		return err
	})
	g.Go(func() error {
		_, err := c.Favorites.List(ctx, workspace)
		return err
	})

	if project != "" {
		g.Go(func() error {
			_, err := c.Issues.List(ctx, workspace, project)
			return err
		})
		g.Go(func() error {
			_, err := c.States.List(ctx, workspace, project)
			return err
		})
		g.Go(func() error {
			_, err := c.Labels.List(ctx, workspace, project)
			return err
		})
		g.Go(func() error {
			_, err := c.Sprints.List(ctx, workspace, project)
			return err
		})
	}

	return g.Wait()
}
