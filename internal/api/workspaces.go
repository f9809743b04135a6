package api

import (
	"context"
	"fmt"

	"github.com/windrosehq/windrose-go/internal/types"
)

// WorkspaceService reads workspace membership and metadata.
type WorkspaceService struct {
	client *Client
}

// List returns the workspaces the authenticated user belongs to.
func (s *WorkspaceService) List(ctx context.Context) ([]types.Workspace, error) {
	var out []types.Workspace
	err := s.client.get(ctx, "/api/users/me/workspaces", nil, &out)
	return out, err
}

// Get returns one workspace by slug.
func (s *WorkspaceService) Get(ctx context.Context, slug string) (*types.Workspace, error) {
	var out types.Workspace
	err := s.client.get(ctx, fmt.Sprintf("/api/workspaces/%s", slug), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
