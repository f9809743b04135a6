package api

import (
	"context"
	"fmt"

	"github.com/windrosehq/windrose-go/internal/types"
)

// ProjectService reads projects inside a workspace. Project lifecycle
// is a web-app surface; the client only lists and resolves.
type ProjectService struct {
	client *Client
}

func (s *ProjectService) List(ctx context.Context, workspace string) ([]types.Project, error) {
	var out []types.Project
	err := s.client.get(ctx, fmt.Sprintf("/api/workspaces/%s/projects", workspace), nil, &out)
	return out, err
}

func (s *ProjectService) Get(ctx context.Context, workspace, id string) (*types.Project, error) {
	var out types.Project
	err := s.client.get(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s", workspace, id), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
