package api

import (
	"context"
	"fmt"

	"github.com/windrosehq/windrose-go/internal/types"
)

// StateService manages workflow states within a project.
type StateService struct {
	client *Client
}

func (s *StateService) List(ctx context.Context, workspace, project string) ([]types.State, error) {
	var out []types.State
	err := s.client.get(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/states", workspace, project), nil, &out)
	return out, err
}

func (s *StateService) Create(ctx context.Context, workspace, project string, state types.State) (*types.State, error) {
	var out types.State
	err := s.client.post(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/states", workspace, project), state, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *StateService) Update(ctx context.Context, workspace, project, id string, patch types.StatePatch) (*types.State, error) {
	var out types.State
	err := s.client.patch(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/states/%s", workspace, project, id), patch, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *StateService) Delete(ctx context.Context, workspace, project, id string) error {
	return s.client.delete(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/states/%s", workspace, project, id))
}

// MarkDefault makes the state the default for new issues in its project.
// The server clears the flag on the previous default.
func (s *StateService) MarkDefault(ctx context.Context, workspace, project, id string) (*types.State, error) {
	var out types.State
	err := s.client.post(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/states/%s/mark-default", workspace, project, id), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
