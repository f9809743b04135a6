package api

import (
	"context"
	"fmt"

	"github.com/windrosehq/windrose-go/internal/types"
)

// SprintService manages time-boxed iterations inside a project.
type SprintService struct {
	client *Client
}

func (s *SprintService) List(ctx context.Context, workspace, project string) ([]types.Sprint, error) {
	var out []types.Sprint
	err := s.client.get(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/sprints", workspace, project), nil, &out)
	return out, err
}

// ListArchived returns sprints that have been archived.
func (s *SprintService) ListArchived(ctx context.Context, workspace, project string) ([]types.Sprint, error) {
	var out []types.Sprint
	err := s.client.get(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/archived-sprints", workspace, project), nil, &out)
	return out, err
}

func (s *SprintService) Get(ctx context.Context, workspace, project, id string) (*types.Sprint, error) {
	var out types.Sprint
	err := s.client.get(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/sprints/%s", workspace, project, id), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SprintService) Create(ctx context.Context, workspace, project string, sprint types.Sprint) (*types.Sprint, error) {
	var out types.Sprint
	err := s.client.post(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/sprints", workspace, project), sprint, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SprintService) Update(ctx context.Context, workspace, project, id string, patch types.SprintPatch) (*types.Sprint, error) {
	var out types.Sprint
	err := s.client.patch(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/sprints/%s", workspace, project, id), patch, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SprintService) Delete(ctx context.Context, workspace, project, id string) error {
	return s.client.delete(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/sprints/%s", workspace, project, id))
}

// Archive stamps the sprint's archived_at, moving it to the archived list.
func (s *SprintService) Archive(ctx context.Context, workspace, project, id string) (*types.Sprint, error) {
	var out types.Sprint
	err := s.client.post(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/sprints/%s/archive", workspace, project, id), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Restore clears the sprint's archived_at.
func (s *SprintService) Restore(ctx context.Context, workspace, project, id string) (*types.Sprint, error) {
	var out types.Sprint
	err := s.client.post(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/sprints/%s/restore", workspace, project, id), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RemovalImpact reports which issues removing the sprint would orphan.
// The backend endpoint does not exist yet; this resolves to an empty
// impact so callers can keep their flow wired until it ships.
func (s *SprintService) RemovalImpact(ctx context.Context, workspace, project, id string) (*types.SprintRemovalImpact, error) {
	return &types.SprintRemovalImpact{}, nil
}
