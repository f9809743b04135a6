package api

import (
	"context"
	"fmt"

	"github.com/windrosehq/windrose-go/internal/types"
)

// LabelService manages the label hierarchy of a project.
type LabelService struct {
	client *Client
}

func (s *LabelService) List(ctx context.Context, workspace, project string) ([]types.Label, error) {
	var out []types.Label
	err := s.client.get(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/labels", workspace, project), nil, &out)
	return out, err
}

func (s *LabelService) Create(ctx context.Context, workspace, project string, label types.Label) (*types.Label, error) {
	var out types.Label
	err := s.client.post(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/labels", workspace, project), label, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *LabelService) Update(ctx context.Context, workspace, project, id string, patch types.LabelPatch) (*types.Label, error) {
	var out types.Label
	err := s.client.patch(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/labels/%s", workspace, project, id), patch, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *LabelService) Delete(ctx context.Context, workspace, project, id string) error {
	return s.client.delete(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/labels/%s", workspace, project, id))
}
