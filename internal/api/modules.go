package api

import (
	"context"
	"fmt"

	"github.com/windrosehq/windrose-go/internal/types"
)

// ModuleService manages feature-sized issue groupings.
type ModuleService struct {
	client *Client
}

func (s *ModuleService) List(ctx context.Context, workspace, project string) ([]types.Module, error) {
	var out []types.Module
	err := s.client.get(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/modules", workspace, project), nil, &out)
	return out, err
}

func (s *ModuleService) Get(ctx context.Context, workspace, project, id string) (*types.Module, error) {
	var out types.Module
	err := s.client.get(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/modules/%s", workspace, project, id), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ModuleService) Create(ctx context.Context, workspace, project string, module types.Module) (*types.Module, error) {
	var out types.Module
	err := s.client.post(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/modules", workspace, project), module, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ModuleService) Update(ctx context.Context, workspace, project, id string, patch types.ModulePatch) (*types.Module, error) {
	var out types.Module
	err := s.client.patch(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/modules/%s", workspace, project, id), patch, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ModuleService) Delete(ctx context.Context, workspace, project, id string) error {
	return s.client.delete(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/modules/%s", workspace, project, id))
}
