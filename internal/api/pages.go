package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/windrosehq/windrose-go/internal/types"
)

// PageService manages wiki documents. Pages are workspace-scoped; a
// page belonging to a project carries its project id in the record and
// project listings filter by query parameter.
type PageService struct {
	client *Client
}

func (s *PageService) List(ctx context.Context, workspace, project string) ([]types.Page, error) {
	q := url.Values{}
	if project != "" {
		q.Set("project_id", project)
	}
	var out []types.Page
	err := s.client.get(ctx, fmt.Sprintf("/api/workspaces/%s/pages", workspace), q, &out)
	return out, err
}

func (s *PageService) Get(ctx context.Context, workspace, id string) (*types.Page, error) {
	var out types.Page
	err := s.client.get(ctx, fmt.Sprintf("/api/workspaces/%s/pages/%s", workspace, id), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PageService) Create(ctx context.Context, workspace string, page types.Page) (*types.Page, error) {
	var out types.Page
	err := s.client.post(ctx, fmt.Sprintf("/api/workspaces/%s/pages", workspace), page, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PageService) Update(ctx context.Context, workspace, id string, patch types.PagePatch) (*types.Page, error) {
	var out types.Page
	err := s.client.patch(ctx, fmt.Sprintf("/api/workspaces/%s/pages/%s", workspace, id), patch, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PageService) Delete(ctx context.Context, workspace, id string) error {
	return s.client.delete(ctx, fmt.Sprintf("/api/workspaces/%s/pages/%s", workspace, id))
}

func (s *PageService) Archive(ctx context.Context, workspace, id string) (*types.Page, error) {
	var out types.Page
	err := s.client.post(ctx, fmt.Sprintf("/api/workspaces/%s/pages/%s/archive", workspace, id), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PageService) Restore(ctx context.Context, workspace, id string) (*types.Page, error) {
	var out types.Page
	err := s.client.post(ctx, fmt.Sprintf("/api/workspaces/%s/pages/%s/restore", workspace, id), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Lock prevents edits by anyone but the page owner.
func (s *PageService) Lock(ctx context.Context, workspace, id string) error {
	return s.client.post(ctx, fmt.Sprintf("/api/workspaces/%s/pages/%s/lock", workspace, id), nil, nil)
}

func (s *PageService) Unlock(ctx context.Context, workspace, id string) error {
	return s.client.delete(ctx, fmt.Sprintf("/api/workspaces/%s/pages/%s/lock", workspace, id))
}
