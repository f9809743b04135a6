package api

import (
	"context"
	"fmt"

	"github.com/windrosehq/windrose-go/internal/types"
)

// StickyService manages the caller's personal sticky notes, which live
// at workspace scope.
type StickyService struct {
	client *Client
}

func (s *StickyService) List(ctx context.Context, workspace string) ([]types.Sticky, error) {
	var out []types.Sticky
	err := s.client.get(ctx, fmt.Sprintf("/api/workspaces/%s/stickies", workspace), nil, &out)
	return out, err
}

func (s *StickyService) Create(ctx context.Context, workspace string, sticky types.Sticky) (*types.Sticky, error) {
	var out types.Sticky
	err := s.client.post(ctx, fmt.Sprintf("/api/workspaces/%s/stickies", workspace), sticky, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *StickyService) Update(ctx context.Context, workspace, id string, patch types.StickyPatch) (*types.Sticky, error) {
	var out types.Sticky
	err := s.client.patch(ctx, fmt.Sprintf("/api/workspaces/%s/stickies/%s", workspace, id), patch, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *StickyService) Delete(ctx context.Context, workspace, id string) error {
	return s.client.delete(ctx, fmt.Sprintf("/api/workspaces/%s/stickies/%s", workspace, id))
}
