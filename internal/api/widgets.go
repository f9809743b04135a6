package api

import (
	"context"
	"fmt"

	"github.com/windrosehq/windrose-go/internal/types"
)

// WidgetService manages the home dashboard widget list. Widgets are
// fixed by the server; clients only toggle visibility and reorder.
type WidgetService struct {
	client *Client
}

func (s *WidgetService) List(ctx context.Context, workspace string) ([]types.Widget, error) {
	var out []types.Widget
	err := s.client.get(ctx, fmt.Sprintf("/api/workspaces/%s/home/widgets", workspace), nil, &out)
	return out, err
}

func (s *WidgetService) Update(ctx context.Context, workspace, id string, patch types.WidgetPatch) (*types.Widget, error) {
	var out types.Widget
	err := s.client.patch(ctx, fmt.Sprintf("/api/workspaces/%s/home/widgets/%s", workspace, id), patch, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
