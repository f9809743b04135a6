package api

import (
	"context"
	"fmt"

	"github.com/windrosehq/windrose-go/internal/types"
)

// FavoriteService manages the caller's sidebar favorites: saved
// references to projects, pages, sprints and folders that group them.
type FavoriteService struct {
	client *Client
}

func (s *FavoriteService) List(ctx context.Context, workspace string) ([]types.Favorite, error) {
	var out []types.Favorite
	err := s.client.get(ctx, fmt.Sprintf("/api/workspaces/%s/favorites", workspace), nil, &out)
	return out, err
}

func (s *FavoriteService) Create(ctx context.Context, workspace string, fav types.Favorite) (*types.Favorite, error) {
	var out types.Favorite
	err := s.client.post(ctx, fmt.Sprintf("/api/workspaces/%s/favorites", workspace), fav, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *FavoriteService) Update(ctx context.Context, workspace, id string, patch types.FavoritePatch) (*types.Favorite, error) {
	var out types.Favorite
	err := s.client.patch(ctx, fmt.Sprintf("/api/workspaces/%s/favorites/%s", workspace, id), patch, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *FavoriteService) Delete(ctx context.Context, workspace, id string) error {
	return s.client.delete(ctx, fmt.Sprintf("/api/workspaces/%s/favorites/%s", workspace, id))
}
