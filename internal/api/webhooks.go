package api

import (
	"context"
	"fmt"

	"github.com/windrosehq/windrose-go/internal/types"
)

// WebhookService manages outbound event webhooks for a workspace.
type WebhookService struct {
	client *Client
}

func (s *WebhookService) List(ctx context.Context, workspace string) ([]types.Webhook, error) {
	var out []types.Webhook
	err := s.client.get(ctx, fmt.Sprintf("/api/workspaces/%s/webhooks", workspace), nil, &out)
	return out, err
}

func (s *WebhookService) Get(ctx context.Context, workspace, id string) (*types.Webhook, error) {
	var out types.Webhook
	err := s.client.get(ctx, fmt.Sprintf("/api/workspaces/%s/webhooks/%s", workspace, id), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Create registers a webhook. The response carries the signing secret;
// it is returned only once so callers must store it.
func (s *WebhookService) Create(ctx context.Context, workspace string, hook types.Webhook) (*types.Webhook, error) {
	var out types.Webhook
	err := s.client.post(ctx, fmt.Sprintf("/api/workspaces/%s/webhooks", workspace), hook, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *WebhookService) Update(ctx context.Context, workspace, id string, patch types.WebhookPatch) (*types.Webhook, error) {
	var out types.Webhook
	err := s.client.patch(ctx, fmt.Sprintf("/api/workspaces/%s/webhooks/%s", workspace, id), patch, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *WebhookService) Delete(ctx context.Context, workspace, id string) error {
	return s.client.delete(ctx, fmt.Sprintf("/api/workspaces/%s/webhooks/%s", workspace, id))
}

// RegenerateSecret rotates the signing secret and returns the webhook
// with the new secret populated.
func (s *WebhookService) RegenerateSecret(ctx context.Context, workspace, id string) (*types.Webhook, error) {
	var out types.Webhook
	err := s.client.post(ctx, fmt.Sprintf("/api/workspaces/%s/webhooks/%s/regenerate", workspace, id), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
