package client

import (
	"context"
	"fmt"

	"github.com/windrosehq/windrose-go/internal/cache"
	"github.com/windrosehq/windrose-go/internal/idgen"
	"github.com/windrosehq/windrose-go/internal/optimistic"
	"github.com/windrosehq/windrose-go/internal/querykey"
	"github.com/windrosehq/windrose-go/internal/types"
)

// WebhookClient manages workspace webhooks. Secrets pass through
// verbatim and are never cached beyond the returned record.
type WebhookClient struct {
	c *Client
}

func webhookID(w types.Webhook) string { return w.ID }

func (wc *WebhookClient) List(ctx context.Context, workspace string) ([]types.Webhook, error) {
	if !scoped(workspace) {
		return nil, nil
	}
	key := querykey.Webhooks(workspace)
	return fetchAs(ctx, wc.c, key, cache.FetchOptions{}, func(ctx context.Context) ([]types.Webhook, error) {
		return wc.c.api.Webhooks.List(ctx, workspace)
	})
}

// Create registers the webhook and returns the record carrying the
// one-time signing secret. No speculative write: the secret only exists
// in the server response.
func (wc *WebhookClient) Create(ctx context.Context, workspace string, hook types.Webhook) (*types.Webhook, error) {
	if !scoped(workspace) {
		return nil, scopeErr("webhook.create")
	}
	if err := hook.Validate(); err != nil {
		return nil, fmt.Errorf("client: webhook.create: %w", err)
	}
	out, err := wc.c.api.Webhooks.Create(ctx, workspace, hook)
	if err != nil {
		return nil, err
	}
	wc.c.store.Invalidate(querykey.Webhooks(workspace))
	return out, nil
}

func (wc *WebhookClient) Update(ctx context.Context, workspace, id string, patch types.WebhookPatch) error {
	if !scoped(workspace, id) {
		return scopeErr("webhook.update")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	if patch.IsZero() {
		return nil
	}
	listKey := querykey.Webhooks(workspace)
	return wc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "webhook.update",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return patchItem(v, id, webhookID, patch.Apply)
			})
		},
		Call: func(ctx context.Context) error {
			_, err := wc.c.api.Webhooks.Update(ctx, workspace, id, patch)
			return err
		},
	})
}

// RegenerateSecret rotates the signing secret and returns the webhook
// with the new secret populated, again only in the response.
func (wc *WebhookClient) RegenerateSecret(ctx context.Context, workspace, id string) (*types.Webhook, error) {
	if !scoped(workspace, id) {
		return nil, scopeErr("webhook.regenerate-secret")
	}
	return wc.c.api.Webhooks.RegenerateSecret(ctx, workspace, id)
}

func (wc *WebhookClient) Delete(ctx context.Context, workspace, id string) error {
	if !scoped(workspace, id) {
		return scopeErr("webhook.delete")
	}
	if idgen.IsTemp(id) {
		return ErrPendingCreate
	}
	listKey := querykey.Webhooks(workspace)
	return wc.c.runner.Run(ctx, optimistic.Mutation{
		Name: "webhook.delete",
		Keys: []querykey.Key{listKey},
		Apply: func(tx *cache.Tx) {
			tx.Update(listKey, func(v any) any {
				return dropItem(v, id, webhookID)
			})
		},
		Call: func(ctx context.Context) error {
			return wc.c.api.Webhooks.Delete(ctx, workspace, id)
		},
	})
}
