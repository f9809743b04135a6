// Package client is the high-level surface of the SDK: typed, cached,
// optimistic operations per entity domain, tying the query cache, the
// REST services and the derived-view helpers together.
//
// Reads go through the cache and coalesce with concurrent callers.
// Writes apply speculatively, call the backend, and roll back on
// failure; affected collections are invalidated either way, so the
// cache converges on server state.
//
// Reads silently return the zero collection when a required scope id is
// missing: a caller that has not selected a workspace yet gets an empty
// list, not an error and not a request against a half-built URL.
// Mutations with missing scope ids fail loudly instead.
package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/windrosehq/windrose-go/internal/api"
	"github.com/windrosehq/windrose-go/internal/cache"
	"github.com/windrosehq/windrose-go/internal/optimistic"
	"github.com/windrosehq/windrose-go/internal/querykey"
)

// ErrPendingCreate is returned when a mutation addresses a record whose
// optimistic create has not settled yet. Temp ids never reach the wire.
var ErrPendingCreate = errors.New("client: record creation has not settled yet")

// Options configure a Client.
type Options struct {
	// API is the transport. Required.
	API *api.Client
	// Store lets callers share one cache across clients. When nil the
	// client owns a private store built from Cache.
	Store *cache.Store
	// Cache configures the private store. Ignored when Store is set.
	Cache cache.Options
}

// Client bundles the per-domain sub-clients around one store and one
// transport. Create it once and share it; all methods are safe for
// concurrent use.
type Client struct {
	store    *cache.Store
	api      *api.Client
	runner   *optimistic.Runner
	ownStore bool

	Workspaces    *WorkspaceClient
	Projects      *ProjectClient
	Issues        *IssueClient
	Sprints       *SprintClient
	Labels        *LabelClient
	Modules       *ModuleClient
	Pages         *PageClient
	States        *StateClient
	Notifications *NotificationClient
	Stickies      *StickyClient
	Favorites     *FavoriteClient
	Widgets       *WidgetClient
	Webhooks      *WebhookClient
	Instance      *InstanceClient
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	if opts.API == nil {
		return nil, fmt.Errorf("client: api client is required")
	}
	store := opts.Store
	own := false
	if store == nil {
		store = cache.New(opts.Cache)
		own = true
	}
	c := &Client{
		store:    store,
		api:      opts.API,
		runner:   optimistic.NewRunner(store),
		ownStore: own,
	}
	c.Workspaces = &WorkspaceClient{c: c}
	c.Projects = &ProjectClient{c: c}
	c.Issues = &IssueClient{c: c}
	c.Sprints = &SprintClient{c: c}
	c.Labels = &LabelClient{c: c}
	c.Modules = &ModuleClient{c: c}
	c.Pages = &PageClient{c: c}
	c.States = &StateClient{c: c}
	c.Notifications = &NotificationClient{c: c}
	c.Stickies = &StickyClient{c: c}
	c.Favorites = &FavoriteClient{c: c}
	c.Widgets = &WidgetClient{c: c}
	c.Webhooks = &WebhookClient{c: c}
	c.Instance = &InstanceClient{c: c}
	return c, nil
}

// Close stops the client's private cache janitor. Shared stores passed
// in through Options.Store are left running.
func (c *Client) Close() {
	if c.ownStore {
		c.store.Close()
	}
}

// Store exposes the underlying cache, mainly for subscriptions.
func (c *Client) Store() *cache.Store {
	return c.store
}

// Subscribe registers fn for cache change events under prefix.
func (c *Client) Subscribe(prefix querykey.Key, fn func(cache.Event)) (cancel func()) {
	return c.store.Subscribe(prefix, fn)
}

// fetchAs loads key through the cache with fn and asserts the cached
// value's type. A type mismatch means two callers keyed different
// shapes under one key, which is a bug, not a network condition.
func fetchAs[T any](ctx context.Context, c *Client, key querykey.Key, opts cache.FetchOptions, fn func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.store.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	}, opts)
	if err != nil {
		var zero T
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("client: cached value for %s is %T, want %T", key, v, zero)
	}
	return out, nil
}

// scoped reports whether every required scope id is present.
func scoped(ids ...string) bool {
	for _, id := range ids {
		if id == "" {
			return false
		}
	}
	return true
}

// scopeErr names the operation that was called without its scope ids.
func scopeErr(op string) error {
	return fmt.Errorf("client: %s: missing scope id", op)
}
