// Package windrose is a cached, optimistic Go client for the Windrose
// project tracker.
//
// The package re-exports the SDK's entity types and the Client so
// programs outside this module can embed it without reaching into
// internal packages:
//
//	wr, err := windrose.New("https://api.windrose.app", apiKey)
//	if err != nil { ... }
//	defer wr.Close()
//	issues, err := wr.Issues.List(ctx, "acme", projectID)
//
// Reads are served from an in-process query cache and refreshed in the
// background when stale. Writes apply to the cache immediately, call
// the server, and roll back exactly if the server rejects them. See the
// sub-client fields on Client for the per-entity operations.
package windrose

import (
	"errors"

	"github.com/windrosehq/windrose-go/internal/api"
	"github.com/windrosehq/windrose-go/internal/cache"
	"github.com/windrosehq/windrose-go/internal/client"
	"github.com/windrosehq/windrose-go/internal/config"
	"github.com/windrosehq/windrose-go/internal/types"
	"github.com/windrosehq/windrose-go/internal/views"
)

// Entity records, one per server collection.
type (
	Workspace      = types.Workspace
	Project        = types.Project
	Issue          = types.Issue
	State          = types.State
	Label          = types.Label
	Sprint         = types.Sprint
	Module         = types.Module
	Page           = types.Page
	Notification   = types.Notification
	Sticky         = types.Sticky
	Favorite       = types.Favorite
	Widget         = types.Widget
	Webhook        = types.Webhook
	InstanceConfig = types.InstanceConfig
)

// Typed patches for partial updates. Nil fields are left untouched.
type (
	IssuePatch    = types.IssuePatch
	StatePatch    = types.StatePatch
	LabelPatch    = types.LabelPatch
	SprintPatch   = types.SprintPatch
	ModulePatch   = types.ModulePatch
	PagePatch     = types.PagePatch
	StickyPatch   = types.StickyPatch
	FavoritePatch = types.FavoritePatch
	WidgetPatch   = types.WidgetPatch
	WebhookPatch  = types.WebhookPatch
)

// Enumerations.
type (
	Priority           = types.Priority
	StateGroup         = types.StateGroup
	SprintStatus       = types.SprintStatus
	ModuleStatus       = types.ModuleStatus
	NotificationBucket = types.NotificationBucket
	FavoriteKind       = types.FavoriteKind
	PageAccess         = types.PageAccess
)

// Priority levels, most urgent first.
const (
	PriorityUrgent = types.PriorityUrgent
	PriorityHigh   = types.PriorityHigh
	PriorityMedium = types.PriorityMedium
	PriorityLow    = types.PriorityLow
	PriorityNone   = types.PriorityNone
)

// Workflow state groups in board order.
const (
	GroupBacklog   = types.GroupBacklog
	GroupUnstarted = types.GroupUnstarted
	GroupStarted   = types.GroupStarted
	GroupCompleted = types.GroupCompleted
	GroupCancelled = types.GroupCancelled
)

// Notification buckets.
const (
	BucketUnread   = types.BucketUnread
	BucketRead     = types.BucketRead
	BucketArchived = types.BucketArchived
	BucketSnoozed  = types.BucketSnoozed
)

// Sprint statuses.
const (
	SprintUpcoming  = types.SprintUpcoming
	SprintCurrent   = types.SprintCurrent
	SprintCompleted = types.SprintCompleted
	SprintDraft     = types.SprintDraft
)

// Favorite kinds.
const (
	FavoriteFolder  = types.FavoriteFolder
	FavoriteProject = types.FavoriteProject
	FavoriteSprint  = types.FavoriteSprint
	FavoriteModule  = types.FavoriteModule
	FavoritePage    = types.FavoritePage
	FavoriteView    = types.FavoriteView
)

// Client is the SDK entry point; its exported fields are the
// per-entity sub-clients (Issues, Sprints, Labels, ...).
type Client = client.Client

// Options configure a Client for callers that need a shared cache
// store or custom cache timings.
type Options = client.Options

// CacheOptions tune staleness and retention of the query cache.
type CacheOptions = cache.Options

// Node is one level of a derived tree view (labels, pages, favorites).
type Node[T any] = views.Node[T]

// Edge selects which side of a target position a reorder lands on.
type Edge = views.Edge

// Reorder edges.
const (
	EdgeAbove = views.EdgeAbove
	EdgeBelow = views.EdgeBelow
)

// ErrPendingCreate is returned when a mutation addresses a record whose
// optimistic create has not settled yet.
var ErrPendingCreate = client.ErrPendingCreate

// APIError is the structured failure returned by the backend. Unwrap
// it with errors.As to read the HTTP status and server error code.
type APIError = api.Error

// Sentinel errors matched by errors.Is against API failures.
var (
	ErrNotFound     = api.ErrNotFound
	ErrConflict     = api.ErrConflict
	ErrUnauthorized = api.ErrUnauthorized
	ErrRateLimited  = api.ErrRateLimited
)

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool { return api.IsNotFound(err) }

// IsConflict reports whether err is a 409 from the API.
func IsConflict(err error) bool { return api.IsConflict(err) }

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool { return api.IsUnauthorized(err) }

// IsRateLimited reports whether err is a 429 from the API.
func IsRateLimited(err error) bool { return api.IsRateLimited(err) }

// New opens a client against baseURL authenticating with apiKey.
// Cache timings use the defaults; use NewWithOptions for control over
// them.
func New(baseURL, apiKey string) (*Client, error) {
	apic, err := api.New(api.Config{BaseURL: baseURL, APIToken: apiKey})
	if err != nil {
		return nil, err
	}
	return client.New(Options{API: apic})
}

// NewWithOptions opens a client from a full transport and cache
// configuration.
func NewWithOptions(apiCfg api.Config, opts Options) (*Client, error) {
	apic, err := api.New(apiCfg)
	if err != nil {
		return nil, err
	}
	opts.API = apic
	return client.New(opts)
}

// APIConfig configures the HTTP transport for NewWithOptions.
type APIConfig = api.Config

// NewFromConfig opens a client using the same configuration the wr CLI
// reads: .windrose/config.yaml discovered upward from the working
// directory, overridden by WR_* environment variables.
func NewFromConfig() (*Client, error) {
	if err := config.Initialize(); err != nil {
		return nil, err
	}
	settings := config.Load()
	if settings.APIKey == "" {
		return nil, errors.New("windrose: no api key configured (set WR_API_KEY or run 'wr init')")
	}
	apic, err := api.New(api.Config{
		BaseURL:         settings.BaseURL,
		APIToken:        settings.APIKey,
		RetryMaxElapsed: settings.RetryMaxElapsed,
	})
	if err != nil {
		return nil, err
	}
	return client.New(Options{
		API: apic,
		Cache: cache.Options{
			StaleTime: settings.StaleTime,
			GCTime:    settings.GCTime,
		},
	})
}
