// Package api is the HTTP transport for the windrose backend: one
// service per entity domain, a shared request path with retry for
// transient failures, and structured errors carrying the HTTP status.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/windrosehq/windrose-go/internal/debug"
	"github.com/windrosehq/windrose-go/internal/telemetry"
)

const defaultUserAgent = "windrose-go"

// Config configures a Client.
type Config struct {
	// BaseURL is the API origin, e.g. https://api.windrose.app.
	BaseURL string
	// APIToken authenticates every request as a bearer token.
	APIToken string
	// HTTPClient overrides the underlying client. Its transport is
	// wrapped with telemetry when enabled.
	HTTPClient *http.Client
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// RetryMaxElapsed bounds retries of transient failures.
	// Zero means the 15s default; negative disables retries.
	RetryMaxElapsed time.Duration
}

const defaultRetryMaxElapsed = 15 * time.Second

// Client talks to the windrose REST API. Create one with New and share
// it; it is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpc      *http.Client
	token      string
	userAgent  string
	maxElapsed time.Duration

	Workspaces    *WorkspaceService
	Projects      *ProjectService
	Issues        *IssueService
	Sprints       *SprintService
	Labels        *LabelService
	Modules       *ModuleService
	Pages         *PageService
	States        *StateService
	Notifications *NotificationService
	Stickies      *StickyService
	Favorites     *FavoriteService
	Widgets       *WidgetService
	Webhooks      *WebhookService
	Instance      *InstanceService
}

// New creates a Client for the given backend.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: parse base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api: base URL %q must be absolute", cfg.BaseURL)
	}

	httpc := &http.Client{Timeout: 30 * time.Second}
	if cfg.HTTPClient != nil {
		clone := *cfg.HTTPClient
		httpc = &clone
	}
	httpc.Transport = telemetry.WrapTransport(httpc.Transport)

	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	maxElapsed := cfg.RetryMaxElapsed
	if maxElapsed == 0 {
		maxElapsed = defaultRetryMaxElapsed
	}

	c := &Client{
		baseURL:    base,
		httpc:      httpc,
		token:      cfg.APIToken,
		userAgent:  ua,
		maxElapsed: maxElapsed,
	}
	c.Workspaces = &WorkspaceService{client: c}
	c.Projects = &ProjectService{client: c}
	c.Issues = &IssueService{client: c}
	c.Sprints = &SprintService{client: c}
	c.Labels = &LabelService{client: c}
	c.Modules = &ModuleService{client: c}
	c.Pages = &PageService{client: c}
	c.States = &StateService{client: c}
	c.Notifications = &NotificationService{client: c}
	c.Stickies = &StickyService{client: c}
	c.Favorites = &FavoriteService{client: c}
	c.Widgets = &WidgetService{client: c}
	c.Webhooks = &WebhookService{client: c}
	c.Instance = &InstanceService{client: c}
	return c, nil
}

// BaseURL returns the configured API origin.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// do issues one API request with retry for transient failures.
// Transport errors, 429 and 5xx responses are retried with exponential
// backoff until RetryMaxElapsed; everything else fails immediately.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
	}

	attempt := func() error {
		req, err := http.NewRequestWithContext(ctx, method, c.requestURL(path, query), bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("api: build request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			debug.Logf("api: %s %s: transport error: %v\n", method, path, err)
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("api: read response: %w", err)
		}
		if resp.StatusCode >= 400 {
			apiErr := parseError(resp.StatusCode, data)
			if retryableStatus(resp.StatusCode) {
				debug.Logf("api: %s %s: %d, retrying\n", method, path, resp.StatusCode)
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}
		if out != nil && len(data) > 0 {
			if err := json.Unmarshal(data, out); err != nil {
				return backoff.Permanent(fmt.Errorf("api: decode %s %s: %w", method, path, err))
			}
		}
		return nil
	}

	if c.maxElapsed < 0 {
		err := attempt()
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return perm.Unwrap()
		}
		return err
	}

	bo := c.newRetryBackoff()
	return backoff.Retry(attempt, backoff.WithContext(bo, ctx))
}

func (c *Client) newRetryBackoff() backoff.BackOff {
	// BackOff implementations are stateful; always return a fresh instance.
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.maxElapsed
	return bo
}

func (c *Client) requestURL(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
