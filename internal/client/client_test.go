package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/windrosehq/windrose-go/internal/api"
	"github.com/windrosehq/windrose-go/internal/cache"
	"github.com/windrosehq/windrose-go/internal/types"
)

// newTestClient wires a Client to an httptest server with retries off
// and the cache janitor disabled.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	apic, err := api.New(api.Config{BaseURL: srv.URL, APIToken: "test-token", RetryMaxElapsed: -1})
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	c, err := New(Options{API: apic, Cache: cache.Options{SweepInterval: -1}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestListCachesAcrossCalls(t *testing.T) {
	var gets atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gets.Add(1)
		writeJSON(t, w, []types.Project{{ID: "p1", Name: "Platform"}})
	}))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ps, err := c.Projects.List(ctx, "acme")
		if err != nil {
			t.Fatalf("List #%d: %v", i, err)
		}
		if len(ps) != 1 || ps[0].ID != "p1" {
			t.Fatalf("List #%d = %+v", i, ps)
		}
	}
	if n := gets.Load(); n != 1 {
		t.Errorf("server requests = %d, want 1", n)
	}
}

func TestMissingScopeSkipsFetch(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(t, w, []types.Issue{})
	}))

	ctx := context.Background()
	issues, err := c.Issues.List(ctx, "", "p1")
	if err != nil || issues != nil {
		t.Errorf("List without workspace = %v, %v; want nil, nil", issues, err)
	}
	sprints, err := c.Sprints.List(ctx, "acme", "")
	if err != nil || sprints != nil {
		t.Errorf("List without project = %v, %v; want nil, nil", sprints, err)
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("server requests = %d, want 0", n)
	}
}

func TestMissingScopeFailsMutation(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))

	name := "renamed"
	err := c.Issues.Update(context.Background(), "", "p1", "i1", types.IssuePatch{Name: &name})
	if err == nil {
		t.Error("expected error for mutation without workspace")
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("server requests = %d, want 0", n)
	}
}

func TestPrefetchWarmsCollections(t *testing.T) {
	counts := make(map[string]*atomic.Int32)
	for _, p := range []string{"projects", "favorites", "unread-count", "issues", "states", "labels", "sprints"} {
		counts[p] = &atomic.Int32{}
	}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/workspaces/acme/projects":
			counts["projects"].Add(1)
			writeJSON(t, w, []types.Project{{ID: "p1"}})
		case r.URL.Path == "/api/workspaces/acme/favorites":
			counts["favorites"].Add(1)
			writeJSON(t, w, []types.Favorite{})
		case r.URL.Path == "/api/workspaces/acme/users/notifications/unread-count":
			counts["unread-count"].Add(1)
			writeJSON(t, w, map[string]int{"count": 4})
		case r.URL.Path == "/api/workspaces/acme/projects/p1/issues":
			counts["issues"].Add(1)
			writeJSON(t, w, []types.Issue{{ID: "i1", Name: "One"}})
		case r.URL.Path == "/api/workspaces/acme/projects/p1/states":
			counts["states"].Add(1)
			writeJSON(t, w, []types.State{})
		case r.URL.Path == "/api/workspaces/acme/projects/p1/labels":
			counts["labels"].Add(1)
			writeJSON(t, w, []types.Label{})
		case r.URL.Path == "/api/workspaces/acme/projects/p1/sprints":
			counts["sprints"].Add(1)
			writeJSON(t, w, []types.Sprint{})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	ctx := context.Background()
	if err := c.Prefetch(ctx, "acme", "p1"); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}

	// Every follow-up read is served from the warmed cache.
	if _, err := c.Issues.List(ctx, "acme", "p1"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Projects.List(ctx, "acme"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Notifications.UnreadCount(ctx, "acme"); err != nil {
		t.Fatal(err)
	}
	for name, n := range counts {
		if got := n.Load(); got != 1 {
			t.Errorf("%s requests = %d, want 1", name, got)
		}
	}
}
