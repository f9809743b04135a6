package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/windrosehq/windrose-go/internal/types"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL, APIToken: "test-token"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, srv
}

func TestRequestShape(t *testing.T) {
	var gotMethod, gotPath, gotAuth, gotAccept string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`[]`))
	}))

	if _, err := c.Projects.List(context.Background(), "acme"); err != nil {
		t.Fatalf("List: %v", err)
	}
	if gotMethod != http.MethodGet {
		t.Errorf("method = %q, want GET", gotMethod)
	}
	if gotPath != "/api/workspaces/acme/projects" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Errorf("accept = %q", gotAccept)
	}
}

func TestQueryParameters(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))

	opts := IssueListOptions{StateID: "st-1", Priority: "urgent"}
	if _, err := c.Issues.List(context.Background(), "acme", "proj", opts); err != nil {
		t.Fatalf("List: %v", err)
	}
	if gotQuery != "priority=urgent&state_id=st-1" {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var attempts atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"id":"p1","name":"Platform"}`))
	}))

	p, err := c.Projects.Get(context.Background(), "acme", "p1")
	if err != nil {
		t.Fatalf("Get after retry: %v", err)
	}
	if p.Name != "Platform" {
		t.Errorf("name = %q", p.Name)
	}
	if n := attempts.Load(); n != 2 {
		t.Errorf("attempts = %d, want 2", n)
	}
}

func TestNoRetryOnNotFound(t *testing.T) {
	var attempts atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"project_not_found","message":"no such project"}`))
	}))

	_, err := c.Projects.Get(context.Background(), "acme", "nope")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound = false for %v", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("errors.Is(err, ErrNotFound) = false for %v", err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %T is not *Error", err)
	}
	if apiErr.Code != "project_not_found" || apiErr.Message != "no such project" {
		t.Errorf("parsed error = %+v", apiErr)
	}
	if n := attempts.Load(); n != 1 {
		t.Errorf("attempts = %d, want 1", n)
	}
}

func TestRetryDisabled(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, RetryMaxElapsed: -1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.Projects.Get(context.Background(), "acme", "p1")
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("err = %v, want 503 *Error", err)
	}
	if n := attempts.Load(); n != 1 {
		t.Errorf("attempts = %d, want 1", n)
	}
}

func TestErrorFallbackMessage(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`not json at all`))
	}))

	_, err := c.Workspaces.Get(context.Background(), "acme")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %T is not *Error", err)
	}
	if apiErr.Status != http.StatusForbidden || apiErr.Message != "Forbidden" {
		t.Errorf("fallback error = %+v", apiErr)
	}
}

func TestCreateSendsBody(t *testing.T) {
	var gotType string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"id":"i1","name":"Ship it"}`))
	}))

	issue, err := c.Issues.Create(context.Background(), "acme", "proj", types.Issue{Name: "Ship it"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if issue.ID != "i1" {
		t.Errorf("id = %q", issue.ID)
	}
	if gotType != "application/json" {
		t.Errorf("content-type = %q", gotType)
	}
}

func TestStubsSkipNetwork(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	impact, err := c.Sprints.RemovalImpact(context.Background(), "acme", "proj", "sp1")
	if err != nil {
		t.Fatalf("RemovalImpact: %v", err)
	}
	if impact.Count != 0 || len(impact.IssueIDs) != 0 {
		t.Errorf("impact = %+v, want empty", impact)
	}
	if err := c.Issues.BulkMove(context.Background(), "acme", "proj", "proj2", []string{"i1"}); err != nil {
		t.Fatalf("BulkMove: %v", err)
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("server hits = %d, want 0", n)
	}
}

func TestContextCancellation(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Projects.Get(ctx, "acme", "p1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestNewRejectsRelativeURL(t *testing.T) {
	if _, err := New(Config{BaseURL: "not-a-url"}); err == nil {
		t.Error("expected error for relative base URL")
	}
	if _, err := New(Config{}); err == nil {
		t.Error("expected error for empty base URL")
	}
}
