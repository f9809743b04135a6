package optimistic

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/windrosehq/windrose-go/internal/cache"
	"github.com/windrosehq/windrose-go/internal/querykey"
)

func newTestStore() *cache.Store {
	return cache.New(cache.Options{SweepInterval: -1})
}

// countingFetcher returns fn producing val and counts invocations.
func countingFetcher(val any, calls *atomic.Int32) cache.Fetcher {
	return func(ctx context.Context) (any, error) {
		calls.Add(1)
		return val, nil
	}
}

func TestRunSuccessSettlesAndInvalidates(t *testing.T) {
	store := newTestStore()
	defer store.Close()
	r := NewRunner(store)
	key := querykey.Issues("ws1", "p1")
	store.Set(key, []string{"alpha"})

	var observed any
	err := r.Run(context.Background(), Mutation{
		Name: "issue.create",
		Keys: []querykey.Key{key},
		Apply: func(tx *cache.Tx) {
			tx.Update(key, func(v any) any {
				return append([]string{}, append(v.([]string), "tmp-beta")...)
			})
		},
		Call: func(ctx context.Context) error {
			e, ok := store.Get(key)
			if !ok {
				t.Error("entry missing during remote call")
				return nil
			}
			observed = e.Value
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"alpha", "tmp-beta"}
	if !reflect.DeepEqual(observed, want) {
		t.Errorf("value during call = %v, want %v", observed, want)
	}

	// Settle invalidated the key, so the next read refetches even
	// though the entry is not yet stale.
	var calls atomic.Int32
	got, err := store.Fetch(context.Background(), key, countingFetcher([]string{"alpha", "beta"}, &calls), cache.FetchOptions{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("fetcher calls = %d, want 1", calls.Load())
	}
	if !reflect.DeepEqual(got, []string{"alpha", "beta"}) {
		t.Errorf("refetched = %v", got)
	}
}

func TestRunFailureRollsBack(t *testing.T) {
	store := newTestStore()
	defer store.Close()
	r := NewRunner(store)
	listKey := querykey.Labels("ws1", "p1")
	detailKey := querykey.IssueDetail("ws1", "p1", "i1")
	store.Set(listKey, []string{"bug", "chore"})

	remoteErr := errors.New("boom")
	err := r.Run(context.Background(), Mutation{
		Name: "label.create",
		Keys: []querykey.Key{listKey, detailKey},
		Apply: func(tx *cache.Tx) {
			tx.Set(listKey, []string{"bug", "chore", "feature"})
			tx.Set(detailKey, "feature")
		},
		Call: func(ctx context.Context) error { return remoteErr },
	})
	if !errors.Is(err, remoteErr) {
		t.Fatalf("Run error = %v, want %v", err, remoteErr)
	}

	e, ok := store.Get(listKey)
	if !ok {
		t.Fatal("list entry missing after rollback")
	}
	if !reflect.DeepEqual(e.Value, []string{"bug", "chore"}) {
		t.Errorf("list after rollback = %v", e.Value)
	}
	if _, ok := store.Get(detailKey); ok {
		t.Error("detail entry created by failed mutation still present")
	}
}

func TestRunFailureStillInvalidates(t *testing.T) {
	store := newTestStore()
	defer store.Close()
	r := NewRunner(store)
	key := querykey.Stickies("ws1")
	store.Set(key, []string{"note"})

	_ = r.Run(context.Background(), Mutation{
		Name:  "sticky.update",
		Keys:  []querykey.Key{key},
		Apply: func(tx *cache.Tx) { tx.Set(key, []string{"edited"}) },
		Call:  func(ctx context.Context) error { return errors.New("boom") },
	})

	var calls atomic.Int32
	if _, err := store.Fetch(context.Background(), key, countingFetcher([]string{"note"}, &calls), cache.FetchOptions{}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("fetcher calls = %d, want refetch after failed settle", calls.Load())
	}
}

func TestRunReconcileOverwritesWithServerValue(t *testing.T) {
	store := newTestStore()
	defer store.Close()
	r := NewRunner(store)
	detailKey := querykey.PageDetail("ws1", "pg1")

	var serverValue string
	err := r.Run(context.Background(), Mutation{
		Name:  "page.update",
		Keys:  []querykey.Key{detailKey},
		Apply: func(tx *cache.Tx) { tx.Set(detailKey, "local title") },
		Call: func(ctx context.Context) error {
			serverValue = "server title"
			return nil
		},
		OnSuccess: func(s *cache.Store) {
			s.Set(detailKey, serverValue)
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	e, ok := store.Get(detailKey)
	if !ok || e.Value != "server title" {
		t.Errorf("detail = %v, want server title", e.Value)
	}
}

func TestRunInvalidatesListedPrefixes(t *testing.T) {
	store := newTestStore()
	defer store.Close()
	r := NewRunner(store)
	detailKey := querykey.SprintDetail("ws1", "p1", "sp1")
	listKey := querykey.Sprints("ws1", "p1")
	store.Set(detailKey, "sprint 1")
	store.Set(listKey, []string{"sprint 1"})

	err := r.Run(context.Background(), Mutation{
		Name:        "sprint.archive",
		Keys:        []querykey.Key{detailKey},
		Apply:       func(tx *cache.Tx) { tx.Set(detailKey, "sprint 1 (archived)") },
		Call:        func(ctx context.Context) error { return nil },
		Invalidates: []querykey.Key{detailKey, listKey},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Both the item and its parent collection refetch on next access.
	var detailCalls, listCalls atomic.Int32
	if _, err := store.Fetch(context.Background(), detailKey, countingFetcher("x", &detailCalls), cache.FetchOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Fetch(context.Background(), listKey, countingFetcher([]string{"x"}, &listCalls), cache.FetchOptions{}); err != nil {
		t.Fatal(err)
	}
	if detailCalls.Load() != 1 || listCalls.Load() != 1 {
		t.Errorf("refetches = %d/%d, want 1/1", detailCalls.Load(), listCalls.Load())
	}
}

func TestRunRejectsMissingCall(t *testing.T) {
	r := NewRunner(newTestStore())
	if err := r.Run(context.Background(), Mutation{Name: "noop"}); err == nil {
		t.Error("expected error for mutation without a remote call")
	}
}

func TestMutationSupersedesInflightFetch(t *testing.T) {
	store := newTestStore()
	defer store.Close()
	r := NewRunner(store)
	key := querykey.IssueDetail("ws1", "p1", "i1")

	started := make(chan struct{})
	release := make(chan struct{})
	fetchDone := make(chan struct{})
	var fetched any
	go func() {
		defer close(fetchDone)
		fetched, _ = store.Fetch(context.Background(), key, func(ctx context.Context) (any, error) {
			close(started)
			<-release
			return "stale remote", nil
		}, cache.FetchOptions{})
	}()
	<-started

	err := r.Run(context.Background(), Mutation{
		Name:  "issue.update",
		Keys:  []querykey.Key{key},
		Apply: func(tx *cache.Tx) { tx.Set(key, "optimistic local") },
		Call:  func(ctx context.Context) error { return nil },
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	close(release)
	<-fetchDone

	// The detached fetch result is discarded; the reader and the cache
	// both see the mutation's value.
	if fetched != "optimistic local" {
		t.Errorf("fetch returned %v, want the newer local value", fetched)
	}
	e, ok := store.Get(key)
	if !ok || e.Value != "optimistic local" {
		t.Errorf("cache holds %v, want the mutation value", e.Value)
	}
}
