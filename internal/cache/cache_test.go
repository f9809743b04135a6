package cache

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/windrosehq/windrose-go/internal/querykey"
)

func newTestStore() *Store {
	return New(Options{SweepInterval: -1})
}

func TestFetchCachesFreshValue(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	key := querykey.New("issues", "w1", "p1")
	var calls atomic.Int32
	fn := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return []string{"iss-1", "iss-2"}, nil
	}

	first, err := s.Fetch(context.Background(), key, fn, FetchOptions{})
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := s.Fetch(context.Background(), key, fn, FetchOptions{})
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if calls.Load() != 1 {
		t.Errorf("fetcher ran %d times, want 1", calls.Load())
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached value diverged: %v vs %v", first, second)
	}
}

func TestFetchRefreshesStaleEntry(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	key := querykey.New("notifications", "w1", "unread-count")
	var calls atomic.Int32
	fn := func(ctx context.Context) (any, error) {
		return int(calls.Add(1)), nil
	}
	opts := FetchOptions{StaleTime: 30 * time.Millisecond}

	if v, _ := s.Fetch(context.Background(), key, fn, opts); v != 1 {
		t.Fatalf("first fetch returned %v, want 1", v)
	}
	time.Sleep(60 * time.Millisecond)
	if v, _ := s.Fetch(context.Background(), key, fn, opts); v != 2 {
		t.Errorf("stale entry not refreshed, got %v", v)
	}
}

func TestConcurrentFetchesCoalesce(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	key := querykey.New("labels", "w1", "p1")
	var calls atomic.Int32
	release := make(chan struct{})
	fn := func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "labels-v1", nil
	}

	const readers = 8
	results := make([]any, readers)
	errs := make([]error, readers)
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.Fetch(context.Background(), key, fn, FetchOptions{})
		}(i)
	}

	// Give the readers a moment to pile onto the flight, then let the
	// single executor finish.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("fetcher ran %d times, want 1", calls.Load())
	}
	for i := 0; i < readers; i++ {
		if errs[i] != nil {
			t.Fatalf("reader %d: %v", i, errs[i])
		}
		if results[i] != "labels-v1" {
			t.Errorf("reader %d got %v, want labels-v1", i, results[i])
		}
	}
}

func TestInvalidatePrefixMarksOnlyMatching(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	issueKey := querykey.New("issues", "w1", "p1")
	sprintKey := querykey.New("sprints", "w1", "p1")
	var issueCalls, sprintCalls atomic.Int32
	issueFn := func(ctx context.Context) (any, error) { issueCalls.Add(1); return "issues", nil }
	sprintFn := func(ctx context.Context) (any, error) { sprintCalls.Add(1); return "sprints", nil }

	ctx := context.Background()
	s.Fetch(ctx, issueKey, issueFn, FetchOptions{})
	s.Fetch(ctx, sprintKey, sprintFn, FetchOptions{})

	s.Invalidate(querykey.New("issues"))

	s.Fetch(ctx, issueKey, issueFn, FetchOptions{})
	s.Fetch(ctx, sprintKey, sprintFn, FetchOptions{})

	if issueCalls.Load() != 2 {
		t.Errorf("invalidated key fetched %d times, want 2", issueCalls.Load())
	}
	if sprintCalls.Load() != 1 {
		t.Errorf("unrelated key fetched %d times, want 1", sprintCalls.Load())
	}
}

func TestInvalidateRefetchesSubscribedKeys(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	key := querykey.New("notifications", "w1")
	var calls atomic.Int32
	fn := func(ctx context.Context) (any, error) {
		return fmt.Sprintf("v%d", calls.Add(1)), nil
	}

	if _, err := s.Fetch(context.Background(), key, fn, FetchOptions{}); err != nil {
		t.Fatal(err)
	}
	cancel := s.Subscribe(key, func(Event) {})
	defer cancel()

	s.Invalidate(key)

	deadline := time.Now().Add(2 * time.Second)
	for {
		if e, ok := s.Get(key); ok && e.Value == "v2" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("background refetch never landed, calls=%d", calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRemoveEvictsByPrefix(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	key := querykey.New("stickies", "w1")
	s.Set(key, "note")
	if _, ok := s.Get(key); !ok {
		t.Fatal("seed entry missing")
	}

	s.Remove(querykey.New("stickies"))

	if _, ok := s.Get(key); ok {
		t.Error("entry survived Remove")
	}
}

func TestCancelFetchDiscardsSupersededResult(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	key := querykey.New("issues", "w1", "p1", "iss-1")
	started := make(chan struct{})
	release := make(chan struct{})
	fn := func(ctx context.Context) (any, error) {
		close(started)
		<-release
		return "server-stale", nil
	}

	var got any
	var fetchErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		got, fetchErr = s.Fetch(context.Background(), key, fn, FetchOptions{})
	}()

	<-started
	s.CancelFetch(key)
	s.Set(key, "local-newer")
	close(release)
	<-done

	if fetchErr != nil {
		t.Fatalf("fetch: %v", fetchErr)
	}
	if got != "local-newer" {
		t.Errorf("reader observed superseded fetch result %v", got)
	}
	if e, _ := s.Get(key); e.Value != "local-newer" {
		t.Errorf("cache holds %v, want local-newer", e.Value)
	}
}

func TestFetchErrorKeepsStaleValue(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	key := querykey.New("modules", "w1", "p1")
	var calls atomic.Int32
	fn := func(ctx context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return "v1", nil
		}
		return nil, errors.New("backend down")
	}

	ctx := context.Background()
	if _, err := s.Fetch(ctx, key, fn, FetchOptions{}); err != nil {
		t.Fatal(err)
	}
	s.Invalidate(key)

	if _, err := s.Fetch(ctx, key, fn, FetchOptions{}); err == nil {
		t.Fatal("refetch failure not surfaced")
	}

	e, ok := s.Get(key)
	if !ok || e.Value != "v1" {
		t.Errorf("stale value lost after failed refetch: %v", e.Value)
	}
	if e.Status != StatusError || e.Err == nil {
		t.Errorf("entry status = %s, err = %v; want error state", e.Status, e.Err)
	}
}

func TestSweepKeepsSubscribedEntries(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	kept := querykey.New("pages", "w1", "p1")
	dropped := querykey.New("widgets", "w1")
	s.Set(kept, "page")
	s.Set(dropped, "widget")

	cancel := s.Subscribe(kept, func(Event) {})
	defer cancel()

	s.sweep(time.Now().Add(24 * time.Hour))

	if _, ok := s.Get(kept); !ok {
		t.Error("subscribed entry was evicted")
	}
	if _, ok := s.Get(dropped); ok {
		t.Error("unwatched entry survived sweep past its retention window")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSubscribeCancelStopsDelivery(t *testing.T) {
	s := newTestStore()
	defer s.Close()

	var got []EventKind
	cancel := s.Subscribe(querykey.New("labels"), func(ev Event) {
		got = append(got, ev.Kind)
	})

	key := querykey.New("labels", "w1", "p1")
	s.Set(key, "x")
	cancel()
	s.Set(key, "y")

	if len(got) != 1 || got[0] != EventUpdated {
		t.Errorf("events = %v, want a single updated event", got)
	}
}
