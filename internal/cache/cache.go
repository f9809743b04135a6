// Package cache implements the client-side query cache: a process-wide
// key→value store with per-entry freshness and retention windows,
// prefix invalidation, fetch coalescing, and snapshot/restore support
// for optimistic writes.
//
// The store is an explicit injected object, not a hidden singleton, so
// tests can build a throwaway store per case. All reads and writes go
// through the Store API; cached values are replaced wholesale on write
// and must never be mutated in place by callers.
package cache

import (
	"sync"
	"time"

	"github.com/windrosehq/windrose-go/internal/querykey"
)

// Status describes what the store is currently doing for a key.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusFetching Status = "fetching"
	StatusError    Status = "error"
)

// Default freshness and retention windows. Individual keys override
// these through FetchOptions (counters run much shorter, near-static
// data like instance config much longer).
const (
	DefaultStaleTime      = 5 * time.Minute
	DefaultGCTime         = 30 * time.Minute
	DefaultSweepInterval  = time.Minute
	DefaultRefetchTimeout = 30 * time.Second
)

// FetchOptions override the store-wide windows for a single key.
// Zero fields fall back to the store defaults.
type FetchOptions struct {
	StaleTime time.Duration
	GCTime    time.Duration
}

// Options configure a Store.
type Options struct {
	// StaleTime is how long a fetched value is served without refetch.
	StaleTime time.Duration
	// GCTime is how long an unread value is retained before eviction.
	GCTime time.Duration
	// SweepInterval is the janitor period. Negative disables the janitor.
	SweepInterval time.Duration
	// RefetchTimeout bounds invalidation-triggered background refetches.
	RefetchTimeout time.Duration
}

// Store is the query cache. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry

	subMu  sync.RWMutex
	subs   map[int]*subscriber
	nextID int

	opts    Options
	metrics *storeMetrics

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a Store and starts its eviction janitor.
func New(opts Options) *Store {
	if opts.StaleTime <= 0 {
		opts.StaleTime = DefaultStaleTime
	}
	if opts.GCTime <= 0 {
		opts.GCTime = DefaultGCTime
	}
	if opts.SweepInterval == 0 {
		opts.SweepInterval = DefaultSweepInterval
	}
	if opts.RefetchTimeout <= 0 {
		opts.RefetchTimeout = DefaultRefetchTimeout
	}
	s := &Store{
		entries: make(map[string]*entry),
		subs:    make(map[int]*subscriber),
		opts:    opts,
		metrics: newStoreMetrics(),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if opts.SweepInterval > 0 {
		go s.janitor()
	} else {
		close(s.done)
	}
	return s
}

// Close stops the janitor. The store remains usable afterwards; entries
// simply stop being evicted.
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.stop) })
	<-s.done
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// KeysUnder returns the keys of all live entries under prefix.
// Mutations over a family of filtered lists use it to enumerate the
// concrete keys their snapshot must cover.
func (s *Store) KeysUnder(prefix querykey.Key) []querykey.Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []querykey.Key
	for _, e := range s.entries {
		if e.key.HasPrefix(prefix) {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Get returns the current entry for key without triggering a fetch.
// Entries that exist but hold no value yet (first fetch failed or still
// in flight) report false.
func (s *Store) Get(key querykey.Key) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key.String()]
	if !ok || !e.has {
		return Entry{}, false
	}
	return Entry{
		Key:       e.key,
		Value:     e.value,
		Status:    e.status,
		UpdatedAt: e.updatedAt,
		StaleAt:   e.staleAt,
		Err:       e.err,
	}, true
}

// Set writes value for key directly and marks it fresh. This is the
// server-authoritative write path; optimistic writes go through Mutate
// so they can be rolled back.
func (s *Store) Set(key querykey.Key, value any) {
	s.mu.Lock()
	e := s.ensureLocked(key)
	s.setLocked(e, value)
	s.mu.Unlock()
	s.notify(Event{Kind: EventUpdated, Key: key})
}

// Invalidate marks every entry under prefix stale. Keys with a
// registered fetcher and at least one subscriber are refreshed in the
// background; everything else refetches lazily on next access.
func (s *Store) Invalidate(prefix querykey.Key) {
	s.mu.Lock()
	var events []Event
	var refetch []querykey.Key
	for _, e := range s.entries {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		e.invalid = true
		events = append(events, Event{Kind: EventInvalidated, Key: e.key})
		if e.fetcher != nil && e.flight == nil && s.hasSubscriber(e.key) {
			refetch = append(refetch, e.key)
		}
	}
	s.mu.Unlock()
	s.metrics.invalidated(len(events))
	s.notify(events...)
	for _, k := range refetch {
		go s.refetch(k)
	}
}

// Remove evicts every entry under prefix immediately, e.g. after a
// confirmed delete.
func (s *Store) Remove(prefix querykey.Key) {
	s.mu.Lock()
	var events []Event
	for ks, e := range s.entries {
		if e.key.HasPrefix(prefix) {
			delete(s.entries, ks)
			events = append(events, Event{Kind: EventRemoved, Key: e.key})
		}
	}
	s.mu.Unlock()
	s.notify(events...)
}

// CancelFetch detaches any in-flight fetch for keys under prefix.
// Cancellation is advisory: the underlying request may still complete,
// its result is simply never applied to the cache.
func (s *Store) CancelFetch(prefix querykey.Key) {
	s.mu.Lock()
	for _, e := range s.entries {
		if e.key.HasPrefix(prefix) {
			e.gen++
		}
	}
	s.mu.Unlock()
}

func (s *Store) ensureLocked(key querykey.Key) *entry {
	ks := key.String()
	e, ok := s.entries[ks]
	if !ok {
		e = &entry{
			key:    key,
			status: StatusIdle,
			gcAt:   time.Now().Add(s.opts.GCTime),
		}
		s.entries[ks] = e
	}
	return e
}

func (s *Store) setLocked(e *entry, value any) {
	now := time.Now()
	e.value = value
	e.has = true
	e.status = StatusIdle
	e.err = nil
	e.invalid = false
	e.updatedAt = now
	e.staleAt = now.Add(s.staleTime(e.opts))
	e.gcAt = now.Add(s.gcTime(e.opts))
}

func (s *Store) staleTime(o FetchOptions) time.Duration {
	if o.StaleTime > 0 {
		return o.StaleTime
	}
	return s.opts.StaleTime
}

func (s *Store) gcTime(o FetchOptions) time.Duration {
	if o.GCTime > 0 {
		return o.GCTime
	}
	return s.opts.GCTime
}

func (s *Store) janitor() {
	defer close(s.done)
	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep(time.Now())
		}
	}
}

// sweep drops entries past their retention window. Entries with an
// active flight or a live subscriber are kept regardless of age.
func (s *Store) sweep(now time.Time) {
	s.mu.Lock()
	evicted := 0
	for ks, e := range s.entries {
		if now.Before(e.gcAt) || e.flight != nil {
			continue
		}
		if s.hasSubscriber(e.key) {
			continue
		}
		delete(s.entries, ks)
		evicted++
	}
	s.mu.Unlock()
	s.metrics.evicted(evicted)
}
