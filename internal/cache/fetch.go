package cache

import (
	"context"
	"time"

	"github.com/windrosehq/windrose-go/internal/querykey"
)

// Fetch returns the cached value for key when fresh, otherwise loads it
// with fn. Concurrent fetches for the same key are coalesced: only the
// first caller executes fn, later callers wait for its result. The
// fetcher and options are remembered so Invalidate can refresh the key
// in the background.
func (s *Store) Fetch(ctx context.Context, key querykey.Key, fn Fetcher, opts FetchOptions) (any, error) {
	s.mu.Lock()
	e := s.ensureLocked(key)
	e.fetcher = fn
	e.opts = opts

	now := time.Now()
	if e.freshLocked(now) {
		val := e.value
		e.gcAt = now.Add(s.gcTime(e.opts))
		s.mu.Unlock()
		s.metrics.hit(ctx)
		return val, nil
	}

	if fl := e.flight; fl != nil && fl.gen == e.gen {
		s.mu.Unlock()
		s.metrics.joined(ctx)
		return s.awaitFlight(ctx, key, fl)
	}

	refreshing := e.has
	fl := s.startFlightLocked(e)
	s.mu.Unlock()

	if refreshing {
		s.metrics.staleHit(ctx)
	} else {
		s.metrics.miss(ctx)
	}
	return s.runFlight(ctx, key, fl, fn)
}

func (s *Store) startFlightLocked(e *entry) *flight {
	fl := &flight{gen: e.gen, done: make(chan struct{})}
	e.flight = fl
	e.status = StatusFetching
	return fl
}

// runFlight executes fn and applies the result unless the key's
// generation moved on while the request was in the air. A superseded
// result is discarded and the caller gets the current cache value
// instead, so readers never observe data older than a newer write.
func (s *Store) runFlight(ctx context.Context, key querykey.Key, fl *flight, fn Fetcher) (any, error) {
	val, err := fn(ctx)

	s.mu.Lock()
	e := s.entries[key.String()]
	applied := false
	if e != nil && e.gen == fl.gen {
		applied = true
		if err != nil {
			e.status = StatusError
			e.err = err
		} else {
			s.setLocked(e, val)
		}
	}
	if e != nil && e.flight == fl {
		e.flight = nil
		if !applied && e.status == StatusFetching {
			e.status = StatusIdle
		}
	}
	var cur any
	hasCur := false
	if e != nil && e.has {
		cur, hasCur = e.value, true
	}
	fl.val, fl.err, fl.applied = val, err, applied
	s.mu.Unlock()
	close(fl.done)

	if applied {
		if err != nil {
			s.notify(Event{Kind: EventError, Key: key})
			return nil, err
		}
		s.notify(Event{Kind: EventUpdated, Key: key})
		return val, nil
	}
	if hasCur {
		return cur, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// awaitFlight blocks until fl settles and returns its outcome, unless
// the flight was superseded, in which case the caller gets whatever the
// cache holds now.
func (s *Store) awaitFlight(ctx context.Context, key querykey.Key, fl *flight) (any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-fl.done:
	}

	if fl.applied {
		return fl.val, fl.err
	}

	s.mu.Lock()
	e := s.entries[key.String()]
	var cur any
	hasCur := false
	if e != nil && e.has {
		cur, hasCur = e.value, true
	}
	s.mu.Unlock()

	if hasCur {
		return cur, nil
	}
	return fl.val, fl.err
}

// refetch refreshes one invalidated key in the background on behalf of
// its subscribers.
func (s *Store) refetch(key querykey.Key) {
	s.mu.Lock()
	e := s.entries[key.String()]
	if e == nil || e.fetcher == nil || !e.invalid {
		s.mu.Unlock()
		return
	}
	if fl := e.flight; fl != nil && fl.gen == e.gen {
		s.mu.Unlock()
		return
	}
	fn := e.fetcher
	fl := s.startFlightLocked(e)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.RefetchTimeout)
	defer cancel()
	_, _ = s.runFlight(ctx, key, fl, fn)
}
