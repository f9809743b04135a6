package cache

import (
	"time"

	"github.com/windrosehq/windrose-go/internal/querykey"
)

// Snapshot is a point-in-time copy of a set of cache entries, captured
// before an optimistic write so the write can be rolled back exactly.
// A snapshot belongs to the mutation that took it: discarded on
// success, restored verbatim on failure.
type Snapshot struct {
	states []entryState
}

type entryState struct {
	key       querykey.Key
	existed   bool
	value     any
	has       bool
	status    Status
	updatedAt time.Time
	staleAt   time.Time
	gcAt      time.Time
	invalid   bool
	err       error
}

// Keys returns the keys captured in the snapshot.
func (sn *Snapshot) Keys() []querykey.Key {
	keys := make([]querykey.Key, 0, len(sn.states))
	for _, st := range sn.states {
		keys = append(keys, st.key)
	}
	return keys
}

// Mutate prepares an optimistic write over keys: any in-flight fetch
// for the keys is detached, their current state is snapshotted, and
// apply performs its speculative writes, all inside one critical
// section. No fetch result and no competing mutation can interleave
// between the snapshot and the writes.
func (s *Store) Mutate(keys []querykey.Key, apply func(tx *Tx)) *Snapshot {
	s.mu.Lock()
	for _, k := range keys {
		if e, ok := s.entries[k.String()]; ok {
			e.gen++
		}
	}
	snap := s.snapshotLocked(keys)
	tx := &Tx{store: s}
	if apply != nil {
		apply(tx)
	}
	events := tx.events
	s.mu.Unlock()
	s.notify(events...)
	return snap
}

func (s *Store) snapshotLocked(keys []querykey.Key) *Snapshot {
	snap := &Snapshot{states: make([]entryState, 0, len(keys))}
	for _, k := range keys {
		st := entryState{key: k}
		if e, ok := s.entries[k.String()]; ok {
			st.existed = true
			st.value = e.value
			st.has = e.has
			st.status = e.status
			st.updatedAt = e.updatedAt
			st.staleAt = e.staleAt
			st.gcAt = e.gcAt
			st.invalid = e.invalid
			st.err = e.err
			// A fetching status is transient; the flight it belongs to
			// has just been detached, so it restores as idle.
			if st.status == StatusFetching {
				st.status = StatusIdle
			}
		}
		snap.states = append(snap.states, st)
	}
	return snap
}

// Restore rolls every snapshotted key back to its captured state. The
// restore is verbatim: values are replaced wholesale, never merged, so
// a failed mutation cannot leave partial optimistic data behind. Keys
// that did not exist at snapshot time are removed again.
func (s *Store) Restore(snap *Snapshot) {
	if snap == nil {
		return
	}
	s.mu.Lock()
	var events []Event
	for _, st := range snap.states {
		ks := st.key.String()
		if !st.existed {
			if _, ok := s.entries[ks]; ok {
				delete(s.entries, ks)
				events = append(events, Event{Kind: EventRemoved, Key: st.key})
			}
			continue
		}
		e, ok := s.entries[ks]
		if !ok {
			e = &entry{key: st.key}
			s.entries[ks] = e
		}
		e.gen++
		e.value = st.value
		e.has = st.has
		e.status = st.status
		e.updatedAt = st.updatedAt
		e.staleAt = st.staleAt
		e.gcAt = st.gcAt
		e.invalid = st.invalid
		e.err = st.err
		events = append(events, Event{Kind: EventRolledBack, Key: st.key})
	}
	s.mu.Unlock()
	s.metrics.rolledBack(len(events))
	s.notify(events...)
}

// Tx is the write surface handed to Mutate's apply callback. Writes run
// under the store lock; the callback must not call other Store methods.
type Tx struct {
	store  *Store
	events []Event
}

// Get reads the current cached value for key.
func (tx *Tx) Get(key querykey.Key) (any, bool) {
	e, ok := tx.store.entries[key.String()]
	if !ok || !e.has {
		return nil, false
	}
	return e.value, true
}

// Set writes value for key.
func (tx *Tx) Set(key querykey.Key, value any) {
	e := tx.store.ensureLocked(key)
	tx.store.setLocked(e, value)
	tx.events = append(tx.events, Event{Kind: EventUpdated, Key: key})
}

// Update rewrites the cached value for key when one is present. Missing
// entries are left untouched: there is nothing to patch, and the next
// read fetches canonical data anyway.
func (tx *Tx) Update(key querykey.Key, fn func(value any) any) {
	e, ok := tx.store.entries[key.String()]
	if !ok || !e.has {
		return
	}
	tx.store.setLocked(e, fn(e.value))
	tx.events = append(tx.events, Event{Kind: EventUpdated, Key: key})
}

// Remove evicts key.
func (tx *Tx) Remove(key querykey.Key) {
	ks := key.String()
	if _, ok := tx.store.entries[ks]; !ok {
		return
	}
	delete(tx.store.entries, ks)
	tx.events = append(tx.events, Event{Kind: EventRemoved, Key: key})
}
