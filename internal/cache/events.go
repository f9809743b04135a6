package cache

import (
	"github.com/windrosehq/windrose-go/internal/querykey"
)

// EventKind classifies a cache change.
type EventKind string

const (
	EventUpdated     EventKind = "updated"
	EventInvalidated EventKind = "invalidated"
	EventRemoved     EventKind = "removed"
	EventRolledBack  EventKind = "rolled-back"
	EventError       EventKind = "error"
)

// Event describes one change to one key.
type Event struct {
	Kind EventKind
	Key  querykey.Key
}

type subscriber struct {
	prefix querykey.Key
	fn     func(Event)
}

// Subscribe registers fn for change events on keys under prefix. Events
// are delivered sequentially from the goroutine that caused the change,
// after the store lock is released, so fn may call back into the store.
// The returned cancel removes the registration.
func (s *Store) Subscribe(prefix querykey.Key, fn func(Event)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = &subscriber{prefix: prefix, fn: fn}
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(events ...Event) {
	if len(events) == 0 {
		return
	}
	s.subMu.RLock()
	subs := make([]*subscriber, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subMu.RUnlock()

	for _, ev := range events {
		for _, sub := range subs {
			if ev.Key.HasPrefix(sub.prefix) {
				sub.fn(ev)
			}
		}
	}
}

// hasSubscriber reports whether any registration covers key. Safe to
// call with Store.mu held; subscriptions use their own lock.
func (s *Store) hasSubscriber(key querykey.Key) bool {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for _, sub := range s.subs {
		if key.HasPrefix(sub.prefix) {
			return true
		}
	}
	return false
}
