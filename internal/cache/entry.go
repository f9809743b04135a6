package cache

import (
	"context"
	"time"

	"github.com/windrosehq/windrose-go/internal/querykey"
)

// Fetcher loads the canonical value for a key from the backend.
type Fetcher func(ctx context.Context) (any, error)

// Entry is the read-only view of a cache entry returned by Get.
type Entry struct {
	Key       querykey.Key
	Value     any
	Status    Status
	UpdatedAt time.Time
	StaleAt   time.Time
	Err       error
}

// entry is the store-internal record for one key. All fields are
// guarded by Store.mu.
type entry struct {
	key       querykey.Key
	value     any
	has       bool
	status    Status
	updatedAt time.Time
	staleAt   time.Time
	gcAt      time.Time
	invalid   bool
	err       error

	// gen is bumped whenever a newer write supersedes whatever a
	// pending fetch might return. A flight only applies its result
	// when its captured gen still matches.
	gen     uint64
	fetcher Fetcher
	opts    FetchOptions
	flight  *flight
}

func (e *entry) freshLocked(now time.Time) bool {
	return e.has && !e.invalid && now.Before(e.staleAt)
}

// flight is one in-flight fetch. Waiters block on done; val, err and
// applied are written exactly once before done is closed.
type flight struct {
	gen     uint64
	done    chan struct{}
	val     any
	err     error
	applied bool
}
