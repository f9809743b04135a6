// Package optimistic runs the mutation protocol: speculate into the
// cache, call the backend, then settle by reconciling on success or
// rolling back on failure. Either way the affected keys are invalidated
// at the end, so the cache converges on server state even when a caller
// ignores the returned error.
package optimistic

import (
	"context"
	"fmt"
	"time"

	"github.com/windrosehq/windrose-go/internal/cache"
	"github.com/windrosehq/windrose-go/internal/debug"
	"github.com/windrosehq/windrose-go/internal/querykey"
)

// Mutation describes one optimistic write. A mutation moves through
// idle, mutating, and settled; Run drives the whole lifecycle in one
// call.
type Mutation struct {
	// Name tags the mutation in logs and metrics, e.g. "issue.update".
	Name string

	// Keys lists every cache key the speculative write touches. The
	// snapshot, the rollback, and the in-flight fetch cancellation all
	// cover exactly these keys.
	Keys []querykey.Key

	// Apply performs the speculative cache writes. It runs inside the
	// store's mutation critical section, after in-flight fetches for
	// Keys have been detached and the snapshot taken.
	Apply func(tx *cache.Tx)

	// Call performs the remote request.
	Call func(ctx context.Context) error

	// OnSuccess, when set, reconciles the cache with the server
	// response after a successful Call, before invalidation. Leaving it
	// nil keeps the speculative value until the refetch replaces it.
	OnSuccess func(store *cache.Store)

	// Invalidates lists the key prefixes to invalidate at settle.
	// Empty means Keys. Mutations over an item should list both the
	// item key and its parent collection here.
	Invalidates []querykey.Key
}

// Runner executes mutations against one store.
type Runner struct {
	store   *cache.Store
	metrics *runnerMetrics
}

func NewRunner(store *cache.Store) *Runner {
	return &Runner{store: store, metrics: newRunnerMetrics()}
}

// Run executes m: snapshot and speculative write, remote call, then
// settle. On failure the snapshot is restored verbatim and the error
// returned unchanged so callers can inspect it. The invalidation at
// settle happens on both paths.
func (r *Runner) Run(ctx context.Context, m Mutation) error {
	if m.Call == nil {
		return fmt.Errorf("optimistic: mutation %q has no remote call", m.Name)
	}

	start := time.Now()
	snap := r.store.Mutate(m.Keys, m.Apply)
	r.metrics.applied(ctx, m.Name)
	debug.Logf("optimistic: %s: speculated over %d keys\n", m.Name, len(m.Keys))

	err := m.Call(ctx)
	if err != nil {
		r.store.Restore(snap)
		r.metrics.settled(ctx, m.Name, false, time.Since(start))
		debug.Logf("optimistic: %s: rolled back: %v\n", m.Name, err)
		r.invalidate(m)
		return err
	}

	if m.OnSuccess != nil {
		m.OnSuccess(r.store)
	}
	r.invalidate(m)
	r.metrics.settled(ctx, m.Name, true, time.Since(start))
	return nil
}

func (r *Runner) invalidate(m Mutation) {
	targets := m.Invalidates
	if len(targets) == 0 {
		targets = m.Keys
	}
	for _, k := range targets {
		r.store.Invalidate(k)
	}
}
