package client

import (
	"context"
	"encoding/json"
	"net/http"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/windrosehq/windrose-go/internal/querykey"
	"github.com/windrosehq/windrose-go/internal/types"
)

// sprintServer keeps active and archived sprints in memory and moves
// records between them on archive/restore.
type sprintServer struct {
	mu       sync.Mutex
	active   []types.Sprint
	archived []types.Sprint
}

func (s *sprintServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/archived-sprints"):
		json.NewEncoder(w).Encode(append([]types.Sprint(nil), s.archived...))
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/sprints"):
		json.NewEncoder(w).Encode(append([]types.Sprint(nil), s.active...))
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/archive"):
		id := path.Base(strings.TrimSuffix(r.URL.Path, "/archive"))
		for i, sp := range s.active {
			if sp.ID == id {
				now := time.Now().UTC()
				sp.ArchivedAt = &now
				s.active = append(s.active[:i], s.active[i+1:]...)
				s.archived = append(s.archived, sp)
				json.NewEncoder(w).Encode(sp)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/restore"):
		id := path.Base(strings.TrimSuffix(r.URL.Path, "/restore"))
		for i, sp := range s.archived {
			if sp.ID == id {
				sp.ArchivedAt = nil
				s.archived = append(s.archived[:i], s.archived[i+1:]...)
				s.active = append(s.active, sp)
				json.NewEncoder(w).Encode(sp)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestArchiveMovesSprintBetweenCachedLists(t *testing.T) {
	srv := &sprintServer{active: []types.Sprint{
		{ID: "sp-1", Name: "Iteration 12", ProjectID: "p1"},
		{ID: "sp-2", Name: "Iteration 13", ProjectID: "p1"},
	}}
	c := newTestClient(t, srv)
	ctx := context.Background()

	if _, err := c.Sprints.List(ctx, "acme", "p1"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Sprints.ListArchived(ctx, "acme", "p1"); err != nil {
		t.Fatal(err)
	}

	if err := c.Sprints.Archive(ctx, "acme", "p1", "sp-1"); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	// Both cached lists reflect the move without waiting for a refetch.
	e, _ := c.Store().Get(querykey.Sprints("acme", "p1"))
	active := e.Value.([]types.Sprint)
	if len(active) != 1 || active[0].ID != "sp-2" {
		t.Errorf("cached active = %+v, want only sp-2", active)
	}
	e, _ = c.Store().Get(querykey.SprintsArchived("acme", "p1"))
	archived := e.Value.([]types.Sprint)
	if len(archived) != 1 || archived[0].ID != "sp-1" {
		t.Fatalf("cached archived = %+v, want only sp-1", archived)
	}
	if archived[0].ArchivedAt == nil {
		t.Error("archived sprint missing archived_at stamp")
	}

	// The refetch after settle agrees with the server.
	fresh, err := c.Sprints.ListArchived(ctx, "acme", "p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(fresh) != 1 || fresh[0].ID != "sp-1" {
		t.Errorf("refetched archived = %+v, want only sp-1", fresh)
	}
}

func TestRestoreMovesSprintBack(t *testing.T) {
	at := time.Now().UTC()
	srv := &sprintServer{
		active:   []types.Sprint{{ID: "sp-2", Name: "Iteration 13", ProjectID: "p1"}},
		archived: []types.Sprint{{ID: "sp-1", Name: "Iteration 12", ProjectID: "p1", ArchivedAt: &at}},
	}
	c := newTestClient(t, srv)
	ctx := context.Background()

	if _, err := c.Sprints.List(ctx, "acme", "p1"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Sprints.ListArchived(ctx, "acme", "p1"); err != nil {
		t.Fatal(err)
	}

	if err := c.Sprints.Restore(ctx, "acme", "p1", "sp-1"); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	e, _ := c.Store().Get(querykey.SprintsArchived("acme", "p1"))
	if archived := e.Value.([]types.Sprint); len(archived) != 0 {
		t.Errorf("cached archived = %+v, want empty", archived)
	}
	e, _ = c.Store().Get(querykey.Sprints("acme", "p1"))
	active := e.Value.([]types.Sprint)
	if len(active) != 2 {
		t.Fatalf("cached active = %d sprints, want 2", len(active))
	}
	for _, sp := range active {
		if sp.ID == "sp-1" && sp.ArchivedAt != nil {
			t.Error("restored sprint still carries archived_at")
		}
	}
}
