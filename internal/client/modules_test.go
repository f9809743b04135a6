package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/windrosehq/windrose-go/internal/querykey"
	"github.com/windrosehq/windrose-go/internal/types"
)

func TestModuleArchiveStampsArchivedAt(t *testing.T) {
	var patched types.ModulePatch
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, []types.Module{
				{ID: "mod-1", Name: "Checkout revamp", Status: types.ModulePlanned},
			})
		case http.MethodPatch:
			if err := json.NewDecoder(r.Body).Decode(&patched); err != nil {
				t.Errorf("decode patch: %v", err)
			}
			writeJSON(t, w, types.Module{ID: "mod-1"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	ctx := context.Background()

	if _, err := c.Modules.List(ctx, "acme", "p1"); err != nil {
		t.Fatal(err)
	}
	if err := c.Modules.Archive(ctx, "acme", "p1", "mod-1"); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	// No dedicated endpoint; archiving is a patch carrying the stamp.
	if patched.ArchivedAt == nil {
		t.Fatal("PATCH body missing archived_at")
	}
	e, ok := c.Store().Get(querykey.Modules("acme", "p1"))
	if !ok {
		t.Fatal("module list missing from cache")
	}
	if got := e.Value.([]types.Module)[0].ArchivedAt; got == nil {
		t.Error("cached module not stamped archived")
	}
}

func TestModuleCreateSeedsDetail(t *testing.T) {
	var detailGets atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			var in types.Module
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				t.Errorf("decode module: %v", err)
			}
			in.ID = "mod-9"
			in.ProjectID = "p1"
			writeJSON(t, w, in)
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/modules"):
			writeJSON(t, w, []types.Module{})
		case r.Method == http.MethodGet:
			detailGets.Add(1)
			writeJSON(t, w, types.Module{ID: "mod-9"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	ctx := context.Background()

	created, err := c.Modules.Create(ctx, "acme", "p1", types.Module{
		Name:   "Checkout revamp",
		Status: types.ModulePlanned,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != "mod-9" {
		t.Errorf("created.ID = %q, want mod-9", created.ID)
	}

	// The create response already seeded the detail entry.
	got, err := c.Modules.Get(ctx, "acme", "p1", "mod-9")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "mod-9" {
		t.Errorf("Get = %+v", got)
	}
	if n := detailGets.Load(); n != 0 {
		t.Errorf("detail GETs = %d, want 0", n)
	}
}
