package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/windrosehq/windrose-go/internal/querykey"
	"github.com/windrosehq/windrose-go/internal/types"
)

func TestStickyDeleteRollsBackOnError(t *testing.T) {
	var deleted bool
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, []types.Sticky{
				{ID: "stk-1", Name: "Standup notes"},
				{ID: "stk-2", Name: "Release checklist"},
			})
		case http.MethodDelete:
			deleted = true
			w.WriteHeader(http.StatusForbidden)
			writeJSON(t, w, map[string]string{"code": "forbidden", "message": "read-only token"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	ctx := context.Background()

	if _, err := c.Stickies.List(ctx, "acme"); err != nil {
		t.Fatal(err)
	}

	if err := c.Stickies.Delete(ctx, "acme", "stk-2"); err == nil {
		t.Fatal("expected delete to fail")
	}
	if !deleted {
		t.Error("server never saw the DELETE")
	}

	// The optimistically removed sticky is back.
	e, ok := c.Store().Get(querykey.Stickies("acme"))
	if !ok {
		t.Fatal("sticky list missing after rollback")
	}
	stickies := e.Value.([]types.Sticky)
	if len(stickies) != 2 || stickies[1].ID != "stk-2" {
		t.Errorf("list after rollback = %+v, want both stickies", stickies)
	}
}

func TestStickyUpdateZeroPatchSkipsServer(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))
	if err := c.Stickies.Update(context.Background(), "acme", "stk-1", types.StickyPatch{}); err != nil {
		t.Errorf("zero patch = %v, want nil", err)
	}
}
