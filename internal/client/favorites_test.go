package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/windrosehq/windrose-go/internal/querykey"
	"github.com/windrosehq/windrose-go/internal/types"
	"github.com/windrosehq/windrose-go/internal/views"
)

// favoriteServer serves a fixed favorites collection and records raw
// PATCH bodies so tests can check the exact wire payload.
type favoriteServer struct {
	mu      sync.Mutex
	favs    []types.Favorite
	patches map[string]string
}

func (s *favoriteServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch r.Method {
	case http.MethodGet:
		snapshot := make([]types.Favorite, len(s.favs))
		copy(snapshot, s.favs)
		json.NewEncoder(w).Encode(snapshot)
	case http.MethodPatch:
		body, _ := io.ReadAll(r.Body)
		if s.patches == nil {
			s.patches = make(map[string]string)
		}
		id := path.Base(r.URL.Path)
		s.patches[id] = string(body)
		for _, f := range s.favs {
			if f.ID == id {
				json.NewEncoder(w).Encode(f)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestFavoriteTreeNestsUnderFolders(t *testing.T) {
	folder := "fav-folder"
	srv := &favoriteServer{favs: []types.Favorite{
		{ID: "fav-folder", WorkspaceID: "ws-1", Kind: types.FavoriteFolder, Name: "Roadmaps", SortOrder: 10000},
		{ID: "fav-q3", WorkspaceID: "ws-1", Kind: types.FavoritePage, Name: "Q3 plan", ParentID: &folder, SortOrder: 20000},
		{ID: "fav-q2", WorkspaceID: "ws-1", Kind: types.FavoritePage, Name: "Q2 retro", ParentID: &folder, SortOrder: 10000},
		{ID: "fav-web", WorkspaceID: "ws-1", Kind: types.FavoriteProject, Name: "Web", SortOrder: 20000},
	}}
	c := newTestClient(t, srv)

	tree, err := c.Favorites.Tree(context.Background(), "acme")
	assert.NoError(t, err)
	assert.Len(t, tree, 2)

	assert.Equal(t, "Roadmaps", tree[0].Item.Name)
	assert.Len(t, tree[0].Children, 2)
	// Children follow sort order, not input order.
	assert.Equal(t, "Q2 retro", tree[0].Children[0].Item.Name)
	assert.Equal(t, "Q3 plan", tree[0].Children[1].Item.Name)

	assert.Equal(t, "Web", tree[1].Item.Name)
	assert.Empty(t, tree[1].Children)
}

func TestFavoriteMoveToRootWritesNullParent(t *testing.T) {
	folder := "fav-folder"
	srv := &favoriteServer{favs: []types.Favorite{
		{ID: "fav-folder", Kind: types.FavoriteFolder, Name: "Roadmaps", SortOrder: 10000},
		{ID: "fav-q3", Kind: types.FavoritePage, Name: "Q3 plan", ParentID: &folder, SortOrder: 20000},
		{ID: "fav-web", Kind: types.FavoriteProject, Name: "Web", SortOrder: 20000},
	}}
	c := newTestClient(t, srv)
	ctx := context.Background()

	// Pull the page out of its folder, below the last root entry.
	err := c.Favorites.Move(ctx, "acme", "fav-q3", nil, 1, views.EdgeBelow)
	assert.NoError(t, err)

	// The wire carries an explicit null; omitting parent_id would keep
	// the favorite in its folder.
	body := srv.patches["fav-q3"]
	assert.Contains(t, body, `"parent_id":null`)
	assert.Contains(t, body, `"sort_order":30000`)

	e, ok := c.Store().Get(querykey.Favorites("acme"))
	if !ok {
		t.Fatal("favorites missing from cache after move")
	}
	for _, f := range e.Value.([]types.Favorite) {
		if f.ID == "fav-q3" {
			assert.Nil(t, f.ParentID)
			assert.Equal(t, float64(30000), f.SortOrder)
		}
	}
}

func TestFavoriteAddRequiresName(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))
	_, err := c.Favorites.Add(context.Background(), "acme", types.Favorite{Kind: types.FavoriteProject})
	assert.ErrorContains(t, err, "name is required")
}
