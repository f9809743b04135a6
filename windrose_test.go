package windrose_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/windrosehq/windrose-go"
)

func TestNew(t *testing.T) {
	wr, err := windrose.New("https://api.windrose.test", "wr_test_token")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer wr.Close()

	if wr.Issues == nil || wr.Sprints == nil || wr.Notifications == nil {
		t.Error("expected sub-clients to be wired")
	}
}

func TestNewRejectsRelativeURL(t *testing.T) {
	if _, err := windrose.New("api.windrose.test", "token"); err == nil {
		t.Fatal("expected error for base URL without scheme")
	}
	if _, err := windrose.New("", "token"); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}

func TestClientAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/me/workspaces" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"ws-1","slug":"acme","name":"Acme"}]`))
	}))
	defer srv.Close()

	wr, err := windrose.New(srv.URL, "token")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer wr.Close()

	workspaces, err := wr.Workspaces.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(workspaces) != 1 || workspaces[0].Slug != "acme" {
		t.Errorf("got %+v, want one workspace with slug acme", workspaces)
	}
}

func TestNewFromConfig_NoAPIKey(t *testing.T) {
	// An empty directory has no config.yaml and the test env carries no
	// WR_API_KEY, so construction must fail with the setup hint.
	tmpDir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(cwd) }()
	t.Setenv("WR_API_KEY", "")

	if _, err := windrose.NewFromConfig(); err == nil {
		t.Fatal("expected error without an api key")
	}
}

func TestNewFromConfig_ReadsYaml(t *testing.T) {
	tmpDir := t.TempDir()
	wrDir := filepath.Join(tmpDir, ".windrose")
	if err := os.MkdirAll(wrDir, 0755); err != nil {
		t.Fatal(err)
	}
	yaml := "base-url: \"https://api.windrose.test\"\napi-key: \"wr_test_token\"\nworkspace: \"acme\"\n"
	if err := os.WriteFile(filepath.Join(wrDir, "config.yaml"), []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(cwd) }()

	wr, err := windrose.NewFromConfig()
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	wr.Close()
}

// Test that exported constants keep their wire values.
func TestConstants(t *testing.T) {
	if windrose.PriorityUrgent != "urgent" {
		t.Errorf("PriorityUrgent = %q, want %q", windrose.PriorityUrgent, "urgent")
	}
	if windrose.PriorityNone != "none" {
		t.Errorf("PriorityNone = %q, want %q", windrose.PriorityNone, "none")
	}

	if windrose.GroupBacklog != "backlog" {
		t.Errorf("GroupBacklog = %q, want %q", windrose.GroupBacklog, "backlog")
	}
	if windrose.GroupCancelled != "cancelled" {
		t.Errorf("GroupCancelled = %q, want %q", windrose.GroupCancelled, "cancelled")
	}

	if windrose.BucketUnread != "unread" {
		t.Errorf("BucketUnread = %q, want %q", windrose.BucketUnread, "unread")
	}
	if windrose.BucketSnoozed != "snoozed" {
		t.Errorf("BucketSnoozed = %q, want %q", windrose.BucketSnoozed, "snoozed")
	}

	// The server calls sprints "cycles" on a few wire enums; the SDK
	// keeps the wire value behind the Sprint name.
	if windrose.FavoriteSprint != "cycle" {
		t.Errorf("FavoriteSprint = %q, want %q", windrose.FavoriteSprint, "cycle")
	}
}
