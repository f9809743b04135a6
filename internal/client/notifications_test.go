package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/windrosehq/windrose-go/internal/api"
	"github.com/windrosehq/windrose-go/internal/querykey"
	"github.com/windrosehq/windrose-go/internal/types"
)

func notifHandler(t *testing.T, notifications []types.Notification, count int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/unread-count"):
			json.NewEncoder(w).Encode(map[string]int{"count": count})
		case r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(notifications)
		case r.Method == http.MethodPost, r.Method == http.MethodDelete, r.Method == http.MethodPatch:
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func TestMarkReadStampsListAndDecrementsBadge(t *testing.T) {
	notifications := []types.Notification{
		{ID: "n1", Title: "Issue assigned"},
		{ID: "n2", Title: "Page shared"},
	}
	c := newTestClient(t, notifHandler(t, notifications, 2))
	ctx := context.Background()

	if _, err := c.Notifications.List(ctx, "acme", api.NotificationListOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Notifications.UnreadCount(ctx, "acme"); err != nil {
		t.Fatal(err)
	}

	if err := c.Notifications.MarkRead(ctx, "acme", "n1"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}

	e, ok := c.Store().Get(querykey.NotificationUnreadCount("acme"))
	if !ok {
		t.Fatal("unread count missing from cache")
	}
	if got := e.Value.(int); got != 1 {
		t.Errorf("cached unread count = %d, want 1", got)
	}

	e, _ = c.Store().Get(querykey.Notifications("acme", querykey.Filter{}))
	for _, n := range e.Value.([]types.Notification) {
		switch n.ID {
		case "n1":
			if n.ReadAt == nil {
				t.Error("n1 not stamped read")
			}
		case "n2":
			if n.ReadAt != nil {
				t.Error("n2 unexpectedly stamped read")
			}
		}
	}
}

func TestMarkReadOnReadNotificationKeepsBadge(t *testing.T) {
	at := time.Now().UTC()
	notifications := []types.Notification{
		{ID: "n1", Title: "Issue assigned", ReadAt: &at},
		{ID: "n2", Title: "Page shared"},
	}
	c := newTestClient(t, notifHandler(t, notifications, 1))
	ctx := context.Background()

	if _, err := c.Notifications.List(ctx, "acme", api.NotificationListOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Notifications.UnreadCount(ctx, "acme"); err != nil {
		t.Fatal(err)
	}

	if err := c.Notifications.MarkRead(ctx, "acme", "n1"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}

	e, _ := c.Store().Get(querykey.NotificationUnreadCount("acme"))
	if got := e.Value.(int); got != 1 {
		t.Errorf("cached unread count = %d, want 1 (already-read mark must not move it)", got)
	}
}

func TestArchiveUnreadLowersBadge(t *testing.T) {
	notifications := []types.Notification{{ID: "n1", Title: "Issue assigned"}}
	c := newTestClient(t, notifHandler(t, notifications, 1))
	ctx := context.Background()

	if _, err := c.Notifications.List(ctx, "acme", api.NotificationListOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Notifications.UnreadCount(ctx, "acme"); err != nil {
		t.Fatal(err)
	}

	if err := c.Notifications.Archive(ctx, "acme", "n1"); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	e, _ := c.Store().Get(querykey.NotificationUnreadCount("acme"))
	if got := e.Value.(int); got != 0 {
		t.Errorf("cached unread count = %d, want 0", got)
	}
	e, _ = c.Store().Get(querykey.Notifications("acme", querykey.Filter{}))
	if n := e.Value.([]types.Notification)[0]; n.ArchivedAt == nil {
		t.Error("n1 not stamped archived")
	}
}

func TestSnoozeStampsWithoutBadgeChange(t *testing.T) {
	notifications := []types.Notification{{ID: "n1", Title: "Issue assigned"}}
	c := newTestClient(t, notifHandler(t, notifications, 1))
	ctx := context.Background()

	if _, err := c.Notifications.List(ctx, "acme", api.NotificationListOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Notifications.UnreadCount(ctx, "acme"); err != nil {
		t.Fatal(err)
	}

	till := time.Now().Add(4 * time.Hour).UTC()
	if err := c.Notifications.Snooze(ctx, "acme", "n1", till); err != nil {
		t.Fatalf("Snooze: %v", err)
	}

	e, _ := c.Store().Get(querykey.Notifications("acme", querykey.Filter{}))
	n := e.Value.([]types.Notification)[0]
	if n.SnoozedTill == nil || !n.SnoozedTill.Equal(till) {
		t.Errorf("snoozed_till = %v, want %v", n.SnoozedTill, till)
	}
	e, _ = c.Store().Get(querykey.NotificationUnreadCount("acme"))
	if got := e.Value.(int); got != 1 {
		t.Errorf("cached unread count = %d, want 1", got)
	}
}
