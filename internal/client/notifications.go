package client

import (
	"context"
	"time"

	"github.com/windrosehq/windrose-go/internal/api"
	"github.com/windrosehq/windrose-go/internal/cache"
	"github.com/windrosehq/windrose-go/internal/optimistic"
	"github.com/windrosehq/windrose-go/internal/querykey"
	"github.com/windrosehq/windrose-go/internal/types"
)

// unreadCountStale keeps the inbox badge fresher than regular queries.
const unreadCountStale = 30 * time.Second

// NotificationClient reads and mutates the caller's inbox. Filtered
// listings cache under one key per filter; inbox mutations stamp every
// cached variant plus the unread counter in a single speculative write,
// whichever of them happen to be cached right now.
type NotificationClient struct {
	c *Client
}

func notifFilter(opts api.NotificationListOptions) querykey.Filter {
	f := querykey.Filter{}
	if opts.Bucket != "" {
		f["bucket"] = string(opts.Bucket)
	}
	return f
}

func (nc *NotificationClient) List(ctx context.Context, workspace string, opts api.NotificationListOptions) ([]types.Notification, error) {
	if !scoped(workspace) {
		return nil, nil
	}
	key := querykey.Notifications(workspace, notifFilter(opts))
	return fetchAs(ctx, nc.c, key, cache.FetchOptions{}, func(ctx context.Context) ([]types.Notification, error) {
		return nc.c.api.Notifications.List(ctx, workspace, opts)
	})
}

func (nc *NotificationClient) UnreadCount(ctx context.Context, workspace string) (int, error) {
	if !scoped(workspace) {
		return 0, nil
	}
	key := querykey.NotificationUnreadCount(workspace)
	return fetchAs(ctx, nc.c, key, cache.FetchOptions{StaleTime: unreadCountStale}, func(ctx context.Context) (int, error) {
		return nc.c.api.Notifications.UnreadCount(ctx, workspace)
	})
}

// MarkRead stamps read_at on every cached copy and decrements the
// cached unread count when the notification was in fact unread.
func (nc *NotificationClient) MarkRead(ctx context.Context, workspace, id string) error {
	if !scoped(workspace, id) {
		return scopeErr("notification.mark-read")
	}
	now := time.Now().UTC()
	return nc.mutate(ctx, workspace, "notification.mark-read",
		func(n types.Notification) (types.Notification, int) {
			delta := 0
			if !n.IsRead() {
				delta = -1
			}
			n.ReadAt = &now
			return n, delta
		},
		func(ctx context.Context) error {
			return nc.c.api.Notifications.MarkRead(ctx, workspace, id)
		}, id)
}

// MarkUnread clears read_at and bumps the unread count back up.
func (nc *NotificationClient) MarkUnread(ctx context.Context, workspace, id string) error {
	if !scoped(workspace, id) {
		return scopeErr("notification.mark-unread")
	}
	return nc.mutate(ctx, workspace, "notification.mark-unread",
		func(n types.Notification) (types.Notification, int) {
			delta := 0
			if n.IsRead() {
				delta = 1
			}
			n.ReadAt = nil
			return n, delta
		},
		func(ctx context.Context) error {
			return nc.c.api.Notifications.MarkUnread(ctx, workspace, id)
		}, id)
}

// Archive moves the notification into the archived bucket. An unread
// notification leaves the badge count when archived.
func (nc *NotificationClient) Archive(ctx context.Context, workspace, id string) error {
	if !scoped(workspace, id) {
		return scopeErr("notification.archive")
	}
	now := time.Now().UTC()
	return nc.mutate(ctx, workspace, "notification.archive",
		func(n types.Notification) (types.Notification, int) {
			delta := 0
			if !n.IsRead() && n.ArchivedAt == nil {
				delta = -1
			}
			n.ArchivedAt = &now
			return n, delta
		},
		func(ctx context.Context) error {
			return nc.c.api.Notifications.Archive(ctx, workspace, id)
		}, id)
}

func (nc *NotificationClient) Unarchive(ctx context.Context, workspace, id string) error {
	if !scoped(workspace, id) {
		return scopeErr("notification.unarchive")
	}
	return nc.mutate(ctx, workspace, "notification.unarchive",
		func(n types.Notification) (types.Notification, int) {
			delta := 0
			if !n.IsRead() && n.ArchivedAt != nil {
				delta = 1
			}
			n.ArchivedAt = nil
			return n, delta
		},
		func(ctx context.Context) error {
			return nc.c.api.Notifications.Unarchive(ctx, workspace, id)
		}, id)
}

// Snooze hides the notification until till.
func (nc *NotificationClient) Snooze(ctx context.Context, workspace, id string, till time.Time) error {
	if !scoped(workspace, id) {
		return scopeErr("notification.snooze")
	}
	return nc.mutate(ctx, workspace, "notification.snooze",
		func(n types.Notification) (types.Notification, int) {
			n.SnoozedTill = &till
			return n, 0
		},
		func(ctx context.Context) error {
			_, err := nc.c.api.Notifications.Snooze(ctx, workspace, id, till)
			return err
		}, id)
}

func (nc *NotificationClient) Unsnooze(ctx context.Context, workspace, id string) error {
	if !scoped(workspace, id) {
		return scopeErr("notification.unsnooze")
	}
	return nc.mutate(ctx, workspace, "notification.unsnooze",
		func(n types.Notification) (types.Notification, int) {
			n.SnoozedTill = nil
			return n, 0
		},
		func(ctx context.Context) error {
			_, err := nc.c.api.Notifications.Unsnooze(ctx, workspace, id)
			return err
		}, id)
}

// mutate runs one inbox mutation: stamp rewrites the notification and
// reports the unread-count delta, applied to whichever filtered lists
// and counter are cached. The whole notification prefix invalidates at
// settle, so every variant refetches lazily.
func (nc *NotificationClient) mutate(ctx context.Context, workspace, name string, stamp func(types.Notification) (types.Notification, int), call func(ctx context.Context) error, id string) error {
	prefix := querykey.New("notifications", workspace)
	countKey := querykey.NotificationUnreadCount(workspace)
	keys := nc.c.store.KeysUnder(prefix)

	return nc.c.runner.Run(ctx, optimistic.Mutation{
		Name: name,
		Keys: keys,
		Apply: func(tx *cache.Tx) {
			delta := 0
			seen := false
			for _, k := range keys {
				if k.Equal(countKey) {
					continue
				}
				tx.Update(k, func(v any) any {
					ns, ok := v.([]types.Notification)
					if !ok {
						return v
					}
					out := make([]types.Notification, len(ns))
					copy(out, ns)
					for i := range out {
						if out[i].ID != id {
							continue
						}
						stamped, d := stamp(out[i])
						if !seen {
							seen = true
							delta = d
						}
						out[i] = stamped
					}
					return out
				})
			}
			if delta != 0 {
				tx.Update(countKey, func(v any) any {
					n, ok := v.(int)
					if !ok {
						return v
					}
					if n += delta; n > 0 {
						return n
					}
					return 0
				})
			}
		},
		Call:        call,
		Invalidates: []querykey.Key{prefix},
	})
}
