package api

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/windrosehq/windrose-go/internal/types"
)

// NotificationService reads and updates the caller's inbox.
type NotificationService struct {
	client *Client
}

// NotificationListOptions filters a notification listing. The zero
// value lists everything that is neither archived nor snoozed.
type NotificationListOptions struct {
	Bucket types.NotificationBucket
}

func (o NotificationListOptions) values() url.Values {
	q := url.Values{}
	switch o.Bucket {
	case types.BucketUnread:
		q.Set("read", "false")
	case types.BucketRead:
		q.Set("read", "true")
	case types.BucketArchived:
		q.Set("archived", "true")
	case types.BucketSnoozed:
		q.Set("snoozed", "true")
	}
	return q
}

func (s *NotificationService) List(ctx context.Context, workspace string, opts NotificationListOptions) ([]types.Notification, error) {
	var out []types.Notification
	err := s.client.get(ctx, fmt.Sprintf("/api/workspaces/%s/users/notifications", workspace), opts.values(), &out)
	return out, err
}

func (s *NotificationService) UnreadCount(ctx context.Context, workspace string) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	err := s.client.get(ctx, fmt.Sprintf("/api/workspaces/%s/users/notifications/unread-count", workspace), nil, &out)
	return out.Count, err
}

// MarkRead and its inverse flip the read flag. The server returns no
// body for these; callers refetch the listing to observe the change.
func (s *NotificationService) MarkRead(ctx context.Context, workspace, id string) error {
	return s.client.post(ctx, fmt.Sprintf("/api/workspaces/%s/users/notifications/%s/read", workspace, id), nil, nil)
}

func (s *NotificationService) MarkUnread(ctx context.Context, workspace, id string) error {
	return s.client.delete(ctx, fmt.Sprintf("/api/workspaces/%s/users/notifications/%s/read", workspace, id))
}

func (s *NotificationService) Archive(ctx context.Context, workspace, id string) error {
	return s.client.post(ctx, fmt.Sprintf("/api/workspaces/%s/users/notifications/%s/archive", workspace, id), nil, nil)
}

func (s *NotificationService) Unarchive(ctx context.Context, workspace, id string) error {
	return s.client.delete(ctx, fmt.Sprintf("/api/workspaces/%s/users/notifications/%s/archive", workspace, id))
}

// Snooze hides the notification until the given time.
func (s *NotificationService) Snooze(ctx context.Context, workspace, id string, till time.Time) (*types.Notification, error) {
	body := struct {
		SnoozedTill time.Time `json:"snoozed_till"`
	}{SnoozedTill: till}
	var out types.Notification
	err := s.client.patch(ctx, fmt.Sprintf("/api/workspaces/%s/users/notifications/%s", workspace, id), body, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *NotificationService) Unsnooze(ctx context.Context, workspace, id string) (*types.Notification, error) {
	body := struct {
		SnoozedTill *time.Time `json:"snoozed_till"`
	}{SnoozedTill: nil}
	var out types.Notification
	err := s.client.patch(ctx, fmt.Sprintf("/api/workspaces/%s/users/notifications/%s", workspace, id), body, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
