package views

import (
	"time"

	"github.com/windrosehq/windrose-go/internal/types"
)

// GroupBy partitions items into a map keyed by the discriminant.
// Input order is preserved within each group.
func GroupBy[T any, K comparable](items []T, key func(T) K) map[K][]T {
	out := make(map[K][]T)
	for _, it := range items {
		k := key(it)
		out[k] = append(out[k], it)
	}
	return out
}

// GroupStates partitions workflow states by their lifecycle group.
func GroupStates(states []types.State) map[types.StateGroup][]types.State {
	return GroupBy(states, func(s types.State) types.StateGroup { return s.Group })
}

// GroupIssuesByState partitions issues by state id for board columns.
func GroupIssuesByState(issues []types.Issue) map[string][]types.Issue {
	return GroupBy(issues, func(i types.Issue) string { return i.StateID })
}

// GroupIssuesByPriority partitions issues by priority lane.
func GroupIssuesByPriority(issues []types.Issue) map[types.Priority][]types.Issue {
	return GroupBy(issues, func(i types.Issue) types.Priority { return i.Priority })
}

// BucketNotifications splits inbox entries into their tab buckets.
// Archived wins over snoozed, snoozed over read: a snoozed notification
// stays out of the unread and read tabs until its snooze expires.
func BucketNotifications(ns []types.Notification, now time.Time) map[types.NotificationBucket][]types.Notification {
	return GroupBy(ns, func(n types.Notification) types.NotificationBucket {
		switch {
		case n.ArchivedAt != nil:
			return types.BucketArchived
		case n.IsSnoozed(now):
			return types.BucketSnoozed
		case n.IsRead():
			return types.BucketRead
		default:
			return types.BucketUnread
		}
	})
}
