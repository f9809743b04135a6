package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/windrosehq/windrose-go/internal/api"
	"github.com/windrosehq/windrose-go/internal/types"
	"github.com/windrosehq/windrose-go/internal/ui"
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notification", "inbox"},
	GroupID: "views",
	Short:   "Work with your notification inbox",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List inbox notifications",
	Run: func(cmd *cobra.Command, args []string) {
		bucketStr, _ := cmd.Flags().GetString("bucket")

		bucket := types.NotificationBucket(bucketStr)
		if !bucket.IsValid() {
			FatalError("invalid bucket %q (unread, read, archived, snoozed)", bucketStr)
		}

		ctx := rootCtx
		ws := requireWorkspace()

		notifications, err := cl.Notifications.List(ctx, ws, api.NotificationListOptions{Bucket: bucket})
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(notifications)
			return
		}
		if len(notifications) == 0 {
			fmt.Printf("No %s notifications.\n", bucket)
			return
		}

		var buf strings.Builder
		now := time.Now()
		for i := range notifications {
			formatNotificationLine(&buf, &notifications[i], now)
		}
		fmt.Print(buf.String())

		if bucket == types.BucketUnread {
			count, err := cl.Notifications.UnreadCount(ctx, ws)
			if err == nil && count > len(notifications) {
				fmt.Println(ui.RenderMuted(fmt.Sprintf("\n%d unread in total", count)))
			}
		}
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read [id...]",
	Short: "Mark notifications as read",
	Run: func(cmd *cobra.Command, args []string) {
		all, _ := cmd.Flags().GetBool("all")

		ctx := rootCtx
		ws := requireWorkspace()

		if all {
			notifications, err := cl.Notifications.List(ctx, ws, api.NotificationListOptions{Bucket: types.BucketUnread})
			if err != nil {
				FatalError("%v", err)
			}
			for i := range notifications {
				args = append(args, notifications[i].ID)
			}
			if len(args) == 0 {
				fmt.Println("Inbox is already clear.")
				return
			}
		}
		if len(args) == 0 {
			FatalErrorWithHint("no notifications given", "Pass notification IDs or --all")
		}

		for _, id := range args {
			if err := cl.Notifications.MarkRead(ctx, ws, id); err != nil {
				FatalError("marking %s read: %v", id, err)
			}
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Marked %d notification(s) read\n", green("✓"), len(args))
	},
}

var notificationsUnreadCmd = &cobra.Command{
	Use:   "unread <id>...",
	Short: "Mark notifications as unread",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		ws := requireWorkspace()

		for _, id := range args {
			if err := cl.Notifications.MarkUnread(ctx, ws, id); err != nil {
				FatalError("marking %s unread: %v", id, err)
			}
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Marked %d notification(s) unread\n", green("✓"), len(args))
	},
}

var notificationsArchiveCmd = &cobra.Command{
	Use:   "archive <id>...",
	Short: "Archive notifications",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		ws := requireWorkspace()

		for _, id := range args {
			if err := cl.Notifications.Archive(ctx, ws, id); err != nil {
				FatalError("archiving %s: %v", id, err)
			}
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Archived %d notification(s)\n", green("✓"), len(args))
	},
}

var notificationsSnoozeCmd = &cobra.Command{
	Use:   "snooze <id>...",
	Short: "Snooze notifications until later",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		forStr, _ := cmd.Flags().GetString("for")

		d, err := time.ParseDuration(forStr)
		if err != nil || d <= 0 {
			FatalError("invalid --for duration %q (e.g. 2h, 24h)", forStr)
		}
		till := time.Now().Add(d)

		ctx := rootCtx
		ws := requireWorkspace()

		for _, id := range args {
			if err := cl.Notifications.Snooze(ctx, ws, id, till); err != nil {
				FatalError("snoozing %s: %v", id, err)
			}
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Snoozed %d notification(s) until %s\n", green("✓"), len(args), till.Format("Jan 02 15:04"))
	},
}

func init() {
	notificationsListCmd.Flags().StringP("bucket", "b", "unread", "Bucket: unread, read, archived, snoozed")
	notificationsReadCmd.Flags().Bool("all", false, "Mark every unread notification read")
	notificationsSnoozeCmd.Flags().String("for", "24h", "Snooze duration (Go duration, e.g. 2h, 24h)")

	notificationsCmd.AddCommand(notificationsListCmd)
	notificationsCmd.AddCommand(notificationsReadCmd)
	notificationsCmd.AddCommand(notificationsUnreadCmd)
	notificationsCmd.AddCommand(notificationsArchiveCmd)
	notificationsCmd.AddCommand(notificationsSnoozeCmd)
	rootCmd.AddCommand(notificationsCmd)
}

// formatNotificationLine renders one inbox entry: unread entries get a
// bullet, snoozed entries show when they come back.
func formatNotificationLine(buf *strings.Builder, n *types.Notification, now time.Time) {
	marker := "  "
	if !n.IsRead() {
		marker = ui.RenderAccent("● ")
	}
	line := fmt.Sprintf("%s%s", marker, n.Title)
	if n.EntityName != "" {
		line += " " + ui.RenderMuted(n.EntityName)
	}
	if n.IsSnoozed(now) && n.SnoozedTill != nil {
		line += " " + ui.RenderWarn(fmt.Sprintf("(snoozed until %s)", n.SnoozedTill.Format("Jan 02 15:04")))
	}
	line += " " + ui.RenderMuted("("+formatAge(n.CreatedAt)+")")
	buf.WriteString(line + "\n")
	buf.WriteString(ui.RenderMuted("    id: "+n.ID) + "\n")
}
