package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/windrosehq/windrose-go/internal/cache"
	"github.com/windrosehq/windrose-go/internal/config"
	"github.com/windrosehq/windrose-go/internal/debug"
	"github.com/windrosehq/windrose-go/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	GroupID: "views",
	Short:   "Stream live changes to the cached workspace data",
	Long: `Watch the workspace for changes.

Warms the cache for the selected workspace and project, then refetches
on an interval and prints every cache change as it lands: background
refreshes, optimistic writes, and rollbacks.

Edits to .windrose/config.yaml are picked up without restarting.`,
	Run: func(cmd *cobra.Command, args []string) {
		interval, _ := cmd.Flags().GetDuration("interval")
		if interval < time.Second {
			FatalError("--interval must be at least 1s")
		}

		ctx := rootCtx
		ws := requireWorkspace()

		projID := ""
		if settings.Project != "" {
			proj, err := resolveProject(ctx, ws, settings.Project)
			if err != nil {
				FatalError("%v", err)
			}
			projID = proj.ID
		}

		// Subscribe before the warm-up so the initial loads print too.
		cancel := cl.Subscribe(nil, printCacheEvent)
		defer cancel()

		if err := cl.Prefetch(ctx, ws, projID); err != nil {
			WarnError("warm-up fetch: %v", err)
		}

		// A missing watcher only loses config hot-reload; nil channels
		// park those select arms forever.
		var fsEvents chan fsnotify.Event
		var fsErrors chan error
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			debug.Logf("fsnotify: %v\n", err)
		} else {
			defer func() { _ = watcher.Close() }()
			if dir := config.FindDir(); dir != "" {
				if err := watcher.Add(dir); err != nil {
					debug.Logf("watching %s: %v\n", dir, err)
				} else {
					fsEvents = watcher.Events
					fsErrors = watcher.Errors
				}
			}
		}

		if !debug.IsQuiet() {
			fmt.Fprintf(os.Stderr, "Watching %s... (refetch every %s, Ctrl+C to exit)\n", ws, interval)
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var debounceTimer *time.Timer
		debounceDelay := 500 * time.Millisecond

		for {
			select {
			case <-ctx.Done():
				if !debug.IsQuiet() {
					fmt.Fprintln(os.Stderr, "\nStopped watching.")
				}
				return
			case <-ticker.C:
				cl.Store().Invalidate(nil)
			case event, ok := <-fsEvents:
				if !ok {
					fsEvents = nil
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if filepath.Base(event.Name) != config.ConfigFileName {
					continue
				}
				// Editors fire bursts of writes; reload once per burst.
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDelay, func() {
					if err := config.Initialize(); err != nil {
						fmt.Fprintf(os.Stderr, "Warning: reloading config: %v\n", err)
						return
					}
					loadSettings()
					fmt.Fprintln(os.Stderr, ui.RenderMuted("config.yaml changed, settings reloaded"))
				})
			case err, ok := <-fsErrors:
				if !ok {
					fsErrors = nil
					continue
				}
				fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
			}
		}
	},
}

func init() {
	watchCmd.Flags().Duration("interval", 30*time.Second, "How often to refetch watched data")
	rootCmd.AddCommand(watchCmd)
}

// printCacheEvent renders one cache change as a timestamped line.
func printCacheEvent(ev cache.Event) {
	kind := fmt.Sprintf("%-12s", string(ev.Kind))
	switch ev.Kind {
	case cache.EventUpdated:
		kind = ui.RenderPass(kind)
	case cache.EventInvalidated:
		kind = ui.RenderWarn(kind)
	case cache.EventRolledBack, cache.EventError:
		kind = ui.RenderFail(kind)
	default:
		kind = ui.RenderMuted(kind)
	}
	fmt.Printf("%s %s %s\n", ui.RenderMuted(time.Now().Format("15:04:05")), kind, ev.Key.String())
}
