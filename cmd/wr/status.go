package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/windrosehq/windrose-go/internal/debug"
	"github.com/windrosehq/windrose-go/internal/types"
	"github.com/windrosehq/windrose-go/internal/ui"
)

// statusReport is the snapshot wr status assembles. Fields are filled
// by separate goroutines; errgroup's Wait orders the writes before the
// render reads them.
type statusReport struct {
	Workspace    *types.Workspace         `json:"workspace,omitempty"`
	Project      *types.Project           `json:"project,omitempty"`
	ProjectCount int                      `json:"project_count"`
	IssueTotal   int                      `json:"issue_total"`
	IssueCounts  map[types.StateGroup]int `json:"issue_counts,omitempty"`
	Sprint       *types.Sprint            `json:"current_sprint,omitempty"`
	Unread       int                      `json:"unread_notifications"`
	Instance     *types.InstanceConfig    `json:"instance,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:     "status",
	GroupID: "views",
	Short:   "Show a workspace and project overview",
	Long: `Show the workspace, the selected project's issue counts by board
group, the current sprint, and your unread notification count.

All sections load concurrently from the cache, so a warm run answers
without waiting on the network.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		ws := requireWorkspace()

		var report statusReport

		// Resolve the project up front; its id scopes half the fan-out.
		if settings.Project != "" {
			proj, err := resolveProject(ctx, ws, settings.Project)
			if err != nil {
				FatalError("%v", err)
			}
			report.Project = proj
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(4)

		g.Go(func() error {
			workspaces, err := cl.Workspaces.List(gctx)
			if err != nil {
				return err
			}
			for i := range workspaces {
				if workspaces[i].Slug == ws {
					report.Workspace = &workspaces[i]
					break
				}
			}
			return nil
		})
		g.Go(func() error {
			projects, err := cl.Projects.List(gctx, ws)
			if err != nil {
				return err
			}
			report.ProjectCount = len(projects)
			return nil
		})
		g.Go(func() error {
			count, err := cl.Notifications.UnreadCount(gctx, ws)
			if err != nil {
				return err
			}
			report.Unread = count
			return nil
		})
		g.Go(func() error {
			// Deployment metadata is cosmetic; a self-hosted server
			// without the endpoint should not break status.
			cfg, err := cl.Instance.Config(gctx)
			if err != nil {
				debug.Logf("instance config: %v\n", err)
				return nil
			}
			report.Instance = cfg
			return nil
		})

		if report.Project != nil {
			projID := report.Project.ID
			g.Go(func() error {
				issues, err := cl.Issues.List(gctx, ws, projID)
				if err != nil {
					return err
				}
				states, err := cl.States.List(gctx, ws, projID)
				if err != nil {
					return err
				}
				byID := statesByID(states)
				counts := make(map[types.StateGroup]int)
				for i := range issues {
					if st, ok := byID[issues[i].StateID]; ok {
						counts[st.Group]++
					}
				}
				report.IssueTotal = len(issues)
				report.IssueCounts = counts
				return nil
			})
			g.Go(func() error {
				sprints, err := cl.Sprints.List(gctx, ws, projID)
				if err != nil {
					return err
				}
				now := time.Now()
				for i := range sprints {
					if sprints[i].Lifecycle(now) == types.SprintCurrent {
						report.Sprint = &sprints[i]
						break
					}
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(report)
			return
		}
		fmt.Print(formatStatusReport(ws, &report))
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// formatStatusReport lays out the overview as aligned label/value rows
// followed by the per-group issue counts.
func formatStatusReport(slug string, r *statusReport) string {
	var buf strings.Builder

	wsLine := slug
	if r.Workspace != nil && r.Workspace.Name != "" {
		wsLine = fmt.Sprintf("%s %s", r.Workspace.Name, ui.RenderMuted("("+slug+")"))
	}
	buf.WriteString("Workspace  " + wsLine + "\n")

	if r.Project != nil {
		buf.WriteString(fmt.Sprintf("Project    %s %s\n", r.Project.Name, ui.RenderMuted("("+r.Project.Identifier+")")))
	} else {
		buf.WriteString(fmt.Sprintf("Projects   %d %s\n", r.ProjectCount, ui.RenderMuted("(none selected, pass --project)")))
	}

	server := settings.BaseURL
	if r.Instance != nil && r.Instance.Version != "" {
		server += " " + ui.RenderMuted("(v"+r.Instance.Version+")")
	}
	buf.WriteString("Server     " + server + "\n")

	if r.Sprint != nil {
		line := r.Sprint.Name
		if r.Sprint.StartDate != nil && r.Sprint.EndDate != nil {
			line += " " + ui.RenderMuted(fmt.Sprintf("(%s -> %s)",
				r.Sprint.StartDate.Format("Jan 02"), r.Sprint.EndDate.Format("Jan 02")))
		}
		buf.WriteString("Sprint     " + line + "\n")
	}

	inbox := "clear"
	if r.Unread > 0 {
		inbox = ui.RenderAccent(fmt.Sprintf("%d unread", r.Unread))
	}
	buf.WriteString("Inbox      " + inbox + "\n")

	if r.Project != nil {
		buf.WriteString(fmt.Sprintf("\n%d issues\n", r.IssueTotal))
		for _, group := range types.StateGroups() {
			count := r.IssueCounts[group]
			if count == 0 {
				continue
			}
			buf.WriteString(fmt.Sprintf("  %s %-10s %d\n", ui.RenderStateGroup(group), string(group), count))
		}
	}
	return buf.String()
}
