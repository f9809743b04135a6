package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/windrosehq/windrose-go/internal/types"
	"github.com/windrosehq/windrose-go/internal/ui"
)

var issuesShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one issue in detail",
	Long: `Show one issue in detail, including its rendered description.

Accepts an issue key (WEB-42), a bare sequence number, or a record ID.
With no argument, shows the issue you touched last.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		full, _ := cmd.Flags().GetBool("full")
		noPager, _ := cmd.Flags().GetBool("no-pager")

		ctx := rootCtx
		scope := requireScope(ctx)

		ref := ""
		if len(args) > 0 {
			ref = args[0]
		} else {
			ref = lastTouchedIssue()
			if ref == "" {
				FatalErrorWithHint("no issue given", "Pass an issue key, or run 'wr issues show WEB-42' once to set a default")
			}
		}

		issue, err := resolveIssue(ctx, scope, ref)
		if err != nil {
			FatalError("%v", err)
		}
		touchIssue(issue.ID)

		if jsonOutput {
			outputJSON(issue)
			return
		}

		states, err := cl.States.List(ctx, scope.Workspace, scope.Project.ID)
		if err != nil {
			FatalError("%v", err)
		}
		labels, err := cl.Labels.List(ctx, scope.Workspace, scope.Project.ID)
		if err != nil {
			FatalError("%v", err)
		}

		var buf strings.Builder
		formatIssueDetail(&buf, ctx, scope, issue, states, labels, full)

		if err := ui.ToPager(buf.String(), ui.PagerOptions{NoPager: noPager}); err != nil {
			fmt.Print(buf.String())
		}
	},
}

func init() {
	issuesShowCmd.Flags().Bool("full", false, "Show the full description without truncation")
	issuesShowCmd.Flags().Bool("no-pager", false, "Disable pager output")
	issuesCmd.AddCommand(issuesShowCmd)
}

func formatIssueDetail(buf *strings.Builder, ctx context.Context, scope projectScope, issue *types.Issue, states []types.State, labels []types.Label, full bool) {
	stateMap := statesByID(states)
	labelMap := labelsByID(labels)
	key := issueKey(scope.Project.Identifier, issue)

	group := types.GroupBacklog
	stateName := "-"
	if st, ok := stateMap[issue.StateID]; ok {
		group = st.Group
		stateName = st.Name
	}

	buf.WriteString(fmt.Sprintf("%s %s %s\n\n",
		ui.RenderStateGroup(group),
		ui.RenderCategory(key),
		issue.Name))

	buf.WriteString(fmt.Sprintf("  State:     %s\n", stateName))
	buf.WriteString(fmt.Sprintf("  Priority:  %s\n", ui.RenderPriority(issue.Priority)))

	if issue.SprintID != nil {
		sprintName := *issue.SprintID
		if sp, err := cl.Sprints.Get(ctx, scope.Workspace, scope.Project.ID, *issue.SprintID); err == nil && sp != nil {
			sprintName = sp.Name
		}
		buf.WriteString(fmt.Sprintf("  Sprint:    %s\n", sprintName))
	}
	if len(issue.LabelIDs) > 0 {
		names := make([]string, 0, len(issue.LabelIDs))
		for _, id := range issue.LabelIDs {
			if lb, ok := labelMap[id]; ok {
				names = append(names, lb.Name)
			} else {
				names = append(names, id)
			}
		}
		buf.WriteString(fmt.Sprintf("  Labels:    %s\n", strings.Join(names, ", ")))
	}
	if issue.ParentID != nil {
		buf.WriteString(fmt.Sprintf("  Parent:    %s\n", *issue.ParentID))
	}
	if len(issue.AssigneeIDs) > 0 {
		buf.WriteString(fmt.Sprintf("  Assignees: %d\n", len(issue.AssigneeIDs)))
	}
	if issue.StartDate != nil || issue.TargetDate != nil {
		buf.WriteString(fmt.Sprintf("  Dates:     %s -> %s\n", formatDate(issue.StartDate), formatDate(issue.TargetDate)))
	}
	if issue.CompletedAt != nil {
		buf.WriteString(fmt.Sprintf("  Completed: %s %s\n", issue.CompletedAt.Format("2006-01-02"), ui.RenderMuted("("+formatAge(*issue.CompletedAt)+" ago)")))
	}
	if issue.ArchivedAt != nil {
		buf.WriteString(fmt.Sprintf("  %s\n", ui.RenderWarn("Archived "+issue.ArchivedAt.Format("2006-01-02"))))
	}
	buf.WriteString(fmt.Sprintf("  Created:   %s %s\n", issue.CreatedAt.Format("2006-01-02 15:04"), ui.RenderMuted("("+formatAge(issue.CreatedAt)+" ago)")))
	buf.WriteString(fmt.Sprintf("  Updated:   %s %s\n", issue.UpdatedAt.Format("2006-01-02 15:04"), ui.RenderMuted("("+formatAge(issue.UpdatedAt)+" ago)")))

	if issue.DescriptionHTML != "" {
		body := ui.RenderHTML(issue.DescriptionHTML)
		if !full {
			body = ui.TruncateLines(body, ui.DefaultMaxLines, ui.DefaultContextLines)
		}
		buf.WriteString("\n")
		buf.WriteString(body)
		buf.WriteString("\n")
	}
	buf.WriteString("\n")
	buf.WriteString(ui.RenderMuted(fmt.Sprintf("id: %s", issue.ID)))
	buf.WriteString("\n")
}
