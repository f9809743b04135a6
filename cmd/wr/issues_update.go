package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/windrosehq/windrose-go/internal/debug"
	"github.com/windrosehq/windrose-go/internal/types"
)

var issuesUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update fields on an issue",
	Long: `Update fields on an issue. Only the flags you pass change; everything
else is left untouched. With no id, updates the issue you touched last.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		scope := requireScope(ctx)

		ref := ""
		if len(args) > 0 {
			ref = args[0]
		} else {
			ref = lastTouchedIssue()
			if ref == "" {
				FatalErrorWithHint("no issue given", "Pass an issue key or show one first")
			}
		}
		issue, err := resolveIssue(ctx, scope, ref)
		if err != nil {
			FatalError("%v", err)
		}

		var patch types.IssuePatch
		var changes []string

		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				FatalError("name cannot be empty")
			}
			patch.Name = &name
			changes = append(changes, "name")
		}
		if cmd.Flags().Changed("description") {
			desc, _ := cmd.Flags().GetString("description")
			body := textToHTML(desc)
			patch.DescriptionHTML = &body
			changes = append(changes, "description")
		}
		if cmd.Flags().Changed("priority") {
			priorityStr, _ := cmd.Flags().GetString("priority")
			p := types.Priority(priorityStr)
			if !p.IsValid() {
				FatalError("invalid priority %q (urgent, high, medium, low, none)", priorityStr)
			}
			patch.Priority = &p
			changes = append(changes, "priority")
		}
		if cmd.Flags().Changed("state") {
			stateRef, _ := cmd.Flags().GetString("state")
			st, err := resolveState(ctx, scope, stateRef)
			if err != nil {
				FatalError("%v", err)
			}
			patch.StateID = &st.ID
			changes = append(changes, "state")
		}
		if cmd.Flags().Changed("sprint") {
			sprintRef, _ := cmd.Flags().GetString("sprint")
			sp, err := resolveSprint(ctx, scope, sprintRef)
			if err != nil {
				FatalError("%v", err)
			}
			patch.SprintID = &sp.ID
			changes = append(changes, "sprint")
		}
		if clear, _ := cmd.Flags().GetBool("clear-sprint"); clear {
			patch.ClearSprint = true
			changes = append(changes, "sprint cleared")
		}
		if cmd.Flags().Changed("parent") {
			parentRef, _ := cmd.Flags().GetString("parent")
			parent, err := resolveIssue(ctx, scope, parentRef)
			if err != nil {
				FatalError("resolving parent: %v", err)
			}
			patch.ParentID = &parent.ID
			changes = append(changes, "parent")
		}
		if clear, _ := cmd.Flags().GetBool("clear-parent"); clear {
			patch.ClearParent = true
			changes = append(changes, "parent cleared")
		}
		if cmd.Flags().Changed("start") {
			startStr, _ := cmd.Flags().GetString("start")
			t, err := parseDateFlag(startStr)
			if err != nil {
				FatalError("parsing --start: %v", err)
			}
			patch.StartDate = &t
			changes = append(changes, "start date")
		}
		if cmd.Flags().Changed("target") {
			targetStr, _ := cmd.Flags().GetString("target")
			t, err := parseDateFlag(targetStr)
			if err != nil {
				FatalError("parsing --target: %v", err)
			}
			patch.TargetDate = &t
			changes = append(changes, "target date")
		}
		if clear, _ := cmd.Flags().GetBool("clear-target"); clear {
			patch.ClearTargetDate = true
			changes = append(changes, "target date cleared")
		}

		addLabels, _ := cmd.Flags().GetStringSlice("add-label")
		removeLabels, _ := cmd.Flags().GetStringSlice("remove-label")
		if len(addLabels) > 0 || len(removeLabels) > 0 {
			ids := slices.Clone(issue.LabelIDs)
			for _, ref := range addLabels {
				lb, err := resolveLabel(ctx, scope, ref)
				if err != nil {
					FatalError("%v", err)
				}
				if !slices.Contains(ids, lb.ID) {
					ids = append(ids, lb.ID)
				}
			}
			for _, ref := range removeLabels {
				lb, err := resolveLabel(ctx, scope, ref)
				if err != nil {
					FatalError("%v", err)
				}
				ids = slices.DeleteFunc(ids, func(id string) bool { return id == lb.ID })
			}
			patch.LabelIDs = &ids
			changes = append(changes, "labels")
		}

		if len(changes) == 0 {
			FatalErrorWithHint("no changes requested", "Pass at least one field flag, e.g. --priority high")
		}

		if err := cl.Issues.Update(ctx, scope.Workspace, scope.Project.ID, issue.ID, patch); err != nil {
			FatalError("%v", err)
		}
		touchIssue(issue.ID)
		debug.LogEvent("issue.update", issue.ID, strings.Join(changes, ", "))

		if jsonOutput {
			updated, err := cl.Issues.Get(ctx, scope.Workspace, scope.Project.ID, issue.ID)
			if err != nil {
				FatalError("%v", err)
			}
			outputJSON(updated)
			return
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Updated %s", green("✓"), issueKey(scope.Project.Identifier, issue))
		for _, c := range changes {
			fmt.Printf("\n  - %s", c)
		}
		fmt.Println()
	},
}

var issuesCloseCmd = &cobra.Command{
	Use:   "close [id...]",
	Short: "Move issues to a completed state",
	Long: `Move one or more issues to a completed state. The default target is
the project's default completed state; --state picks a specific
completed or cancelled state instead. With no id, closes the issue you
touched last.`,
	Run: func(cmd *cobra.Command, args []string) {
		stateRef, _ := cmd.Flags().GetString("state")

		ctx := rootCtx
		scope := requireScope(ctx)

		if len(args) == 0 {
			last := lastTouchedIssue()
			if last == "" {
				FatalErrorWithHint("no issue given", "Pass an issue key or show one first")
			}
			args = []string{last}
		}

		target, err := closeTargetState(ctx, scope, stateRef)
		if err != nil {
			FatalError("%v", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		for _, ref := range args {
			issue, err := resolveIssue(ctx, scope, ref)
			if err != nil {
				FatalError("%v", err)
			}
			patch := types.IssuePatch{StateID: &target.ID}
			if err := cl.Issues.Update(ctx, scope.Workspace, scope.Project.ID, issue.ID, patch); err != nil {
				FatalError("closing %s: %v", ref, err)
			}
			touchIssue(issue.ID)
			debug.LogEvent("issue.close", issue.ID, target.Name)
			if !jsonOutput {
				fmt.Printf("%s Closed %s (%s)\n", green("✓"), issueKey(scope.Project.Identifier, issue), target.Name)
			}
		}
	},
}

var issuesReopenCmd = &cobra.Command{
	Use:   "reopen [id...]",
	Short: "Move issues back to the default workflow state",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		scope := requireScope(ctx)

		if len(args) == 0 {
			last := lastTouchedIssue()
			if last == "" {
				FatalErrorWithHint("no issue given", "Pass an issue key or show one first")
			}
			args = []string{last}
		}

		target, err := reopenTargetState(ctx, scope)
		if err != nil {
			FatalError("%v", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		for _, ref := range args {
			issue, err := resolveIssue(ctx, scope, ref)
			if err != nil {
				FatalError("%v", err)
			}
			patch := types.IssuePatch{StateID: &target.ID}
			if err := cl.Issues.Update(ctx, scope.Workspace, scope.Project.ID, issue.ID, patch); err != nil {
				FatalError("reopening %s: %v", ref, err)
			}
			touchIssue(issue.ID)
			debug.LogEvent("issue.reopen", issue.ID, target.Name)
			if !jsonOutput {
				fmt.Printf("%s Reopened %s (%s)\n", green("✓"), issueKey(scope.Project.Identifier, issue), target.Name)
			}
		}
	},
}

func init() {
	issuesUpdateCmd.Flags().StringP("name", "n", "", "New name")
	issuesUpdateCmd.Flags().StringP("description", "d", "", "New description (replaces the old one)")
	issuesUpdateCmd.Flags().String("priority", "", "New priority: urgent, high, medium, low, none")
	issuesUpdateCmd.Flags().StringP("state", "s", "", "New workflow state (name or ID)")
	issuesUpdateCmd.Flags().String("sprint", "", "Assign to sprint (name, ID, or 'current')")
	issuesUpdateCmd.Flags().Bool("clear-sprint", false, "Remove the issue from its sprint")
	issuesUpdateCmd.Flags().String("parent", "", "New parent issue (key or ID)")
	issuesUpdateCmd.Flags().Bool("clear-parent", false, "Detach the issue from its parent")
	issuesUpdateCmd.Flags().String("start", "", "New start date (YYYY-MM-DD or +2w)")
	issuesUpdateCmd.Flags().String("target", "", "New target date (YYYY-MM-DD or +2w)")
	issuesUpdateCmd.Flags().Bool("clear-target", false, "Remove the target date")
	issuesUpdateCmd.Flags().StringSlice("add-label", []string{}, "Attach labels (name or ID, repeatable)")
	issuesUpdateCmd.Flags().StringSlice("remove-label", []string{}, "Detach labels (name or ID, repeatable)")

	issuesCloseCmd.Flags().StringP("state", "s", "", "Close into this state (must be completed or cancelled)")

	issuesCmd.AddCommand(issuesUpdateCmd)
	issuesCmd.AddCommand(issuesCloseCmd)
	issuesCmd.AddCommand(issuesReopenCmd)
}

// closeTargetState picks the state 'close' moves issues into: the
// explicit --state when given, otherwise the default completed state,
// otherwise the first one.
func closeTargetState(ctx context.Context, scope projectScope, stateRef string) (*types.State, error) {
	if stateRef != "" {
		st, err := resolveState(ctx, scope, stateRef)
		if err != nil {
			return nil, err
		}
		if st.Group != types.GroupCompleted && st.Group != types.GroupCancelled {
			return nil, fmt.Errorf("state %q is in group %q, not a closing state", st.Name, st.Group)
		}
		return st, nil
	}

	grouped, err := cl.States.Grouped(ctx, scope.Workspace, scope.Project.ID)
	if err != nil {
		return nil, err
	}
	completed := grouped[types.GroupCompleted]
	if len(completed) == 0 {
		return nil, fmt.Errorf("project has no completed states")
	}
	for i := range completed {
		if completed[i].Default {
			return &completed[i], nil
		}
	}
	return &completed[0], nil
}

// reopenTargetState picks where 'reopen' lands: the project's default
// state, else the first unstarted, else the first backlog state.
func reopenTargetState(ctx context.Context, scope projectScope) (*types.State, error) {
	states, err := cl.States.List(ctx, scope.Workspace, scope.Project.ID)
	if err != nil {
		return nil, err
	}
	for i := range states {
		if states[i].Default {
			return &states[i], nil
		}
	}
	grouped, err := cl.States.Grouped(ctx, scope.Workspace, scope.Project.ID)
	if err != nil {
		return nil, err
	}
	if unstarted := grouped[types.GroupUnstarted]; len(unstarted) > 0 {
		return &unstarted[0], nil
	}
	if backlog := grouped[types.GroupBacklog]; len(backlog) > 0 {
		return &backlog[0], nil
	}
	return nil, fmt.Errorf("project has no reopenable states")
}
