package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/windrosehq/windrose-go/internal/types"
)

var issuesMoveCmd = &cobra.Command{
	Use:   "move <id>... (--to-project | --sprint | --state)",
	Short: "Move issues to another project, sprint, or state",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		toProject, _ := cmd.Flags().GetString("to-project")
		sprintRef, _ := cmd.Flags().GetString("sprint")
		stateRef, _ := cmd.Flags().GetString("state")

		targets := 0
		for _, v := range []string{toProject, sprintRef, stateRef} {
			if v != "" {
				targets++
			}
		}
		if targets != 1 {
			FatalErrorWithHint("need exactly one target", "Pass one of --to-project, --sprint, or --state")
		}

		ctx := rootCtx
		scope := requireScope(ctx)
		green := color.New(color.FgGreen).SprintFunc()

		issues := make([]*types.Issue, 0, len(args))
		for _, ref := range args {
			issue, err := resolveIssue(ctx, scope, ref)
			if err != nil {
				FatalError("%v", err)
			}
			issues = append(issues, issue)
		}

		switch {
		case toProject != "":
			target, err := resolveProject(ctx, scope.Workspace, toProject)
			if err != nil {
				FatalError("%v", err)
			}
			if target.ID == scope.Project.ID {
				FatalError("issues are already in project %s", target.Name)
			}
			ids := make([]string, len(issues))
			for i, issue := range issues {
				ids[i] = issue.ID
			}
			if err := cl.Issues.BulkMove(ctx, scope.Workspace, scope.Project.ID, target.ID, ids); err != nil {
				FatalError("%v", err)
			}
			fmt.Printf("%s Moved %d issue(s) to %s\n", green("✓"), len(ids), target.Name)

		case sprintRef != "":
			sp, err := resolveSprint(ctx, scope, sprintRef)
			if err != nil {
				FatalError("%v", err)
			}
			for _, issue := range issues {
				patch := types.IssuePatch{SprintID: &sp.ID}
				if err := cl.Issues.Update(ctx, scope.Workspace, scope.Project.ID, issue.ID, patch); err != nil {
					FatalError("moving %s: %v", issueKey(scope.Project.Identifier, issue), err)
				}
				fmt.Printf("%s Moved %s to sprint %s\n", green("✓"), issueKey(scope.Project.Identifier, issue), sp.Name)
			}

		case stateRef != "":
			st, err := resolveState(ctx, scope, stateRef)
			if err != nil {
				FatalError("%v", err)
			}
			for _, issue := range issues {
				patch := types.IssuePatch{StateID: &st.ID}
				if err := cl.Issues.Update(ctx, scope.Workspace, scope.Project.ID, issue.ID, patch); err != nil {
					FatalError("moving %s: %v", issueKey(scope.Project.Identifier, issue), err)
				}
				fmt.Printf("%s Moved %s to %s\n", green("✓"), issueKey(scope.Project.Identifier, issue), st.Name)
			}
		}
	},
}

var issuesArchiveCmd = &cobra.Command{
	Use:   "archive <id>...",
	Short: "Archive issues",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		scope := requireScope(ctx)
		green := color.New(color.FgGreen).SprintFunc()

		for _, ref := range args {
			issue, err := resolveIssue(ctx, scope, ref)
			if err != nil {
				FatalError("%v", err)
			}
			if err := cl.Issues.Archive(ctx, scope.Workspace, scope.Project.ID, issue.ID); err != nil {
				FatalError("archiving %s: %v", ref, err)
			}
			fmt.Printf("%s Archived %s\n", green("✓"), issueKey(scope.Project.Identifier, issue))
		}
	},
}

var issuesRestoreCmd = &cobra.Command{
	Use:   "restore <id>...",
	Short: "Restore archived issues",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		scope := requireScope(ctx)
		green := color.New(color.FgGreen).SprintFunc()

		for _, ref := range args {
			// Archived issues are off the active list, so keys may not
			// resolve; raw IDs always work.
			id := ref
			if issue, err := resolveIssue(ctx, scope, ref); err == nil {
				id = issue.ID
			}
			if err := cl.Issues.Restore(ctx, scope.Workspace, scope.Project.ID, id); err != nil {
				FatalError("restoring %s: %v", ref, err)
			}
			fmt.Printf("%s Restored %s\n", green("✓"), ref)
		}
	},
}

var issuesDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Permanently delete issues",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")

		ctx := rootCtx
		scope := requireScope(ctx)

		issues := make([]*types.Issue, 0, len(args))
		for _, ref := range args {
			issue, err := resolveIssue(ctx, scope, ref)
			if err != nil {
				FatalError("%v", err)
			}
			issues = append(issues, issue)
		}

		if !force {
			var confirmed bool
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Permanently delete %d issue(s)?", len(issues))).
						Description("This cannot be undone. Archiving is reversible; deleting is not.").
						Affirmative("Delete").
						Negative("Cancel").
						Value(&confirmed),
				),
			).WithTheme(huh.ThemeDracula())
			if err := form.Run(); err != nil || !confirmed {
				fmt.Fprintln(os.Stderr, "Deletion cancelled.")
				os.Exit(0)
			}
		}

		green := color.New(color.FgGreen).SprintFunc()
		for _, issue := range issues {
			if err := cl.Issues.Delete(ctx, scope.Workspace, scope.Project.ID, issue.ID); err != nil {
				FatalError("deleting %s: %v", issueKey(scope.Project.Identifier, issue), err)
			}
			fmt.Printf("%s Deleted %s\n", green("✓"), issueKey(scope.Project.Identifier, issue))
		}
	},
}

func init() {
	issuesMoveCmd.Flags().String("to-project", "", "Move to another project (name, identifier, or ID)")
	issuesMoveCmd.Flags().String("sprint", "", "Move into a sprint (name, ID, or 'current')")
	issuesMoveCmd.Flags().StringP("state", "s", "", "Move to a workflow state (name or ID)")
	issuesDeleteCmd.Flags().BoolP("force", "f", false, "Skip the confirmation prompt")

	issuesCmd.AddCommand(issuesMoveCmd)
	issuesCmd.AddCommand(issuesArchiveCmd)
	issuesCmd.AddCommand(issuesRestoreCmd)
	issuesCmd.AddCommand(issuesDeleteCmd)
}
