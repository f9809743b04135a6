package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/windrosehq/windrose-go/internal/types"
	"github.com/windrosehq/windrose-go/internal/ui"
)

var sprintsCmd = &cobra.Command{
	Use:     "sprints",
	Aliases: []string{"sprint"},
	GroupID: "views",
	Short:   "Work with sprints",
}

var sprintsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sprints in the scoped project",
	Run: func(cmd *cobra.Command, args []string) {
		archived, _ := cmd.Flags().GetBool("archived")

		ctx := rootCtx
		scope := requireScope(ctx)

		var sprints []types.Sprint
		var err error
		if archived {
			sprints, err = cl.Sprints.ListArchived(ctx, scope.Workspace, scope.Project.ID)
		} else {
			sprints, err = cl.Sprints.List(ctx, scope.Workspace, scope.Project.ID)
		}
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(sprints)
			return
		}
		if len(sprints) == 0 {
			if archived {
				fmt.Println("No archived sprints.")
			} else {
				fmt.Println("No sprints yet. Create one with 'wr sprints create'.")
			}
			return
		}

		var buf strings.Builder
		for i := range sprints {
			formatSprintLine(&buf, &sprints[i])
		}
		fmt.Print(buf.String())
	},
}

var sprintsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a sprint",
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		startStr, _ := cmd.Flags().GetString("start")
		endStr, _ := cmd.Flags().GetString("end")

		if name == "" {
			FatalErrorWithHint("no sprint name given", "Pass --name")
		}

		ctx := rootCtx
		scope := requireScope(ctx)

		sprint := types.Sprint{Name: name, Description: description}
		if startStr != "" {
			t, err := parseDateFlag(startStr)
			if err != nil {
				FatalError("parsing --start: %v", err)
			}
			sprint.StartDate = &t
		}
		if endStr != "" {
			t, err := parseDateFlag(endStr)
			if err != nil {
				FatalError("parsing --end: %v", err)
			}
			sprint.EndDate = &t
		}

		created, err := cl.Sprints.Create(ctx, scope.Workspace, scope.Project.ID, sprint)
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(created)
			return
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Created sprint %s", green("✓"), created.Name)
		if created.StartDate != nil && created.EndDate != nil {
			fmt.Printf(" (%s -> %s)", created.StartDate.Format("2006-01-02"), created.EndDate.Format("2006-01-02"))
		}
		fmt.Println()
	},
}

var sprintsUpdateCmd = &cobra.Command{
	Use:   "update <sprint>",
	Short: "Update a sprint's name, dates, or description",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		scope := requireScope(ctx)

		sp, err := resolveSprint(ctx, scope, args[0])
		if err != nil {
			FatalError("%v", err)
		}

		var patch types.SprintPatch
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				FatalError("name cannot be empty")
			}
			patch.Name = &name
		}
		if cmd.Flags().Changed("description") {
			desc, _ := cmd.Flags().GetString("description")
			patch.Description = &desc
		}
		if cmd.Flags().Changed("start") {
			startStr, _ := cmd.Flags().GetString("start")
			t, err := parseDateFlag(startStr)
			if err != nil {
				FatalError("parsing --start: %v", err)
			}
			patch.StartDate = &t
		}
		if cmd.Flags().Changed("end") {
			endStr, _ := cmd.Flags().GetString("end")
			t, err := parseDateFlag(endStr)
			if err != nil {
				FatalError("parsing --end: %v", err)
			}
			patch.EndDate = &t
		}
		if patch.IsZero() {
			FatalErrorWithHint("no changes requested", "Pass at least one of --name, --description, --start, --end")
		}

		if err := cl.Sprints.Update(ctx, scope.Workspace, scope.Project.ID, sp.ID, patch); err != nil {
			FatalError("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Updated sprint %s\n", green("✓"), sp.Name)
	},
}

var sprintsArchiveCmd = &cobra.Command{
	Use:   "archive <sprint>",
	Short: "Archive a sprint, unassigning its open issues",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			FatalErrorWithHint("need exactly one sprint", "Pass a sprint name or ID")
		}
		force, _ := cmd.Flags().GetBool("force")

		ctx := rootCtx
		scope := requireScope(ctx)

		sp, err := resolveSprint(ctx, scope, args[0])
		if err != nil {
			FatalError("%v", err)
		}

		confirmSprintRemoval(ctx, scope, sp, force, "Archiving")

		if err := cl.Sprints.Archive(ctx, scope.Workspace, scope.Project.ID, sp.ID); err != nil {
			FatalError("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Archived sprint %s\n", green("✓"), sp.Name)
	},
}

var sprintsRestoreCmd = &cobra.Command{
	Use:   "restore <sprint>",
	Short: "Restore an archived sprint",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		scope := requireScope(ctx)

		archived, err := cl.Sprints.ListArchived(ctx, scope.Workspace, scope.Project.ID)
		if err != nil {
			FatalError("%v", err)
		}
		var target *types.Sprint
		for i := range archived {
			if archived[i].ID == args[0] || strings.EqualFold(archived[i].Name, args[0]) {
				target = &archived[i]
				break
			}
		}
		if target == nil {
			FatalError("archived sprint %q not found (try 'wr sprints list --archived')", args[0])
		}

		if err := cl.Sprints.Restore(ctx, scope.Workspace, scope.Project.ID, target.ID); err != nil {
			FatalError("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Restored sprint %s\n", green("✓"), target.Name)
	},
}

var sprintsDeleteCmd = &cobra.Command{
	Use:   "delete <sprint>",
	Short: "Permanently delete a sprint",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")

		ctx := rootCtx
		scope := requireScope(ctx)

		sp, err := resolveSprint(ctx, scope, args[0])
		if err != nil {
			FatalError("%v", err)
		}

		confirmSprintRemoval(ctx, scope, sp, force, "Deleting")

		if err := cl.Sprints.Delete(ctx, scope.Workspace, scope.Project.ID, sp.ID); err != nil {
			FatalError("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Deleted sprint %s\n", green("✓"), sp.Name)
	},
}

func init() {
	sprintsListCmd.Flags().Bool("archived", false, "List archived sprints instead of active ones")
	sprintsCreateCmd.Flags().StringP("name", "n", "", "Sprint name (required)")
	sprintsCreateCmd.Flags().StringP("description", "d", "", "Sprint description")
	sprintsCreateCmd.Flags().String("start", "", "Start date (YYYY-MM-DD or +2w)")
	sprintsCreateCmd.Flags().String("end", "", "End date (YYYY-MM-DD or +2w)")
	sprintsUpdateCmd.Flags().StringP("name", "n", "", "New name")
	sprintsUpdateCmd.Flags().StringP("description", "d", "", "New description")
	sprintsUpdateCmd.Flags().String("start", "", "New start date (YYYY-MM-DD or +2w)")
	sprintsUpdateCmd.Flags().String("end", "", "New end date (YYYY-MM-DD or +2w)")
	sprintsArchiveCmd.Flags().BoolP("force", "f", false, "Skip the impact confirmation")
	sprintsDeleteCmd.Flags().BoolP("force", "f", false, "Skip the impact confirmation")

	sprintsCmd.AddCommand(sprintsListCmd)
	sprintsCmd.AddCommand(sprintsCreateCmd)
	sprintsCmd.AddCommand(sprintsUpdateCmd)
	sprintsCmd.AddCommand(sprintsArchiveCmd)
	sprintsCmd.AddCommand(sprintsRestoreCmd)
	sprintsCmd.AddCommand(sprintsDeleteCmd)
	rootCmd.AddCommand(sprintsCmd)
}

// confirmSprintRemoval checks how many issues the removal would orphan
// and asks before proceeding. --force and non-terminal runs skip the
// prompt but still print the impact.
func confirmSprintRemoval(ctx context.Context, scope projectScope, sp *types.Sprint, force bool, verb string) {
	impact, err := cl.Sprints.RemovalImpact(ctx, scope.Workspace, scope.Project.ID, sp.ID)
	if err != nil {
		WarnError("checking removal impact: %v", err)
		return
	}
	if impact == nil || impact.Count == 0 {
		return
	}

	if force || !ui.IsTerminal() {
		fmt.Fprintf(os.Stderr, "Note: %s %s unassigns %d issue(s).\n", strings.ToLower(verb), sp.Name, impact.Count)
		return
	}

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("%s %s unassigns %d issue(s). Continue?", verb, sp.Name, impact.Count)).
				Affirmative("Continue").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeDracula())
	if err := form.Run(); err != nil || !confirmed {
		fmt.Fprintln(os.Stderr, "Cancelled.")
		os.Exit(0)
	}
}

// formatSprintLine renders one sprint with its lifecycle status.
func formatSprintLine(buf *strings.Builder, sp *types.Sprint) {
	var status string
	switch sp.Lifecycle(time.Now()) {
	case types.SprintCurrent:
		status = ui.RenderPass("current ")
	case types.SprintUpcoming:
		status = ui.RenderAccent("upcoming")
	case types.SprintCompleted:
		status = ui.RenderMuted("done    ")
	default:
		status = ui.RenderMuted("draft   ")
	}

	dates := ""
	if sp.StartDate != nil && sp.EndDate != nil {
		dates = fmt.Sprintf("%s -> %s", sp.StartDate.Format("Jan 02"), sp.EndDate.Format("Jan 02"))
	}

	buf.WriteString(fmt.Sprintf("%s %s", status, sp.Name))
	if dates != "" {
		buf.WriteString("  " + ui.RenderMuted(dates))
	}
	buf.WriteString("\n")
}
