package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/windrosehq/windrose-go/internal/types"
	"github.com/windrosehq/windrose-go/internal/ui"
)

var statesCmd = &cobra.Command{
	Use:     "states",
	Aliases: []string{"state"},
	GroupID: "views",
	Short:   "Work with workflow states",
}

var statesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workflow states grouped by board column",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		scope := requireScope(ctx)

		grouped, err := cl.States.Grouped(ctx, scope.Workspace, scope.Project.ID)
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(grouped)
			return
		}

		var buf strings.Builder
		for _, group := range types.StateGroups() {
			states := grouped[group]
			if len(states) == 0 {
				continue
			}
			buf.WriteString(fmt.Sprintf("%s %s\n", ui.RenderStateGroup(group), ui.RenderCategory(string(group))))
			for _, st := range states {
				marker := ""
				if st.Default {
					marker = " " + ui.RenderMuted("(default)")
				}
				buf.WriteString(fmt.Sprintf("  %s%s\n", st.Name, marker))
			}
		}
		fmt.Print(buf.String())
	},
}

var statesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a workflow state",
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		groupStr, _ := cmd.Flags().GetString("group")
		colorHex, _ := cmd.Flags().GetString("color")

		if name == "" {
			FatalErrorWithHint("no state name given", "Pass --name")
		}
		group := types.StateGroup(groupStr)
		if !group.IsValid() {
			FatalError("invalid group %q (backlog, unstarted, started, completed, cancelled)", groupStr)
		}

		ctx := rootCtx
		scope := requireScope(ctx)

		created, err := cl.States.Create(ctx, scope.Workspace, scope.Project.ID, types.State{
			Name:  name,
			Group: group,
			Color: colorHex,
		})
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(created)
			return
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Created state %s in %s\n", green("✓"), created.Name, created.Group)
	},
}

var statesDefaultCmd = &cobra.Command{
	Use:   "default <state>",
	Short: "Make a state the default for new issues",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		scope := requireScope(ctx)

		st, err := resolveState(ctx, scope, args[0])
		if err != nil {
			FatalError("%v", err)
		}
		if err := cl.States.MarkDefault(ctx, scope.Workspace, scope.Project.ID, st.ID); err != nil {
			FatalError("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s New issues now start in %s\n", green("✓"), st.Name)
	},
}

var statesDeleteCmd = &cobra.Command{
	Use:   "delete <state>",
	Short: "Delete a workflow state",
	Long: `Delete a workflow state. The server rejects deleting the default
state or any state that still holds issues.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		scope := requireScope(ctx)

		st, err := resolveState(ctx, scope, args[0])
		if err != nil {
			FatalError("%v", err)
		}
		if err := cl.States.Delete(ctx, scope.Workspace, scope.Project.ID, st.ID); err != nil {
			FatalError("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Deleted state %s\n", green("✓"), st.Name)
	},
}

func init() {
	statesCreateCmd.Flags().StringP("name", "n", "", "State name (required)")
	statesCreateCmd.Flags().StringP("group", "g", "unstarted", "Board group: backlog, unstarted, started, completed, cancelled")
	statesCreateCmd.Flags().String("color", "", "State color as hex")

	statesCmd.AddCommand(statesListCmd)
	statesCmd.AddCommand(statesCreateCmd)
	statesCmd.AddCommand(statesDefaultCmd)
	statesCmd.AddCommand(statesDeleteCmd)
	rootCmd.AddCommand(statesCmd)
}
