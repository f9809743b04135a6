package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/windrosehq/windrose-go/internal/types"
	"github.com/windrosehq/windrose-go/internal/ui"
	"github.com/windrosehq/windrose-go/internal/views"
)

var labelsCmd = &cobra.Command{
	Use:     "labels",
	Aliases: []string{"label"},
	GroupID: "views",
	Short:   "Work with labels",
}

var labelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List labels in the scoped project",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		scope := requireScope(ctx)

		labels, err := cl.Labels.List(ctx, scope.Workspace, scope.Project.ID)
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(labels)
			return
		}
		if len(labels) == 0 {
			fmt.Println("No labels yet. Create one with 'wr labels create'.")
			return
		}
		for i := range labels {
			fmt.Println(formatLabel(&labels[i]))
		}
	},
}

var labelsTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show labels as a nested tree",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		scope := requireScope(ctx)

		tree, err := cl.Labels.Tree(ctx, scope.Workspace, scope.Project.ID)
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(tree)
			return
		}
		if len(tree) == 0 {
			fmt.Println("No labels yet. Create one with 'wr labels create'.")
			return
		}

		var buf strings.Builder
		for _, node := range tree {
			formatLabelTree(&buf, node, 0)
		}
		fmt.Print(buf.String())
	},
}

var labelsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a label",
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		colorHex, _ := cmd.Flags().GetString("color")
		parentRef, _ := cmd.Flags().GetString("parent")

		if name == "" {
			FatalErrorWithHint("no label name given", "Pass --name")
		}

		ctx := rootCtx
		scope := requireScope(ctx)

		label := types.Label{Name: name, Color: colorHex}
		if parentRef != "" {
			parent, err := resolveLabel(ctx, scope, parentRef)
			if err != nil {
				FatalError("%v", err)
			}
			label.ParentID = &parent.ID
		}

		created, err := cl.Labels.Create(ctx, scope.Workspace, scope.Project.ID, label)
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(created)
			return
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Created label %s\n", green("✓"), formatLabel(created))
	},
}

var labelsUpdateCmd = &cobra.Command{
	Use:   "update <label>",
	Short: "Rename or recolor a label",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		scope := requireScope(ctx)

		lb, err := resolveLabel(ctx, scope, args[0])
		if err != nil {
			FatalError("%v", err)
		}

		var patch types.LabelPatch
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				FatalError("name cannot be empty")
			}
			patch.Name = &name
		}
		if cmd.Flags().Changed("color") {
			colorHex, _ := cmd.Flags().GetString("color")
			patch.Color = &colorHex
		}
		if cmd.Flags().Changed("parent") {
			parentRef, _ := cmd.Flags().GetString("parent")
			if parentRef == "" {
				patch.ClearParent = true
			} else {
				parent, err := resolveLabel(ctx, scope, parentRef)
				if err != nil {
					FatalError("%v", err)
				}
				patch.ParentID = &parent.ID
			}
		}
		if patch.IsZero() && !patch.ClearParent {
			FatalErrorWithHint("no changes requested", "Pass --name, --color, or --parent")
		}

		if err := cl.Labels.Update(ctx, scope.Workspace, scope.Project.ID, lb.ID, patch); err != nil {
			FatalError("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Updated label %s\n", green("✓"), lb.Name)
	},
}

var labelsReorderCmd = &cobra.Command{
	Use:   "reorder <label> --to <position>",
	Short: "Move a label among its siblings",
	Long: `Move a label to a new position among its same-parent siblings.
Positions count from 0. By default the label lands above the sibling
currently at that position; --below lands it after.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target, _ := cmd.Flags().GetInt("to")
		below, _ := cmd.Flags().GetBool("below")

		ctx := rootCtx
		scope := requireScope(ctx)

		lb, err := resolveLabel(ctx, scope, args[0])
		if err != nil {
			FatalError("%v", err)
		}

		edge := views.EdgeAbove
		if below {
			edge = views.EdgeBelow
		}
		if err := cl.Labels.Reorder(ctx, scope.Workspace, scope.Project.ID, lb.ID, target, edge); err != nil {
			FatalError("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Moved label %s to position %d\n", green("✓"), lb.Name, target)
	},
}

var labelsDeleteCmd = &cobra.Command{
	Use:   "delete <label>",
	Short: "Delete a label",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		scope := requireScope(ctx)

		lb, err := resolveLabel(ctx, scope, args[0])
		if err != nil {
			FatalError("%v", err)
		}
		if err := cl.Labels.Delete(ctx, scope.Workspace, scope.Project.ID, lb.ID); err != nil {
			FatalError("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Deleted label %s\n", green("✓"), lb.Name)
	},
}

func init() {
	labelsCreateCmd.Flags().StringP("name", "n", "", "Label name (required)")
	labelsCreateCmd.Flags().String("color", "", "Label color as hex, e.g. #ff7b72")
	labelsCreateCmd.Flags().String("parent", "", "Nest under this label (name or ID)")
	labelsUpdateCmd.Flags().StringP("name", "n", "", "New name")
	labelsUpdateCmd.Flags().String("color", "", "New color as hex")
	labelsUpdateCmd.Flags().String("parent", "", "New parent label; empty string detaches")
	labelsReorderCmd.Flags().Int("to", 0, "Target position among siblings (from 0)")
	labelsReorderCmd.Flags().Bool("below", false, "Land below the sibling at the target position")

	labelsCmd.AddCommand(labelsListCmd)
	labelsCmd.AddCommand(labelsTreeCmd)
	labelsCmd.AddCommand(labelsCreateCmd)
	labelsCmd.AddCommand(labelsUpdateCmd)
	labelsCmd.AddCommand(labelsReorderCmd)
	labelsCmd.AddCommand(labelsDeleteCmd)
	rootCmd.AddCommand(labelsCmd)
}

// formatLabel renders a label with a color swatch when the terminal
// supports it.
func formatLabel(lb *types.Label) string {
	if lb.Color != "" && ui.ShouldUseColor() {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(lb.Color)).Render("●")
		return swatch + " " + lb.Name
	}
	return "● " + lb.Name
}

// formatLabelTree renders a label subtree with indentation.
func formatLabelTree(buf *strings.Builder, node *views.Node[types.Label], depth int) {
	indent := strings.Repeat(ui.TreeIndent, depth)
	if depth > 0 {
		indent = strings.Repeat(ui.TreeIndent, depth-1) + ui.TreeLast
	}
	buf.WriteString(indent + formatLabel(&node.Item) + "\n")
	for _, child := range node.Children {
		formatLabelTree(buf, child, depth+1)
	}
}
