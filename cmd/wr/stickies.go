package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/windrosehq/windrose-go/internal/types"
	"github.com/windrosehq/windrose-go/internal/ui"
	"github.com/windrosehq/windrose-go/internal/views"
)

var stickiesCmd = &cobra.Command{
	Use:     "stickies",
	Aliases: []string{"sticky", "notes"},
	GroupID: "views",
	Short:   "Work with your personal sticky notes",
}

var stickiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sticky notes",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		ws := requireWorkspace()

		stickies, err := cl.Stickies.List(ctx, ws)
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(stickies)
			return
		}
		if len(stickies) == 0 {
			fmt.Println("No sticky notes. Create one with 'wr stickies add'.")
			return
		}

		var buf strings.Builder
		for i := range stickies {
			formatStickyLine(&buf, &stickies[i])
		}
		fmt.Print(buf.String())
	},
}

var stickiesAddCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"create"},
	Short:   "Create a sticky note",
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		body, _ := cmd.Flags().GetString("body")
		hex, _ := cmd.Flags().GetString("color")

		if name == "" && body == "" {
			FatalErrorWithHint("nothing to save", "Pass --name and/or --body")
		}

		ctx := rootCtx
		ws := requireWorkspace()

		sticky := types.Sticky{Name: name, Color: hex}
		if body != "" {
			sticky.DescriptionHTML = textToHTML(body)
		}

		created, err := cl.Stickies.Create(ctx, ws, sticky)
		if err != nil {
			FatalError("%v", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		title := created.Name
		if title == "" {
			title = ui.TruncateSimple(ui.HTMLToText(created.DescriptionHTML), 40)
		}
		fmt.Printf("%s Added sticky %s\n", green("✓"), title)
		fmt.Println(ui.RenderMuted("  id: " + created.ID))
	},
}

var stickiesEditCmd = &cobra.Command{
	Use:     "edit <sticky>",
	Aliases: []string{"update"},
	Short:   "Edit a sticky note",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		ws := requireWorkspace()

		sticky, err := resolveSticky(ctx, ws, args[0])
		if err != nil {
			FatalError("%v", err)
		}

		var patch types.StickyPatch
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			patch.Name = &name
		}
		if cmd.Flags().Changed("body") {
			body, _ := cmd.Flags().GetString("body")
			html := textToHTML(body)
			patch.DescriptionHTML = &html
		}
		if cmd.Flags().Changed("color") {
			hex, _ := cmd.Flags().GetString("color")
			patch.Color = &hex
		}
		if patch.IsZero() {
			FatalErrorWithHint("nothing to change", "Pass --name, --body, or --color")
		}

		if err := cl.Stickies.Update(ctx, ws, sticky.ID, patch); err != nil {
			FatalError("%v", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Updated sticky\n", green("✓"))
	},
}

var stickiesReorderCmd = &cobra.Command{
	Use:   "reorder <sticky>",
	Short: "Move a sticky note within the list",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target, _ := cmd.Flags().GetInt("to")
		below, _ := cmd.Flags().GetBool("below")

		ctx := rootCtx
		ws := requireWorkspace()

		sticky, err := resolveSticky(ctx, ws, args[0])
		if err != nil {
			FatalError("%v", err)
		}

		edge := views.EdgeAbove
		if below {
			edge = views.EdgeBelow
		}
		if err := cl.Stickies.Reorder(ctx, ws, sticky.ID, target, edge); err != nil {
			FatalError("%v", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Reordered sticky\n", green("✓"))
	},
}

var stickiesRmCmd = &cobra.Command{
	Use:     "rm <sticky>",
	Aliases: []string{"delete", "remove"},
	Short:   "Delete a sticky note",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		ws := requireWorkspace()

		sticky, err := resolveSticky(ctx, ws, args[0])
		if err != nil {
			FatalError("%v", err)
		}

		if err := cl.Stickies.Delete(ctx, ws, sticky.ID); err != nil {
			FatalError("%v", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Deleted sticky\n", green("✓"))
	},
}

func init() {
	stickiesAddCmd.Flags().StringP("name", "n", "", "Sticky title")
	stickiesAddCmd.Flags().StringP("body", "d", "", "Sticky body text")
	stickiesAddCmd.Flags().String("color", "", "Sticky color as hex")

	stickiesEditCmd.Flags().StringP("name", "n", "", "New title")
	stickiesEditCmd.Flags().StringP("body", "d", "", "New body text")
	stickiesEditCmd.Flags().String("color", "", "New color as hex")

	stickiesReorderCmd.Flags().Int("to", 0, "Zero-based position to move to")
	stickiesReorderCmd.Flags().Bool("below", false, "Drop below the target position instead of above")

	stickiesCmd.AddCommand(stickiesListCmd)
	stickiesCmd.AddCommand(stickiesAddCmd)
	stickiesCmd.AddCommand(stickiesEditCmd)
	stickiesCmd.AddCommand(stickiesReorderCmd)
	stickiesCmd.AddCommand(stickiesRmCmd)
	rootCmd.AddCommand(stickiesCmd)
}

// resolveSticky finds a sticky by id, name, or unique id prefix.
// Stickies have no sequence numbers, so prefix matching keeps long
// record ids usable from the shell.
func resolveSticky(ctx context.Context, workspace, ref string) (*types.Sticky, error) {
	stickies, err := cl.Stickies.List(ctx, workspace)
	if err != nil {
		return nil, err
	}
	for i := range stickies {
		if stickies[i].ID == ref {
			return &stickies[i], nil
		}
	}
	for i := range stickies {
		if stickies[i].Name != "" && strings.EqualFold(stickies[i].Name, ref) {
			return &stickies[i], nil
		}
	}
	var match *types.Sticky
	for i := range stickies {
		if strings.HasPrefix(stickies[i].ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("sticky %q is ambiguous", ref)
			}
			match = &stickies[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("sticky %q not found (try 'wr stickies list')", ref)
	}
	return match, nil
}

// formatStickyLine renders one sticky: color swatch, title, and a
// one-line preview of the body.
func formatStickyLine(buf *strings.Builder, s *types.Sticky) {
	swatch := "●"
	if s.Color != "" && ui.ShouldUseColor() {
		swatch = lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render("●")
	}
	title := s.Name
	if title == "" {
		title = ui.RenderMuted("(untitled)")
	}
	buf.WriteString(fmt.Sprintf("%s %s %s\n", swatch, title, ui.RenderMuted("("+formatAge(s.UpdatedAt)+")")))
	if s.DescriptionHTML != "" {
		preview := ui.TruncateSimple(ui.HTMLToText(s.DescriptionHTML), 80)
		buf.WriteString("  " + preview + "\n")
	}
	buf.WriteString(ui.RenderMuted("  id: "+s.ID) + "\n")
}
