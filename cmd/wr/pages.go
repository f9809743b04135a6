package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/windrosehq/windrose-go/internal/types"
	"github.com/windrosehq/windrose-go/internal/ui"
	"github.com/windrosehq/windrose-go/internal/views"
)

var pagesCmd = &cobra.Command{
	Use:     "pages",
	Aliases: []string{"page"},
	GroupID: "views",
	Short:   "Work with wiki pages",
}

var pagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wiki pages as a tree",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		ws := requireWorkspace()

		tree, err := cl.Pages.Tree(ctx, ws)
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(tree)
			return
		}
		if len(tree) == 0 {
			fmt.Println("No pages yet. Create one with 'wr pages create'.")
			return
		}

		var buf strings.Builder
		for _, node := range tree {
			formatPageTree(&buf, node, 0)
		}
		fmt.Print(buf.String())
	},
}

var pagesShowCmd = &cobra.Command{
	Use:   "show <page>",
	Short: "Show a wiki page's rendered body",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		full, _ := cmd.Flags().GetBool("full")
		noPager, _ := cmd.Flags().GetBool("no-pager")

		ctx := rootCtx
		ws := requireWorkspace()

		page, err := resolvePage(ctx, ws, args[0])
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(page)
			return
		}

		var buf strings.Builder
		buf.WriteString(ui.RenderCategory(page.Name))
		if page.Locked {
			buf.WriteString(" " + ui.RenderWarn("[locked]"))
		}
		if page.Access == types.PagePrivate {
			buf.WriteString(" " + ui.RenderMuted("[private]"))
		}
		if page.ArchivedAt != nil {
			buf.WriteString(" " + ui.RenderWarn("[archived]"))
		}
		buf.WriteString("\n")
		buf.WriteString(ui.RenderMuted(fmt.Sprintf("updated %s ago", formatAge(page.UpdatedAt))))
		buf.WriteString("\n\n")

		body := ui.RenderHTML(page.DescriptionHTML)
		if body == "" {
			body = ui.RenderMuted("(empty page)")
		} else if !full {
			body = ui.TruncateLines(body, 3*ui.DefaultMaxLines, ui.DefaultContextLines)
		}
		buf.WriteString(body)
		buf.WriteString("\n")

		if err := ui.ToPager(buf.String(), ui.PagerOptions{NoPager: noPager}); err != nil {
			fmt.Print(buf.String())
		}
	},
}

var pagesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a wiki page",
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		body, _ := cmd.Flags().GetString("body")
		parentRef, _ := cmd.Flags().GetString("parent")
		private, _ := cmd.Flags().GetBool("private")

		if name == "" {
			FatalErrorWithHint("no page name given", "Pass --name")
		}

		ctx := rootCtx
		ws := requireWorkspace()

		page := types.Page{Name: name, Access: types.PagePublic}
		if private {
			page.Access = types.PagePrivate
		}
		if body != "" {
			page.DescriptionHTML = textToHTML(body)
		}
		if parentRef != "" {
			parent, err := resolvePage(ctx, ws, parentRef)
			if err != nil {
				FatalError("resolving parent: %v", err)
			}
			page.ParentID = &parent.ID
		}

		created, err := cl.Pages.Create(ctx, ws, page)
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(created)
			return
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Created page %s\n", green("✓"), created.Name)
	},
}

var pagesLockCmd = &cobra.Command{
	Use:   "lock <page>",
	Short: "Lock a page against edits",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		ws := requireWorkspace()

		page, err := resolvePage(ctx, ws, args[0])
		if err != nil {
			FatalError("%v", err)
		}
		if err := cl.Pages.Lock(ctx, ws, page.ID); err != nil {
			FatalError("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Locked page %s\n", green("✓"), page.Name)
	},
}

var pagesUnlockCmd = &cobra.Command{
	Use:   "unlock <page>",
	Short: "Unlock a page for edits",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		ws := requireWorkspace()

		page, err := resolvePage(ctx, ws, args[0])
		if err != nil {
			FatalError("%v", err)
		}
		if err := cl.Pages.Unlock(ctx, ws, page.ID); err != nil {
			FatalError("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Unlocked page %s\n", green("✓"), page.Name)
	},
}

var pagesArchiveCmd = &cobra.Command{
	Use:   "archive <page>",
	Short: "Archive a page",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		ws := requireWorkspace()

		page, err := resolvePage(ctx, ws, args[0])
		if err != nil {
			FatalError("%v", err)
		}
		if err := cl.Pages.Archive(ctx, ws, page.ID); err != nil {
			FatalError("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Archived page %s\n", green("✓"), page.Name)
	},
}

var pagesRestoreCmd = &cobra.Command{
	Use:   "restore <page-id>",
	Short: "Restore an archived page",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		ws := requireWorkspace()

		if err := cl.Pages.Restore(ctx, ws, args[0]); err != nil {
			FatalError("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Restored page %s\n", green("✓"), args[0])
	},
}

func init() {
	pagesShowCmd.Flags().Bool("full", false, "Show the full body without truncation")
	pagesShowCmd.Flags().Bool("no-pager", false, "Disable pager output")
	pagesCreateCmd.Flags().StringP("name", "n", "", "Page name (required)")
	pagesCreateCmd.Flags().StringP("body", "b", "", "Page body (plain text or markdown)")
	pagesCreateCmd.Flags().String("parent", "", "Nest under this page (name or ID)")
	pagesCreateCmd.Flags().Bool("private", false, "Make the page visible to you only")

	pagesCmd.AddCommand(pagesListCmd)
	pagesCmd.AddCommand(pagesShowCmd)
	pagesCmd.AddCommand(pagesCreateCmd)
	pagesCmd.AddCommand(pagesLockCmd)
	pagesCmd.AddCommand(pagesUnlockCmd)
	pagesCmd.AddCommand(pagesArchiveCmd)
	pagesCmd.AddCommand(pagesRestoreCmd)
	rootCmd.AddCommand(pagesCmd)
}

// resolvePage accepts a page ID or name.
func resolvePage(ctx context.Context, workspace, ref string) (*types.Page, error) {
	pages, err := cl.Pages.List(ctx, workspace)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	for i := range pages {
		if pages[i].ID == ref {
			return &pages[i], nil
		}
	}
	for i := range pages {
		if strings.EqualFold(pages[i].Name, ref) {
			return &pages[i], nil
		}
	}
	return nil, fmt.Errorf("page %q not found (try 'wr pages list')", ref)
}

// formatPageTree renders a page subtree with its lock/access markers.
func formatPageTree(buf *strings.Builder, node *views.Node[types.Page], depth int) {
	indent := strings.Repeat(ui.TreeIndent, depth)
	if depth > 0 {
		indent = strings.Repeat(ui.TreeIndent, depth-1) + ui.TreeLast
	}
	line := indent + node.Item.Name
	if node.Item.Locked {
		line += " " + ui.RenderWarn("[locked]")
	}
	if node.Item.Access == types.PagePrivate {
		line += " " + ui.RenderMuted("[private]")
	}
	buf.WriteString(line + "\n")
	for _, child := range node.Children {
		formatPageTree(buf, child, depth+1)
	}
}
