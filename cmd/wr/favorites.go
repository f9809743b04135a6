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

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"favorite", "favs"},
	GroupID: "views",
	Short:   "Work with your sidebar favorites",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorites, nested under their folders",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		ws := requireWorkspace()

		tree, err := cl.Favorites.Tree(ctx, ws)
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			favorites, err := cl.Favorites.List(ctx, ws)
			if err != nil {
				FatalError("%v", err)
			}
			outputJSON(favorites)
			return
		}
		if len(tree) == 0 {
			fmt.Println("No favorites. Add one with 'wr favorites add'.")
			return
		}

		var buf strings.Builder
		for _, node := range tree {
			formatFavoriteTree(&buf, node, 0)
		}
		fmt.Print(buf.String())
	},
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Favorite a project, sprint, module, page, or create a folder",
	Run: func(cmd *cobra.Command, args []string) {
		projectRef, _ := cmd.Flags().GetString("project-ref")
		sprintRef, _ := cmd.Flags().GetString("sprint")
		moduleRef, _ := cmd.Flags().GetString("module")
		pageRef, _ := cmd.Flags().GetString("page")
		folderName, _ := cmd.Flags().GetString("folder")
		intoRef, _ := cmd.Flags().GetString("into")

		set := 0
		for _, v := range []string{projectRef, sprintRef, moduleRef, pageRef, folderName} {
			if v != "" {
				set++
			}
		}
		if set != 1 {
			FatalErrorWithHint("pick what to favorite",
				"Pass exactly one of --project-ref, --sprint, --module, --page, or --folder")
		}

		ctx := rootCtx
		ws := requireWorkspace()

		fav := types.Favorite{WorkspaceID: ws}
		switch {
		case folderName != "":
			fav.Kind = types.FavoriteFolder
			fav.Name = folderName
		case projectRef != "":
			proj, err := resolveProject(ctx, ws, projectRef)
			if err != nil {
				FatalError("%v", err)
			}
			fav.Kind = types.FavoriteProject
			fav.EntityID = &proj.ID
			fav.Name = proj.Name
		case pageRef != "":
			page, err := resolvePage(ctx, ws, pageRef)
			if err != nil {
				FatalError("%v", err)
			}
			fav.Kind = types.FavoritePage
			fav.EntityID = &page.ID
			fav.Name = page.Name
			fav.ProjectID = page.ProjectID
		case sprintRef != "":
			scope := requireScope(ctx)
			sprint, err := resolveSprint(ctx, scope, sprintRef)
			if err != nil {
				FatalError("%v", err)
			}
			fav.Kind = types.FavoriteSprint
			fav.EntityID = &sprint.ID
			fav.Name = sprint.Name
			fav.ProjectID = &scope.Project.ID
		case moduleRef != "":
			scope := requireScope(ctx)
			module, err := resolveModule(ctx, scope, moduleRef)
			if err != nil {
				FatalError("%v", err)
			}
			fav.Kind = types.FavoriteModule
			fav.EntityID = &module.ID
			fav.Name = module.Name
			fav.ProjectID = &scope.Project.ID
		}

		if intoRef != "" {
			folder, err := resolveFavoriteFolder(ctx, ws, intoRef)
			if err != nil {
				FatalError("%v", err)
			}
			fav.ParentID = &folder.ID
		}

		created, err := cl.Favorites.Add(ctx, ws, fav)
		if err != nil {
			FatalError("%v", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Added %s to favorites\n", green("✓"), created.Name)
	},
}

var favoritesMoveCmd = &cobra.Command{
	Use:   "move <favorite>",
	Short: "Move a favorite into a folder or reorder it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		intoRef, _ := cmd.Flags().GetString("into")
		toRoot, _ := cmd.Flags().GetBool("to-root")
		target, _ := cmd.Flags().GetInt("to")
		below, _ := cmd.Flags().GetBool("below")

		if intoRef != "" && toRoot {
			FatalError("--into and --to-root are mutually exclusive")
		}

		ctx := rootCtx
		ws := requireWorkspace()

		fav, err := resolveFavorite(ctx, ws, args[0])
		if err != nil {
			FatalError("%v", err)
		}

		parent := fav.ParentID
		switch {
		case toRoot:
			parent = nil
		case intoRef != "":
			folder, err := resolveFavoriteFolder(ctx, ws, intoRef)
			if err != nil {
				FatalError("%v", err)
			}
			if folder.ID == fav.ID {
				FatalError("cannot move a folder into itself")
			}
			parent = &folder.ID
		}

		edge := views.EdgeAbove
		if below {
			edge = views.EdgeBelow
		}
		if err := cl.Favorites.Move(ctx, ws, fav.ID, parent, target, edge); err != nil {
			FatalError("%v", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Moved %s\n", green("✓"), fav.Name)
	},
}

var favoritesRmCmd = &cobra.Command{
	Use:     "rm <favorite>",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove a favorite",
	Long: `Remove a favorite from the sidebar.

Removing a folder also removes the favorites inside it on the server,
so you may want to move them out first with 'wr favorites move'.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		ws := requireWorkspace()

		fav, err := resolveFavorite(ctx, ws, args[0])
		if err != nil {
			FatalError("%v", err)
		}

		if err := cl.Favorites.Remove(ctx, ws, fav.ID); err != nil {
			FatalError("%v", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Removed %s from favorites\n", green("✓"), fav.Name)
	},
}

func init() {
	favoritesAddCmd.Flags().String("project-ref", "", "Project to favorite (id, identifier, or name)")
	favoritesAddCmd.Flags().String("sprint", "", "Sprint to favorite (id, name, or 'current')")
	favoritesAddCmd.Flags().String("module", "", "Module to favorite (id or name)")
	favoritesAddCmd.Flags().String("page", "", "Page to favorite (id or name)")
	favoritesAddCmd.Flags().String("folder", "", "Create a favorites folder with this name")
	favoritesAddCmd.Flags().String("into", "", "Folder to add the favorite into")

	favoritesMoveCmd.Flags().String("into", "", "Folder to move the favorite into")
	favoritesMoveCmd.Flags().Bool("to-root", false, "Move the favorite out of its folder")
	favoritesMoveCmd.Flags().Int("to", 0, "Zero-based position among the new siblings")
	favoritesMoveCmd.Flags().Bool("below", false, "Drop below the target position instead of above")

	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesMoveCmd)
	favoritesCmd.AddCommand(favoritesRmCmd)
	rootCmd.AddCommand(favoritesCmd)
}

// resolveFavorite finds a favorite by id, name, or unique id prefix.
func resolveFavorite(ctx context.Context, workspace, ref string) (*types.Favorite, error) {
	favorites, err := cl.Favorites.List(ctx, workspace)
	if err != nil {
		return nil, err
	}
	for i := range favorites {
		if favorites[i].ID == ref {
			return &favorites[i], nil
		}
	}
	for i := range favorites {
		if strings.EqualFold(favorites[i].Name, ref) {
			return &favorites[i], nil
		}
	}
	var match *types.Favorite
	for i := range favorites {
		if strings.HasPrefix(favorites[i].ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("favorite %q is ambiguous", ref)
			}
			match = &favorites[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("favorite %q not found (try 'wr favorites list')", ref)
	}
	return match, nil
}

// resolveFavoriteFolder resolves ref and requires it to be a folder.
func resolveFavoriteFolder(ctx context.Context, workspace, ref string) (*types.Favorite, error) {
	fav, err := resolveFavorite(ctx, workspace, ref)
	if err != nil {
		return nil, err
	}
	if !fav.IsFolder() {
		return nil, fmt.Errorf("favorite %q is not a folder", fav.Name)
	}
	return fav, nil
}

// formatFavoriteTree renders a favorites subtree. Folders show their
// child count, leaves show what kind of entity they point at.
func formatFavoriteTree(buf *strings.Builder, node *views.Node[types.Favorite], depth int) {
	indent := strings.Repeat(ui.TreeIndent, depth)
	if depth > 0 {
		indent = strings.Repeat(ui.TreeIndent, depth-1) + ui.TreeLast
	}
	fav := &node.Item
	if fav.IsFolder() {
		buf.WriteString(fmt.Sprintf("%s%s %s\n", indent,
			ui.RenderCategory(fav.Name),
			ui.RenderMuted(fmt.Sprintf("(%d)", len(node.Children)))))
	} else {
		buf.WriteString(fmt.Sprintf("%s%s %s\n", indent, fav.Name,
			ui.RenderMuted("["+favoriteKindLabel(fav.Kind)+"]")))
	}
	for _, child := range node.Children {
		formatFavoriteTree(buf, child, depth+1)
	}
}

// favoriteKindLabel maps wire kinds to the names the rest of the CLI
// uses ("cycle" is called a sprint everywhere else).
func favoriteKindLabel(kind types.FavoriteKind) string {
	if kind == types.FavoriteSprint {
		return "sprint"
	}
	return string(kind)
}
