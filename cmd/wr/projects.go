package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/windrosehq/windrose-go/internal/ui"
)

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"project"},
	GroupID: "views",
	Short:   "Work with the workspace's projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		ws := requireWorkspace()

		projects, err := cl.Projects.List(ctx, ws)
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(projects)
			return
		}
		if len(projects) == 0 {
			fmt.Println("No projects found.")
			return
		}

		selected := ""
		if settings.Project != "" {
			if proj, err := resolveProject(ctx, ws, settings.Project); err == nil {
				selected = proj.ID
			}
		}

		var buf strings.Builder
		for i := range projects {
			p := &projects[i]
			marker := "  "
			if p.ID == selected {
				marker = ui.RenderAccent("* ")
			}
			line := fmt.Sprintf("%s%-8s %s", marker, p.Identifier, p.Name)
			if p.ArchivedAt != nil {
				line += " " + ui.RenderWarn("[archived]")
			}
			buf.WriteString(line + "\n")
		}
		fmt.Print(buf.String())
	},
}

var workspacesCmd = &cobra.Command{
	Use:     "workspaces",
	Aliases: []string{"workspace"},
	GroupID: "views",
	Short:   "List the workspaces your API key can reach",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx

		workspaces, err := cl.Workspaces.List(ctx)
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(workspaces)
			return
		}
		if len(workspaces) == 0 {
			fmt.Println("No workspaces found for this API key.")
			return
		}

		var buf strings.Builder
		for i := range workspaces {
			w := &workspaces[i]
			marker := "  "
			if w.Slug == settings.Workspace {
				marker = ui.RenderAccent("* ")
			}
			buf.WriteString(fmt.Sprintf("%s%s %s\n", marker, w.Name, ui.RenderMuted("("+w.Slug+")")))
		}
		fmt.Print(buf.String())
	},
}

func init() {
	projectsCmd.AddCommand(projectsListCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(workspacesCmd)
}
