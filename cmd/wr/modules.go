package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/windrosehq/windrose-go/internal/types"
	"github.com/windrosehq/windrose-go/internal/ui"
)

var modulesCmd = &cobra.Command{
	Use:     "modules",
	Aliases: []string{"module", "mod"},
	GroupID: "views",
	Short:   "Work with the project's modules",
}

var modulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List modules",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		scope := requireScope(ctx)

		modules, err := cl.Modules.List(ctx, scope.Workspace, scope.Project.ID)
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(modules)
			return
		}
		if len(modules) == 0 {
			fmt.Println("No modules found.")
			return
		}

		var buf strings.Builder
		for i := range modules {
			formatModuleLine(&buf, &modules[i])
		}
		fmt.Print(buf.String())
	},
}

var modulesShowCmd = &cobra.Command{
	Use:   "show <module>",
	Short: "Show a module's details",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		scope := requireScope(ctx)

		module, err := resolveModule(ctx, scope, args[0])
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(module)
			return
		}

		var buf strings.Builder
		buf.WriteString(ui.RenderCategory(module.Name) + "\n")
		buf.WriteString("Status: " + string(module.Status) + "\n")
		if module.TargetDate != nil {
			buf.WriteString("Target: " + module.TargetDate.Format("2006-01-02") + "\n")
		}
		if module.ArchivedAt != nil {
			buf.WriteString(ui.RenderWarn("Archived "+formatAge(*module.ArchivedAt)+" ago") + "\n")
		}
		if module.Description != "" {
			buf.WriteString("\n" + module.Description + "\n")
		}
		buf.WriteString("\n" + ui.RenderMuted("id: "+module.ID) + "\n")
		fmt.Print(buf.String())
	},
}

var modulesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a module",
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		statusStr, _ := cmd.Flags().GetString("status")
		targetStr, _ := cmd.Flags().GetString("target")

		if name == "" {
			FatalErrorWithHint("module name is required", "Pass --name")
		}
		status := types.ModuleStatus(statusStr)
		if !status.IsValid() {
			FatalError("invalid status %q (backlog, planned, in-progress, paused, completed, cancelled)", statusStr)
		}

		ctx := rootCtx
		scope := requireScope(ctx)

		module := types.Module{Name: name, Description: description, Status: status}
		if targetStr != "" {
			t, err := parseDateFlag(targetStr)
			if err != nil {
				FatalError("parsing --target: %v", err)
			}
			module.TargetDate = &t
		}

		created, err := cl.Modules.Create(ctx, scope.Workspace, scope.Project.ID, module)
		if err != nil {
			FatalError("%v", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Created module %s\n", green("✓"), created.Name)
	},
}

var modulesUpdateCmd = &cobra.Command{
	Use:   "update <module>",
	Short: "Update a module",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		scope := requireScope(ctx)

		module, err := resolveModule(ctx, scope, args[0])
		if err != nil {
			FatalError("%v", err)
		}

		var patch types.ModulePatch
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				FatalError("module name cannot be empty")
			}
			patch.Name = &name
		}
		if cmd.Flags().Changed("description") {
			description, _ := cmd.Flags().GetString("description")
			patch.Description = &description
		}
		if cmd.Flags().Changed("status") {
			statusStr, _ := cmd.Flags().GetString("status")
			status := types.ModuleStatus(statusStr)
			if !status.IsValid() {
				FatalError("invalid status %q (backlog, planned, in-progress, paused, completed, cancelled)", statusStr)
			}
			patch.Status = &status
		}
		if cmd.Flags().Changed("target") {
			targetStr, _ := cmd.Flags().GetString("target")
			t, err := parseDateFlag(targetStr)
			if err != nil {
				FatalError("parsing --target: %v", err)
			}
			patch.TargetDate = &t
		}
		if patch.IsZero() {
			FatalErrorWithHint("nothing to change", "Pass --name, --description, --status, or --target")
		}

		if err := cl.Modules.Update(ctx, scope.Workspace, scope.Project.ID, module.ID, patch); err != nil {
			FatalError("%v", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Updated module %s\n", green("✓"), module.Name)
	},
}

var modulesArchiveCmd = &cobra.Command{
	Use:   "archive <module>",
	Short: "Archive a module",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := rootCtx
		scope := requireScope(ctx)

		module, err := resolveModule(ctx, scope, args[0])
		if err != nil {
			FatalError("%v", err)
		}
		if err := cl.Modules.Archive(ctx, scope.Workspace, scope.Project.ID, module.ID); err != nil {
			FatalError("%v", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Archived module %s\n", green("✓"), module.Name)
	},
}

var modulesDeleteCmd = &cobra.Command{
	Use:   "delete <module>",
	Short: "Delete a module permanently",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")

		ctx := rootCtx
		scope := requireScope(ctx)

		module, err := resolveModule(ctx, scope, args[0])
		if err != nil {
			FatalError("%v", err)
		}

		if !force && !confirmDeletion(fmt.Sprintf("Delete module %q?", module.Name)) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
			return
		}
		if err := cl.Modules.Delete(ctx, scope.Workspace, scope.Project.ID, module.ID); err != nil {
			FatalError("%v", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Deleted module %s\n", green("✓"), module.Name)
	},
}

func init() {
	modulesCreateCmd.Flags().StringP("name", "n", "", "Module name (required)")
	modulesCreateCmd.Flags().StringP("description", "d", "", "Module description")
	modulesCreateCmd.Flags().String("status", "planned", "Status: backlog, planned, in-progress, paused, completed, cancelled")
	modulesCreateCmd.Flags().String("target", "", "Target date (YYYY-MM-DD or +2w)")

	modulesUpdateCmd.Flags().StringP("name", "n", "", "New name")
	modulesUpdateCmd.Flags().StringP("description", "d", "", "New description")
	modulesUpdateCmd.Flags().String("status", "", "New status")
	modulesUpdateCmd.Flags().String("target", "", "New target date (YYYY-MM-DD or +2w)")

	modulesDeleteCmd.Flags().BoolP("force", "f", false, "Skip the confirmation prompt")

	modulesCmd.AddCommand(modulesListCmd)
	modulesCmd.AddCommand(modulesShowCmd)
	modulesCmd.AddCommand(modulesCreateCmd)
	modulesCmd.AddCommand(modulesUpdateCmd)
	modulesCmd.AddCommand(modulesArchiveCmd)
	modulesCmd.AddCommand(modulesDeleteCmd)
	rootCmd.AddCommand(modulesCmd)
}

// formatModuleLine renders one module with its status and target date.
func formatModuleLine(buf *strings.Builder, m *types.Module) {
	status := moduleStatusBadge(m.Status)
	line := fmt.Sprintf("%s %s", status, m.Name)
	if m.TargetDate != nil {
		line += " " + ui.RenderMuted("due "+m.TargetDate.Format("Jan 02"))
	}
	if m.ArchivedAt != nil {
		line += " " + ui.RenderWarn("[archived]")
	}
	buf.WriteString(line + "\n")
}

// moduleStatusBadge renders a fixed-width status column so module names
// line up.
func moduleStatusBadge(status types.ModuleStatus) string {
	padded := fmt.Sprintf("%-11s", string(status))
	switch status {
	case types.ModuleInProgress:
		return ui.RenderAccent(padded)
	case types.ModuleCompleted:
		return ui.RenderPass(padded)
	case types.ModuleCancelled, types.ModulePaused:
		return ui.RenderMuted(padded)
	default:
		return padded
	}
}
