package main

import (
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/windrosehq/windrose-go/internal/debug"
	"github.com/windrosehq/windrose-go/internal/timeparsing"
	"github.com/windrosehq/windrose-go/internal/types"
	"github.com/windrosehq/windrose-go/internal/ui"
)

var issuesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new issue",
	Long: `Create a new issue in the scoped project.

With --name the issue is created directly from flags. Without it, an
interactive form collects the fields (requires a terminal).`,
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		priorityStr, _ := cmd.Flags().GetString("priority")
		stateRef, _ := cmd.Flags().GetString("state")
		sprintRef, _ := cmd.Flags().GetString("sprint")
		labelRefs, _ := cmd.Flags().GetStringSlice("label")
		parentRef, _ := cmd.Flags().GetString("parent")
		startStr, _ := cmd.Flags().GetString("start")
		targetStr, _ := cmd.Flags().GetString("target")

		ctx := rootCtx
		scope := requireScope(ctx)

		states, err := cl.States.List(ctx, scope.Workspace, scope.Project.ID)
		if err != nil {
			FatalError("%v", err)
		}

		if name == "" {
			if !ui.IsTerminal() {
				FatalErrorWithHint("no issue name given", "Pass --name, or run interactively from a terminal")
			}
			name, description, priorityStr, stateRef = runCreateForm(states)
		}

		issue := types.Issue{Name: name}
		if description != "" {
			issue.DescriptionHTML = textToHTML(description)
		}
		if priorityStr != "" {
			p := types.Priority(priorityStr)
			if !p.IsValid() {
				FatalError("invalid priority %q (urgent, high, medium, low, none)", priorityStr)
			}
			issue.Priority = p
		}
		if stateRef != "" {
			st, err := resolveState(ctx, scope, stateRef)
			if err != nil {
				FatalError("%v", err)
			}
			issue.StateID = st.ID
		}
		if sprintRef != "" {
			sp, err := resolveSprint(ctx, scope, sprintRef)
			if err != nil {
				FatalError("%v", err)
			}
			issue.SprintID = &sp.ID
		}
		for _, ref := range labelRefs {
			lb, err := resolveLabel(ctx, scope, ref)
			if err != nil {
				FatalError("%v", err)
			}
			issue.LabelIDs = append(issue.LabelIDs, lb.ID)
		}
		if parentRef != "" {
			parent, err := resolveIssue(ctx, scope, parentRef)
			if err != nil {
				FatalError("resolving parent: %v", err)
			}
			issue.ParentID = &parent.ID
		}
		if startStr != "" {
			t, err := parseDateFlag(startStr)
			if err != nil {
				FatalError("parsing --start: %v", err)
			}
			issue.StartDate = &t
		}
		if targetStr != "" {
			t, err := parseDateFlag(targetStr)
			if err != nil {
				FatalError("parsing --target: %v", err)
			}
			issue.TargetDate = &t
		}

		created, err := cl.Issues.Create(ctx, scope.Workspace, scope.Project.ID, issue)
		if err != nil {
			FatalError("%v", err)
		}
		touchIssue(created.ID)
		debug.LogEvent("issue.create", created.ID, created.Name)

		if jsonOutput {
			outputJSON(created)
			return
		}
		printCreatedIssue(scope, created, states)
	},
}

func init() {
	issuesCreateCmd.Flags().StringP("name", "n", "", "Issue name (required unless interactive)")
	issuesCreateCmd.Flags().StringP("description", "d", "", "Issue description (plain text or markdown)")
	issuesCreateCmd.Flags().String("priority", "", "Priority: urgent, high, medium, low, none")
	issuesCreateCmd.Flags().StringP("state", "s", "", "Workflow state name or ID (default: the project's default state)")
	issuesCreateCmd.Flags().String("sprint", "", "Assign to sprint (name, ID, or 'current')")
	issuesCreateCmd.Flags().StringSliceP("label", "l", []string{}, "Attach labels (name or ID, repeatable)")
	issuesCreateCmd.Flags().String("parent", "", "Parent issue (key or ID)")
	issuesCreateCmd.Flags().String("start", "", "Start date (YYYY-MM-DD or +2w)")
	issuesCreateCmd.Flags().String("target", "", "Target date (YYYY-MM-DD or +2w)")
	issuesCmd.AddCommand(issuesCreateCmd)
}

// runCreateForm collects the core issue fields interactively.
func runCreateForm(states []types.State) (name, description, priority, stateRef string) {
	priorityOptions := []huh.Option[string]{
		huh.NewOption("None", ""),
		huh.NewOption("Urgent", "urgent"),
		huh.NewOption("High", "high"),
		huh.NewOption("Medium", "medium"),
		huh.NewOption("Low", "low"),
	}

	stateOptions := make([]huh.Option[string], 0, len(states)+1)
	stateOptions = append(stateOptions, huh.NewOption("(default)", ""))
	for _, st := range states {
		stateOptions = append(stateOptions, huh.NewOption(st.Name, st.ID))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Description("Short summary of the work (required)").
				Placeholder("e.g., Fix pagination on the issues board").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					if len(s) > 255 {
						return fmt.Errorf("name must be 255 characters or less")
					}
					return nil
				}),

			huh.NewText().
				Title("Description").
				Description("Context for whoever picks this up").
				CharLimit(5000).
				Value(&description),

			huh.NewSelect[string]().
				Title("Priority").
				Options(priorityOptions...).
				Value(&priority),

			huh.NewSelect[string]().
				Title("State").
				Options(stateOptions...).
				Value(&stateRef),

			huh.NewConfirm().
				Title("Create this issue?").
				Affirmative("Create").
				Negative("Cancel"),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			fmt.Fprintln(os.Stderr, "Issue creation cancelled.")
			os.Exit(0)
		}
		FatalError("form error: %v", err)
	}
	return name, description, priority, stateRef
}

func printCreatedIssue(scope projectScope, issue *types.Issue, states []types.State) {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s Created issue: %s\n", green("✓"), issueKey(scope.Project.Identifier, issue))
	fmt.Printf("  Name:     %s\n", issue.Name)
	if st, ok := statesByID(states)[issue.StateID]; ok {
		fmt.Printf("  State:    %s\n", st.Name)
	}
	if issue.Priority != "" && issue.Priority != types.PriorityNone {
		fmt.Printf("  Priority: %s\n", issue.Priority)
	}
	if issue.SprintID != nil {
		fmt.Printf("  Sprint:   %s\n", *issue.SprintID)
	}
}

// textToHTML wraps plain flag/form text into the rich-text HTML shape
// the API stores. Blank lines split paragraphs, single newlines become
// hard breaks.
func textToHTML(text string) string {
	paragraphs := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")
	var b strings.Builder
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		b.WriteString("<p>")
		lines := strings.Split(p, "\n")
		for i, line := range lines {
			if i > 0 {
				b.WriteString("<br/>")
			}
			b.WriteString(html.EscapeString(line))
		}
		b.WriteString("</p>")
	}
	return b.String()
}

// parseDateFlag parses a date flag: YYYY-MM-DD, RFC 3339, or a
// relative offset like "+2w", normalized to UTC.
func parseDateFlag(s string) (time.Time, error) {
	t, err := timeparsing.ParseDate(s, time.Now())
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
