package main

import (
	"cmp"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/windrosehq/windrose-go/internal/api"
	"github.com/windrosehq/windrose-go/internal/config"
	"github.com/windrosehq/windrose-go/internal/debug"
	"github.com/windrosehq/windrose-go/internal/types"
	"github.com/windrosehq/windrose-go/internal/ui"
	"github.com/windrosehq/windrose-go/internal/viewstate"
)

var issuesCmd = &cobra.Command{
	Use:     "issues",
	Aliases: []string{"issue", "i"},
	GroupID: "work",
	Short:   "Work with issues",
}

var issuesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List issues in the scoped project",
	Run: func(cmd *cobra.Command, args []string) {
		stateRef, _ := cmd.Flags().GetString("state")
		priorityStr, _ := cmd.Flags().GetString("priority")
		sprintRef, _ := cmd.Flags().GetString("sprint")
		moduleRef, _ := cmd.Flags().GetString("module")
		labelRef, _ := cmd.Flags().GetString("label")
		groupBy, _ := cmd.Flags().GetString("group-by")
		sortBy, _ := cmd.Flags().GetString("sort")
		reverse, _ := cmd.Flags().GetBool("reverse")
		limit, _ := cmd.Flags().GetInt("limit")
		allFlag, _ := cmd.Flags().GetBool("all")
		noPager, _ := cmd.Flags().GetBool("no-pager")

		ctx := rootCtx
		scope := requireScope(ctx)

		// Display preferences persist per workspace/project scope; explicit
		// flags win and update the stored preference.
		prefs, prefStore, prefDir := loadViewPrefs(scope)
		if !cmd.Flags().Changed("group-by") {
			groupBy = prefs.GroupBy
		}
		if !cmd.Flags().Changed("sort") {
			sortBy = prefs.OrderBy
		}
		groupBy = normalizeGroupBy(groupBy)
		orderBy, err := normalizeOrderBy(sortBy)
		if err != nil {
			FatalError("%v", err)
		}
		if cmd.Flags().Changed("group-by") || cmd.Flags().Changed("sort") {
			saveViewPrefs(scope, prefStore, prefDir, groupBy, orderBy)
		}

		opts := api.IssueListOptions{}
		if stateRef != "" {
			st, err := resolveState(ctx, scope, stateRef)
			if err != nil {
				FatalError("%v", err)
			}
			opts.StateID = st.ID
		}
		if priorityStr != "" {
			p := types.Priority(priorityStr)
			if !p.IsValid() {
				FatalError("invalid priority %q (urgent, high, medium, low, none)", priorityStr)
			}
			opts.Priority = p
		}
		if sprintRef != "" {
			sp, err := resolveSprint(ctx, scope, sprintRef)
			if err != nil {
				FatalError("%v", err)
			}
			opts.SprintID = sp.ID
		}
		if moduleRef != "" {
			mod, err := resolveModule(ctx, scope, moduleRef)
			if err != nil {
				FatalError("%v", err)
			}
			opts.ModuleID = mod.ID
		}
		if labelRef != "" {
			lb, err := resolveLabel(ctx, scope, labelRef)
			if err != nil {
				FatalError("%v", err)
			}
			opts.LabelID = lb.ID
		}

		var issues []types.Issue
		if opts == (api.IssueListOptions{}) {
			issues, err = cl.Issues.List(ctx, scope.Workspace, scope.Project.ID)
		} else {
			issues, err = cl.Issues.ListFiltered(ctx, scope.Workspace, scope.Project.ID, opts)
		}
		if err != nil {
			FatalError("%v", err)
		}

		sortIssuesBy(issues, orderBy, reverse)

		effectiveLimit := limit
		if allFlag && !cmd.Flags().Changed("limit") {
			effectiveLimit = 0
		}
		truncated := false
		if effectiveLimit > 0 && len(issues) > effectiveLimit {
			issues = issues[:effectiveLimit]
			truncated = true
		}

		if jsonOutput {
			outputJSON(issues)
			return
		}

		if len(issues) == 0 {
			fmt.Println("No issues found.")
			return
		}

		states, err := cl.States.List(ctx, scope.Workspace, scope.Project.ID)
		if err != nil {
			FatalError("%v", err)
		}

		var buf strings.Builder
		switch groupBy {
		case "state":
			formatIssuesByState(&buf, issues, states, scope.Project.Identifier)
		case "priority":
			formatIssuesByPriority(&buf, issues, states, scope.Project.Identifier)
		default:
			formatIssuesFlat(&buf, issues, states, scope.Project.Identifier)
		}

		if err := ui.ToPager(buf.String(), ui.PagerOptions{NoPager: noPager}); err != nil {
			fmt.Print(buf.String())
		}

		if truncated {
			fmt.Fprintf(os.Stderr, "\nShowing %d issues (use --limit 0 for all)\n", effectiveLimit)
		}
	},
}

func init() {
	issuesListCmd.Flags().StringP("state", "s", "", "Filter by state name or ID")
	issuesListCmd.Flags().String("priority", "", "Filter by priority (urgent, high, medium, low, none)")
	issuesListCmd.Flags().String("sprint", "", "Filter by sprint name, ID, or 'current'")
	issuesListCmd.Flags().String("module", "", "Filter by module name or ID")
	issuesListCmd.Flags().StringP("label", "l", "", "Filter by label name or ID")
	issuesListCmd.Flags().StringP("group-by", "g", "", "Group output: state, priority, none (persisted per scope)")
	issuesListCmd.Flags().String("sort", "", "Sort by field: created, updated, name, priority, manual; prefix with - for descending")
	issuesListCmd.Flags().BoolP("reverse", "r", false, "Reverse sort order")
	issuesListCmd.Flags().IntP("limit", "n", 50, "Limit results (default 50, use 0 for unlimited)")
	issuesListCmd.Flags().Bool("all", false, "Show all issues (no limit)")
	issuesListCmd.Flags().Bool("no-pager", false, "Disable pager output")

	issuesCmd.AddCommand(issuesListCmd)
	rootCmd.AddCommand(issuesCmd)
}

// loadViewPrefs reads the per-scope display preferences from
// .windrose/viewstate.json. Missing directory or corrupt file degrade
// to defaults.
func loadViewPrefs(scope projectScope) (viewstate.Preferences, *viewstate.Store, string) {
	key := viewstate.ScopeKey(scope.Workspace, scope.Project.ID)
	dir := config.FindDir()
	if dir == "" {
		return viewstate.Default(), nil, ""
	}
	store, err := viewstate.Load(dir)
	if err != nil {
		debug.Logf("loading view state: %v", err)
		return viewstate.Default(), nil, ""
	}
	return store.Get(key), store, dir
}

// saveViewPrefs persists explicitly chosen grouping and ordering so the
// next plain 'wr issues list' reuses them.
func saveViewPrefs(scope projectScope, store *viewstate.Store, dir, groupBy, orderBy string) {
	if store == nil || dir == "" {
		return
	}
	key := viewstate.ScopeKey(scope.Workspace, scope.Project.ID)
	store.Update(key, func(p *viewstate.Preferences) {
		p.GroupBy = groupBy
		p.OrderBy = orderBy
	})
	if err := store.Save(dir); err != nil {
		debug.Logf("saving view state: %v", err)
	}
}

func normalizeGroupBy(s string) string {
	switch s {
	case "", "none", "flat":
		return "none"
	case "state", "priority":
		return s
	}
	fmt.Fprintf(os.Stderr, "Warning: unknown group-by %q, using none\n", s)
	return "none"
}

// normalizeOrderBy maps CLI shorthands onto the stored order fields. A
// leading '-' flips to descending.
func normalizeOrderBy(s string) (string, error) {
	desc := strings.HasPrefix(s, "-")
	field := strings.TrimPrefix(s, "-")
	switch field {
	case "", "created", "created_at":
		field = "created_at"
		if s == "" {
			desc = true // newest first by default
		}
	case "updated", "updated_at":
		field = "updated_at"
	case "name", "title":
		field = "name"
	case "priority":
		field = "priority"
	case "manual", "sort_order":
		field = "sort_order"
	case "sequence", "id", "sequence_id":
		field = "sequence_id"
	default:
		return "", fmt.Errorf("unknown sort field %q (created, updated, name, priority, manual, sequence)", field)
	}
	if desc {
		return "-" + field, nil
	}
	return field, nil
}

// sortIssuesBy orders issues by the canonical order field. The field
// may carry a leading '-' for descending; reverse flips once more.
func sortIssuesBy(issues []types.Issue, orderBy string, reverse bool) {
	desc := strings.HasPrefix(orderBy, "-")
	field := strings.TrimPrefix(orderBy, "-")

	slices.SortFunc(issues, func(a, b types.Issue) int {
		var result int
		switch field {
		case "created_at":
			result = a.CreatedAt.Compare(b.CreatedAt)
		case "updated_at":
			result = a.UpdatedAt.Compare(b.UpdatedAt)
		case "name":
			result = cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case "priority":
			result = cmp.Compare(priorityRank(a.Priority), priorityRank(b.Priority))
		case "sort_order":
			result = cmp.Compare(a.SortOrder, b.SortOrder)
		case "sequence_id":
			result = cmp.Compare(a.SequenceID, b.SequenceID)
		}
		if desc != reverse {
			return -result
		}
		return result
	})
}

// formatIssuesByState writes issues under their workflow state headers
// in board order.
func formatIssuesByState(buf *strings.Builder, issues []types.Issue, states []types.State, identifier string) {
	byID := statesByID(states)
	byState := make(map[string][]types.Issue)
	for _, is := range issues {
		byState[is.StateID] = append(byState[is.StateID], is)
	}

	ordered := make([]types.State, len(states))
	copy(ordered, states)
	slices.SortFunc(ordered, func(a, b types.State) int {
		if c := cmp.Compare(groupRank(a.Group), groupRank(b.Group)); c != 0 {
			return c
		}
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})

	first := true
	for _, st := range ordered {
		bucket := byState[st.ID]
		if len(bucket) == 0 {
			continue
		}
		if !first {
			buf.WriteString("\n")
		}
		first = false
		buf.WriteString(fmt.Sprintf("%s %s %s\n",
			ui.RenderStateGroup(st.Group),
			ui.RenderCategory(st.Name),
			ui.RenderMuted(fmt.Sprintf("(%d)", len(bucket)))))
		for _, is := range bucket {
			buf.WriteString("  ")
			formatIssueLine(buf, &is, byID, identifier)
		}
		delete(byState, st.ID)
	}

	// Issues pointing at a state the project no longer has.
	var orphans []types.Issue
	for _, bucket := range byState {
		orphans = append(orphans, bucket...)
	}
	if len(orphans) > 0 {
		if !first {
			buf.WriteString("\n")
		}
		buf.WriteString(fmt.Sprintf("%s %s %s\n",
			ui.RenderSkipIcon(),
			ui.RenderCategory("No state"),
			ui.RenderMuted(fmt.Sprintf("(%d)", len(orphans)))))
		for _, is := range orphans {
			buf.WriteString("  ")
			formatIssueLine(buf, &is, byID, identifier)
		}
	}
}

// formatIssuesByPriority writes issues under priority headers, most
// urgent first.
func formatIssuesByPriority(buf *strings.Builder, issues []types.Issue, states []types.State, identifier string) {
	byID := statesByID(states)
	priorities := []types.Priority{
		types.PriorityUrgent, types.PriorityHigh, types.PriorityMedium,
		types.PriorityLow, types.PriorityNone,
	}
	buckets := make(map[types.Priority][]types.Issue)
	for _, is := range issues {
		p := is.Priority
		if p == "" {
			p = types.PriorityNone
		}
		buckets[p] = append(buckets[p], is)
	}

	first := true
	for _, p := range priorities {
		bucket := buckets[p]
		if len(bucket) == 0 {
			continue
		}
		if !first {
			buf.WriteString("\n")
		}
		first = false
		buf.WriteString(fmt.Sprintf("%s %s\n",
			ui.RenderCategory(string(p)),
			ui.RenderMuted(fmt.Sprintf("(%d)", len(bucket)))))
		for _, is := range bucket {
			buf.WriteString("  ")
			formatIssueLine(buf, &is, byID, identifier)
		}
	}
}

// formatIssuesFlat writes one line per issue.
func formatIssuesFlat(buf *strings.Builder, issues []types.Issue, states []types.State, identifier string) {
	byID := statesByID(states)
	for _, is := range issues {
		formatIssueLine(buf, &is, byID, identifier)
	}
}

// formatIssueLine renders the one-line issue summary:
// GROUP_ICON KEY PRIORITY Name (age)
func formatIssueLine(buf *strings.Builder, issue *types.Issue, states map[string]types.State, identifier string) {
	group := types.GroupBacklog
	if st, ok := states[issue.StateID]; ok {
		group = st.Group
	}
	key := issueKey(identifier, issue)

	buf.WriteString(fmt.Sprintf("%s %s %s %s %s\n",
		ui.RenderStateGroup(group),
		ui.RenderAccent(key),
		ui.RenderPriority(issue.Priority),
		issue.Name,
		ui.RenderMuted("("+formatAge(issue.CreatedAt)+")")))
}

// groupRank orders state groups in board order.
func groupRank(g types.StateGroup) int {
	for i, sg := range types.StateGroups() {
		if sg == g {
			return i
		}
	}
	return len(types.StateGroups())
}
