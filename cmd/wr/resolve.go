package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/windrosehq/windrose-go/internal/types"
)

// projectScope bundles the resolved workspace slug and project record
// most commands operate in.
type projectScope struct {
	Workspace string
	Project   *types.Project
}

// requireScope resolves --workspace/--project (or their configured
// defaults) into a live project record, exiting with a hint when either
// is missing or unknown.
func requireScope(ctx context.Context) projectScope {
	ws := requireWorkspace()
	ref := requireProject()
	proj, err := resolveProject(ctx, ws, ref)
	if err != nil {
		FatalError("%v", err)
	}
	return projectScope{Workspace: ws, Project: proj}
}

// resolveProject accepts a project ID, identifier (e.g. "WEB") or name
// and returns the matching record.
func resolveProject(ctx context.Context, workspace, ref string) (*types.Project, error) {
	projects, err := cl.Projects.List(ctx, workspace)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	for i := range projects {
		if projects[i].ID == ref {
			return &projects[i], nil
		}
	}
	for i := range projects {
		if strings.EqualFold(projects[i].Identifier, ref) || strings.EqualFold(projects[i].Name, ref) {
			return &projects[i], nil
		}
	}
	return nil, fmt.Errorf("project %q not found in workspace %s", ref, workspace)
}

// resolveState accepts a state ID or name.
func resolveState(ctx context.Context, scope projectScope, ref string) (*types.State, error) {
	states, err := cl.States.List(ctx, scope.Workspace, scope.Project.ID)
	if err != nil {
		return nil, fmt.Errorf("listing states: %w", err)
	}
	for i := range states {
		if states[i].ID == ref {
			return &states[i], nil
		}
	}
	for i := range states {
		if strings.EqualFold(states[i].Name, ref) {
			return &states[i], nil
		}
	}
	return nil, fmt.Errorf("state %q not found (try 'wr states list')", ref)
}

// resolveSprint accepts a sprint ID or name, or the shorthand "current"
// for the sprint whose dates bracket today.
func resolveSprint(ctx context.Context, scope projectScope, ref string) (*types.Sprint, error) {
	sprints, err := cl.Sprints.List(ctx, scope.Workspace, scope.Project.ID)
	if err != nil {
		return nil, fmt.Errorf("listing sprints: %w", err)
	}
	if strings.EqualFold(ref, "current") {
		now := time.Now()
		for i := range sprints {
			if sprints[i].Lifecycle(now) == types.SprintCurrent {
				return &sprints[i], nil
			}
		}
		return nil, fmt.Errorf("no sprint is currently running")
	}
	for i := range sprints {
		if sprints[i].ID == ref {
			return &sprints[i], nil
		}
	}
	for i := range sprints {
		if strings.EqualFold(sprints[i].Name, ref) {
			return &sprints[i], nil
		}
	}
	return nil, fmt.Errorf("sprint %q not found (try 'wr sprints list')", ref)
}

// resolveLabel accepts a label ID or name.
func resolveLabel(ctx context.Context, scope projectScope, ref string) (*types.Label, error) {
	labels, err := cl.Labels.List(ctx, scope.Workspace, scope.Project.ID)
	if err != nil {
		return nil, fmt.Errorf("listing labels: %w", err)
	}
	for i := range labels {
		if labels[i].ID == ref {
			return &labels[i], nil
		}
	}
	for i := range labels {
		if strings.EqualFold(labels[i].Name, ref) {
			return &labels[i], nil
		}
	}
	return nil, fmt.Errorf("label %q not found (try 'wr labels list')", ref)
}

// resolveModule accepts a module ID or name.
func resolveModule(ctx context.Context, scope projectScope, ref string) (*types.Module, error) {
	modules, err := cl.Modules.List(ctx, scope.Workspace, scope.Project.ID)
	if err != nil {
		return nil, fmt.Errorf("listing modules: %w", err)
	}
	for i := range modules {
		if modules[i].ID == ref {
			return &modules[i], nil
		}
	}
	for i := range modules {
		if strings.EqualFold(modules[i].Name, ref) {
			return &modules[i], nil
		}
	}
	return nil, fmt.Errorf("module %q not found (try 'wr modules list')", ref)
}

// resolveIssue accepts an issue ID, a key like "WEB-42", or a bare
// sequence number, and returns the matching record. Keys and sequence
// numbers resolve against the scoped project's list; raw IDs hit the
// detail endpoint directly.
func resolveIssue(ctx context.Context, scope projectScope, ref string) (*types.Issue, error) {
	if seq, ok := parseIssueKey(scope.Project.Identifier, ref); ok {
		issues, err := cl.Issues.List(ctx, scope.Workspace, scope.Project.ID)
		if err != nil {
			return nil, fmt.Errorf("listing issues: %w", err)
		}
		for i := range issues {
			if issues[i].SequenceID == seq {
				return &issues[i], nil
			}
		}
		return nil, fmt.Errorf("issue %s-%d not found", scope.Project.Identifier, seq)
	}

	issue, err := cl.Issues.Get(ctx, scope.Workspace, scope.Project.ID, ref)
	if err != nil {
		return nil, fmt.Errorf("fetching issue %s: %w", ref, err)
	}
	if issue == nil {
		return nil, fmt.Errorf("issue %q not found", ref)
	}
	return issue, nil
}

// parseIssueKey extracts the sequence number from "WEB-42" or "42".
// Returns ok=false for anything else, including raw record IDs.
func parseIssueKey(identifier, ref string) (int, bool) {
	s := ref
	if identifier != "" {
		prefix := identifier + "-"
		if len(ref) > len(prefix) && strings.EqualFold(ref[:len(prefix)], prefix) {
			s = ref[len(prefix):]
		}
	}
	seq, err := strconv.Atoi(s)
	if err != nil || seq <= 0 {
		return 0, false
	}
	return seq, true
}

// issueKey renders the human-facing key for an issue, falling back to a
// shortened record ID when the sequence number is unknown.
func issueKey(identifier string, issue *types.Issue) string {
	if issue.SequenceID > 0 && identifier != "" {
		return fmt.Sprintf("%s-%d", identifier, issue.SequenceID)
	}
	if issue.SequenceID > 0 {
		return strconv.Itoa(issue.SequenceID)
	}
	if len(issue.ID) > 8 {
		return issue.ID[:8]
	}
	return issue.ID
}
