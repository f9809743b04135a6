package main

import (
	"github.com/windrosehq/windrose-go/internal/config"
	"github.com/windrosehq/windrose-go/internal/configfile"
	"github.com/windrosehq/windrose-go/internal/debug"
)

// loadSettings snapshots the merged configuration and fills missing
// workspace/project scope from the .windrose state file, so a checkout
// initialized with 'wr init' works without flags or env vars.
func loadSettings() {
	settings = config.Load()
	if settings.Workspace != "" && settings.Project != "" {
		return
	}

	dir := config.FindDir()
	if dir == "" {
		return
	}
	st, err := configfile.Load(dir)
	if err != nil {
		debug.Logf("loading state file: %v\n", err)
		return
	}
	if st == nil {
		return
	}
	if settings.Workspace == "" {
		settings.Workspace = st.Workspace
	}
	if settings.Project == "" {
		settings.Project = st.Project
	}
}

// requireWorkspace returns the selected workspace slug or exits with a hint.
func requireWorkspace() string {
	if settings.Workspace == "" {
		FatalErrorWithHint("no workspace selected", "Pass --workspace, set WR_WORKSPACE, or run 'wr init'")
	}
	return settings.Workspace
}

// requireProject returns the selected project id or exits with a hint.
func requireProject() string {
	if settings.Project == "" {
		FatalErrorWithHint("no project selected", "Pass --project, set WR_PROJECT, or run 'wr init'")
	}
	return settings.Project
}

// touchIssue records the issue id commands default to later ("wr issues
// close" with no argument closes the issue you just worked on).
func touchIssue(id string) {
	dir := config.FindDir()
	if dir == "" {
		return
	}
	st, err := configfile.Load(dir)
	if err != nil {
		debug.Logf("touch issue: %v\n", err)
		return
	}
	if st == nil {
		st = &configfile.State{Workspace: settings.Workspace, Project: settings.Project}
	}
	if err := st.Touch(dir, id); err != nil {
		debug.Logf("touch issue: %v\n", err)
	}
}

// lastTouchedIssue returns the id recorded by touchIssue, or "".
func lastTouchedIssue() string {
	dir := config.FindDir()
	if dir == "" {
		return ""
	}
	st, err := configfile.Load(dir)
	if err != nil || st == nil {
		return ""
	}
	return st.LastIssue
}
